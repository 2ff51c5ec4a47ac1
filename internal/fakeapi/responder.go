package fakeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

type responder struct {
	logger *slog.Logger
}

func (rr *responder) sendJson(w http.ResponseWriter, ctx context.Context, status int, data any) {
	bs, err := json.Marshal(data)
	if err != nil {
		rr.respondAndLogError(w, ctx, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.Copy(w, bytes.NewReader(bs))
}

// respondDetail renders the {"detail": ...} body the real API uses for client errors
func (rr *responder) respondDetail(w http.ResponseWriter, ctx context.Context, status int, detail string) {
	rr.logger.DebugContext(ctx, "Responding "+http.StatusText(status)+": "+detail)
	rr.sendJson(w, ctx, status, map[string]any{"detail": detail})
}

// respondAndLogError will respond with generic error code (500) and log with slog.LevelError level
func (rr *responder) respondAndLogError(w http.ResponseWriter, ctx context.Context, err error) {
	errId := uuid.NewString()
	rr.logger.ErrorContext(ctx, err.Error(), slog.String("err_id", errId))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = io.WriteString(w, `{"detail":"Internal error, id `+errId+`"}`)
}
