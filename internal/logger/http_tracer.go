package logger

import (
	"log/slog"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// NewHTTPTracer returns a RoundTripper logging every round trip made through base
// (http.DefaultTransport when nil) to the default logger.
func NewHTTPTracer(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	return &httpTracer{base: base}
}

type httpTracer struct {
	base http.RoundTripper
}

func (t *httpTracer) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	res, err := t.base.RoundTrip(req)
	elapsed := time.Since(start)

	attrs := []slog.Attr{
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		slog.Duration("duration", elapsed),
	}

	var lvl slog.Level
	var msg string
	if err != nil {
		lvl = slog.LevelWarn
		msg = "HTTP round trip failed: " + err.Error()
	} else {
		lvl = slog.LevelDebug
		msg = "HTTP round trip " + strconv.Itoa(res.StatusCode)
		attrs = append(attrs, slog.Int("status", res.StatusCode))
	}

	logger := slog.Default()
	ctx := req.Context()
	if !logger.Enabled(ctx, lvl) {
		return res, err
	}

	r := slog.NewRecord(time.Now(), lvl, msg, callerPC())
	r.AddAttrs(attrs...)
	_ = logger.Handler().Handle(ctx, r)

	return res, err
}

// callerPC returns the pc of the first frame outside net/http, i.e. the code that
// issued the request, or 0 when there is none
func callerPC() uintptr {
	var pcs [32]uintptr
	// skip [runtime.Callers, callerPC, RoundTrip]
	n := runtime.Callers(3, pcs[:])

	for _, pc := range pcs[:n] {
		f, _ := runtime.CallersFrames([]uintptr{pc}).Next()
		if !strings.HasPrefix(f.Function, "net/http.") {
			return pc
		}
	}

	return 0
}
