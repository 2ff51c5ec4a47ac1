package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func captureDefault(t *testing.T, lvl slog.Level) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: lvl, AddSource: true})))
	t.Cleanup(func() {
		slog.SetDefault(prev)
	})

	return buf
}

func TestHTTPTracer_LogsRoundTrip(t *testing.T) {
	buf := captureDefault(t, slog.LevelDebug)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	client := &http.Client{Transport: NewHTTPTracer(server.Client().Transport)}
	res, err := client.Get(server.URL + "/books")
	require.NoError(t, err)
	_ = res.Body.Close()

	out := buf.String()
	assert.Contains(t, out, "HTTP round trip 418")
	assert.Contains(t, out, "method=GET")
	assert.Contains(t, out, "/books")
	assert.Contains(t, out, "status=418")
}

func TestHTTPTracer_LogsFailure(t *testing.T) {
	buf := captureDefault(t, slog.LevelWarn)
	cause := errors.New("dial failed")

	tracer := NewHTTPTracer(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, cause
	}))

	req, err := http.NewRequest(http.MethodDelete, "http://books.invalid/books/1", nil)
	require.NoError(t, err)

	res, err := tracer.RoundTrip(req)
	assert.Nil(t, res)
	assert.Same(t, cause, err)
	assert.Contains(t, buf.String(), "HTTP round trip failed: dial failed")
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestHTTPTracer_SkipsDisabledLevel(t *testing.T) {
	buf := captureDefault(t, slog.LevelInfo)

	tracer := NewHTTPTracer(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Header: make(http.Header)}, nil
	}))

	req, err := http.NewRequest(http.MethodGet, "http://books.invalid/books", nil)
	require.NoError(t, err)

	_, err = tracer.RoundTrip(req)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestHTTPTracer_SourceIsRequestIssuer(t *testing.T) {
	buf := captureDefault(t, slog.LevelDebug)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := &http.Client{Transport: NewHTTPTracer(server.Client().Transport)}
	res, err := client.Get(server.URL + "/books")
	require.NoError(t, err)
	_ = res.Body.Close()

	assert.Contains(t, buf.String(), "http_tracer_test.go:")
	assert.NotContains(t, buf.String(), "net/http/client.go")
}
