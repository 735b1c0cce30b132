package logging

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMiddleware_LogsRequestWithID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(zap.NewNop()) })

	h := middleware.RequestID(Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WithContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("tea"))
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/a.txt", nil))

	id := rec.Header().Get(middleware.RequestIDHeader)
	if id == "" {
		t.Fatal("request id header not set")
	}

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("%d log entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e.ContextMap()["request_id"] != id {
			t.Errorf("%q: request_id %v, want %s", e.Message, e.ContextMap()["request_id"], id)
		}
	}

	done := entries[1].ContextMap()
	if entries[1].Message != "request completed" || done["status"] != int64(http.StatusTeapot) || done["size"] != int64(3) {
		t.Fatalf("access log %v", done)
	}
}

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel("info") })

	SetLevel("debug")
	if globalLevel.Level() != zapcore.DebugLevel {
		t.Fatalf("level %v", globalLevel.Level())
	}
	SetLevel("nonsense")
	if globalLevel.Level() != zapcore.DebugLevel {
		t.Fatal("invalid level applied")
	}
}
