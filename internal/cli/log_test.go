package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("loaded", "games", 100) }, true},
		{"request trace at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("request", "path", "/") }, false},
		{"request trace at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("request", "path", "/") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Loaded 100 games")

	out := buf.String()
	if !strings.Contains(out, "Loaded 100 games (") || !strings.Contains(out, "s)") {
		t.Errorf("progress output = %q, want message with elapsed time", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("empty context should yield the default logger")
	}

	l := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("loggerFromContext should return the attached logger")
	}
}

// serveTraced runs one request through the server's logging middleware and
// logs from inside the handler with the request's logger.
func serveTraced(t *testing.T, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var buf bytes.Buffer
	s := &server{logger: newLogger(&buf, log.DebugLevel)}

	h := s.requestID(s.requestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loggerFromContext(r.Context()).Info("rendering", "format", "svg")
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/treemap.svg", nil)
	if header != "" {
		req.Header.Set(requestIDHeader, header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, buf.String()
}

func TestRequestScopedLogger(t *testing.T) {
	t.Run("caller id", func(t *testing.T) {
		rec, out := serveTraced(t, "trace-42")

		if got := rec.Header().Get(requestIDHeader); got != "trace-42" {
			t.Errorf("%s = %q, want trace-42", requestIDHeader, got)
		}
		if n := strings.Count(out, "request_id=trace-42"); n != 2 {
			t.Errorf("request_id appears on %d lines, want 2:\n%s", n, out)
		}
		for _, want := range []string{"rendering", "format=svg", "path=/treemap.svg", "status=418"} {
			if !strings.Contains(out, want) {
				t.Errorf("log missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("generated id", func(t *testing.T) {
		rec, out := serveTraced(t, "")

		id := rec.Header().Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			t.Fatalf("%s = %q is not a UUID: %v", requestIDHeader, id, err)
		}
		if !strings.Contains(out, "request_id="+id) {
			t.Errorf("log does not carry generated id %s:\n%s", id, out)
		}
	})
}
