package restapi

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey-alix/trip-planner-app/internal/logging"
)

func TestRequestLoggingMiddleware(t *testing.T) {
	t.Run("logs HTTP request details", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewStructuredLogger(&buf, slog.LevelInfo)

		testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("test response"))
		})

		handler := NewRequestLoggingMiddleware(logger)(testHandler)

		req := httptest.NewRequest("GET", "/api/route.json?key=test", nil)
		req.Header.Set("User-Agent", "test-client/1.0")

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "test response", recorder.Body.String())

		output := buf.String()
		assert.Contains(t, output, `"level":"INFO"`)
		assert.Contains(t, output, `"msg":"http_request"`)
		assert.Contains(t, output, `"method":"GET"`)
		assert.Contains(t, output, `"path":"/api/route.json"`)
		assert.Contains(t, output, `"status":200`)
		assert.Contains(t, output, `"user_agent":"test-client/1.0"`)
		assert.Contains(t, output, `"duration_ms":`)
		assert.Contains(t, output, `"component":"http_server"`)
		assert.NotContains(t, output, "key=test")
	})

	t.Run("logs different HTTP methods and status codes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewStructuredLogger(&buf, slog.LevelInfo)

		testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				w.WriteHeader(http.StatusCreated)
			} else {
				w.WriteHeader(http.StatusNotFound)
			}
		})

		handler := NewRequestLoggingMiddleware(logger)(testHandler)

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest("POST", "/api/waypoints.json", nil))
		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.Contains(t, buf.String(), `"method":"POST"`)
		assert.Contains(t, buf.String(), `"status":201`)

		buf.Reset()

		recorder = httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest("DELETE", "/api/waypoints/9", nil))
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Contains(t, buf.String(), `"method":"DELETE"`)
		assert.Contains(t, buf.String(), `"status":404`)
	})

	t.Run("assigns a request id", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewStructuredLogger(&buf, slog.LevelInfo)

		var fromContext string
		testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logging.FromContext(r.Context()).Info("inside handler")
			fromContext = w.Header().Get(requestIDHeader)
		})

		recorder := httptest.NewRecorder()
		NewRequestLoggingMiddleware(logger)(testHandler).ServeHTTP(recorder, httptest.NewRequest("GET", "/test", nil))

		requestID := recorder.Header().Get(requestIDHeader)
		_, err := uuid.Parse(requestID)
		require.NoError(t, err)
		assert.Equal(t, requestID, fromContext)

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		for _, line := range lines {
			assert.Contains(t, line, `"request_id":"`+requestID+`"`)
		}
	})

	t.Run("keeps a valid incoming request id", func(t *testing.T) {
		logger := logging.Discard()
		incoming := uuid.NewString()

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(requestIDHeader, incoming)
		recorder := httptest.NewRecorder()
		NewRequestLoggingMiddleware(logger)(http.NotFoundHandler()).ServeHTTP(recorder, req)

		assert.Equal(t, incoming, recorder.Header().Get(requestIDHeader))
	})

	t.Run("replaces a malformed request id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(requestIDHeader, "not-a-uuid")
		recorder := httptest.NewRecorder()
		NewRequestLoggingMiddleware(logging.Discard())(http.NotFoundHandler()).ServeHTTP(recorder, req)

		assert.NotEqual(t, "not-a-uuid", recorder.Header().Get(requestIDHeader))
	})

	t.Run("handles requests without User-Agent header", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewStructuredLogger(&buf, slog.LevelInfo)

		handler := NewRequestLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Del("User-Agent")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Contains(t, buf.String(), `"user_agent":""`)
	})
}
