package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/bookstore-service/internal/platform/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withLogger installs a JSON logger writing to buf into each request context.
func withLogger(buf *bytes.Buffer) gin.HandlerFunc {
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
		c.Next()
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	return resp
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{name: "generates KSUID when no header present"},
		{name: "passes through existing header", header: "existing-req-123", wantSame: true},
		{name: "replaces header with spaces", header: "has spaces"},
		{name: "replaces oversized header", header: strings.Repeat("a", maxInboundIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ginID, ctxID string

			router := gin.New()
			router.Use(RequestID())
			router.GET("/test", func(c *gin.Context) {
				ginID = GetRequestID(c)
				ctxID = RequestIDFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set(HeaderRequestID, tt.header)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, w.Header().Get(HeaderRequestID), ginID)
			assert.Equal(t, ginID, ctxID)

			if tt.wantSame {
				assert.Equal(t, tt.header, ginID)
				return
			}

			_, err := ksuid.Parse(ginID)
			assert.NoError(t, err)
		})
	}
}

func TestCorrelationID(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{name: "generates UUID when no header present"},
		{name: "passes through existing header", header: "existing-corr-456", wantSame: true},
		{name: "replaces control characters", header: "bad\tvalue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ginID, ctxID string

			router := gin.New()
			router.Use(CorrelationID())
			router.GET("/test", func(c *gin.Context) {
				ginID = GetCorrelationID(c)
				ctxID = CorrelationIDFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set(HeaderCorrelationID, tt.header)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, w.Header().Get(HeaderCorrelationID), ginID)
			assert.Equal(t, ginID, ctxID)

			if tt.wantSame {
				assert.Equal(t, tt.header, ginID)
				return
			}

			_, err := uuid.Parse(ginID)
			assert.NoError(t, err)
		})
	}
}

func TestIDsEnrichContextLogger(t *testing.T) {
	var buf bytes.Buffer

	router := gin.New()
	router.Use(withLogger(&buf), RequestID(), CorrelationID())
	router.GET("/test", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("handled")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	req.Header.Set(HeaderCorrelationID, "corr-1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "corr-1", entry["correlation_id"])
}

func TestContextIDs(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, RequestIDFromContext(ctx))
	assert.Empty(t, CorrelationIDFromContext(ctx))
	//nolint:staticcheck // nil context is part of the contract
	assert.Empty(t, RequestIDFromContext(nil))

	ctx = ContextWithRequestID(ctx, "request-123")
	ctx = ContextWithCorrelationID(ctx, "correlation-456")

	assert.Equal(t, "request-123", RequestIDFromContext(ctx))
	assert.Equal(t, "correlation-456", CorrelationIDFromContext(ctx))
}

func TestRecovery(t *testing.T) {
	tests := []struct {
		name       string
		handler    gin.HandlerFunc
		wantStatus int
		wantBody   bool
	}{
		{
			name:       "panic before write",
			handler:    func(*gin.Context) { panic("boom") },
			wantStatus: http.StatusInternalServerError,
			wantBody:   true,
		},
		{
			name: "panic after write keeps status",
			handler: func(c *gin.Context) {
				c.String(http.StatusOK, "partial")
				panic("late boom")
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "no panic",
			handler:    func(c *gin.Context) { c.Status(http.StatusNoContent) },
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			router := gin.New()
			router.Use(withLogger(&buf), Recovery())
			router.GET("/test", tt.handler)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantBody {
				assert.Equal(t, dto.ErrorCodeInternal, decodeError(t, w).Error.Code)
				assert.Contains(t, buf.String(), "panic recovered")
				assert.Contains(t, buf.String(), "boom")
			}
		})
	}
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		status    int
		skip      []string
		wantLevel string
	}{
		{name: "success logs at info", path: "/api/v1/books", status: http.StatusOK, wantLevel: "INFO"},
		{name: "client error logs at warn", path: "/api/v1/books", status: http.StatusBadRequest, wantLevel: "WARN"},
		{name: "server error logs at error", path: "/api/v1/books", status: http.StatusInternalServerError, wantLevel: "ERROR"},
		{name: "health probes are skipped", path: "/-/live", status: http.StatusOK},
		{name: "explicit skip path", path: "/favicon.ico", status: http.StatusOK, skip: []string{"/favicon.ico"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			router := gin.New()
			router.Use(withLogger(&buf), Logging(tt.skip...))
			router.GET(tt.path, func(c *gin.Context) { c.Status(tt.status) })

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path+"?limit=5", nil))

			if tt.wantLevel == "" {
				assert.Empty(t, buf.String())
				return
			}

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "request completed", entry["msg"])
			assert.Equal(t, tt.path+"?limit=5", entry["path"])
			assert.Equal(t, tt.path, entry["route"])
			assert.InDelta(t, float64(tt.status), entry["status"], 0)
		})
	}
}

func TestTimeout(t *testing.T) {
	tests := []struct {
		name       string
		timeout    time.Duration
		skip       []string
		handler    gin.HandlerFunc
		wantStatus int
	}{
		{
			name:    "handler honouring deadline gets 504",
			timeout: 10 * time.Millisecond,
			handler: func(c *gin.Context) {
				<-c.Request.Context().Done()
			},
			wantStatus: http.StatusGatewayTimeout,
		},
		{
			name:       "fast handler unaffected",
			timeout:    time.Second,
			handler:    func(c *gin.Context) { c.Status(http.StatusOK) },
			wantStatus: http.StatusOK,
		},
		{
			name:    "skipped path has no deadline",
			timeout: 10 * time.Millisecond,
			skip:    []string{"/test"},
			handler: func(c *gin.Context) {
				_, ok := c.Request.Context().Deadline()
				if ok {
					c.Status(http.StatusInternalServerError)
					return
				}

				c.Status(http.StatusOK)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:    "written response is kept",
			timeout: 10 * time.Millisecond,
			handler: func(c *gin.Context) {
				c.Status(http.StatusAccepted)
				c.Writer.WriteHeaderNow()
				<-c.Request.Context().Done()
			},
			wantStatus: http.StatusAccepted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(TimeoutWithSkipPaths(tt.timeout, tt.skip))
			router.GET("/test", tt.handler)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusGatewayTimeout {
				assert.Equal(t, dto.ErrorCodeTimeout, decodeError(t, w).Error.Code)
			}
		})
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	l := NewRateLimiter(RateLimitConfig{RPS: 1, Burst: 2})

	now := time.Date(2026, time.October, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"), "burst exhausted")
	assert.True(t, l.Allow("10.0.0.2"), "buckets are per client")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("10.0.0.1"), "one token refilled")
}

func TestRateLimiter_Sweep(t *testing.T) {
	l := NewRateLimiter(RateLimitConfig{IdleTTL: time.Minute})

	now := time.Date(2026, time.October, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("10.0.0.1")
	now = now.Add(45 * time.Second)
	l.Allow("10.0.0.2")
	now = now.Add(30 * time.Second)

	assert.Equal(t, 1, l.Sweep())
	assert.Len(t, l.clients, 1)
	assert.Contains(t, l.clients, "10.0.0.2")
}

func TestRateLimiter_Defaults(t *testing.T) {
	l := NewRateLimiter(RateLimitConfig{})

	assert.InDelta(t, DefaultRateLimitRPS, l.cfg.RPS, 0)
	assert.Equal(t, DefaultRateLimitBurst, l.cfg.Burst)
	assert.Equal(t, DefaultClientIdleTTL, l.cfg.IdleTTL)
}

func TestRateLimiter_Middleware(t *testing.T) {
	l := NewRateLimiter(RateLimitConfig{RPS: 0.5, Burst: 1})

	router := gin.New()
	router.Use(l.Middleware())
	router.GET("/api/v1/books", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/-/live", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "192.0.2.10:4321"

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		return w
	}

	assert.Equal(t, http.StatusOK, send("/api/v1/books").Code)

	w := send("/api/v1/books")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
	assert.Equal(t, dto.ErrorCodeRateLimited, decodeError(t, w).Error.Code)

	assert.Equal(t, http.StatusOK, send("/-/live").Code, "probes bypass the limiter")
}

func TestRateLimiter_RunStopsOnCancel(t *testing.T) {
	l := NewRateLimiter(RateLimitConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		l.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
