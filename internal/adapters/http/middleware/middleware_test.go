package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(router *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())

	var captured string
	router.GET("/test", func(c *gin.Context) {
		captured = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	w := performRequest(router, nil)

	require.NotEmpty(t, captured)
	_, err := uuid.Parse(captured)
	assert.NoError(t, err)
	assert.Equal(t, captured, w.Header().Get(HeaderRequestID))
}

func TestRequestID_PropagatesHeader(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())

	var fromCtx string
	router.GET("/test", func(c *gin.Context) {
		fromCtx = RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := performRequest(router, map[string]string{HeaderRequestID: "req-abc"})

	assert.Equal(t, "req-abc", fromCtx)
	assert.Equal(t, "req-abc", w.Header().Get(HeaderRequestID))
}

func TestCorrelationID_PropagatesHeader(t *testing.T) {
	router := gin.New()
	router.Use(CorrelationID())

	var captured string
	router.GET("/test", func(c *gin.Context) {
		captured = CorrelationIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := performRequest(router, map[string]string{HeaderCorrelationID: "corr-xyz"})

	assert.Equal(t, "corr-xyz", captured)
	assert.Equal(t, "corr-xyz", w.Header().Get(HeaderCorrelationID))
}

func TestRequireUser_RejectsMissingHeader(t *testing.T) {
	router := gin.New()
	router.Use(RequireUser())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := performRequest(router, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestRequireUser_RejectsBlankHeader(t *testing.T) {
	router := gin.New()
	router.Use(RequireUser())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := performRequest(router, map[string]string{HeaderUserID: "   "})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireUser_ExtractsUserID(t *testing.T) {
	router := gin.New()
	router.Use(RequireUser())

	var fromGin, fromCtx string
	router.GET("/test", func(c *gin.Context) {
		fromGin = GetUserID(c)
		fromCtx = UserIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := performRequest(router, map[string]string{HeaderUserID: "alice"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", fromGin)
	assert.Equal(t, "alice", fromCtx)
}

func TestRecovery_CatchesPanic(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/test", func(*gin.Context) {
		panic("boom")
	})

	w := performRequest(router, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestTimeout_SetsDeadline(t *testing.T) {
	router := gin.New()
	router.Use(Timeout(50 * time.Millisecond))

	var hasDeadline bool
	router.GET("/test", func(c *gin.Context) {
		_, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	performRequest(router, nil)

	assert.True(t, hasDeadline)
}

func TestContextHelpers_EmptyWhenUnset(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, RequestIDFromContext(ctx))
	assert.Empty(t, CorrelationIDFromContext(ctx))
	assert.Empty(t, UserIDFromContext(ctx))
}
