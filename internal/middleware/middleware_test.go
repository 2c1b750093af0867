package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/timeline-backend-go/internal/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiterAllow(t *testing.T) {
	limiter := NewRateLimiter(1, 2)

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"), "burst of 2 should be exhausted")

	// Other clients keep their own bucket.
	assert.True(t, limiter.Allow("10.0.0.2"))
}

func TestRateLimiterRefills(t *testing.T) {
	limiter := NewRateLimiter(100, 1)

	require.True(t, limiter.Allow("10.0.0.1"))
	require.False(t, limiter.Allow("10.0.0.1"))

	time.Sleep(50 * time.Millisecond)
	assert.True(t, limiter.Allow("10.0.0.1"), "bucket should refill at 100 tokens/s")
}

func TestRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(1, 1))
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.Equal(t, float64(429), body["code"])
	assert.Contains(t, body["message"], "Rate limit exceeded")
}

func signToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func authRouter(secret string) *gin.Engine {
	router := gin.New()
	router.Use(Auth(secret))
	router.POST("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString("user")})
	})
	return router
}

func TestAuthAcceptsValidToken(t *testing.T) {
	router := authRouter("test-secret")
	token := signToken(t, "test-secret", jwt.RegisteredClaims{
		Subject:   "owner",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "owner")
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	router := authRouter("test-secret")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsWrongSecret(t *testing.T) {
	router := authRouter("test-secret")
	token := signToken(t, "other-secret", jwt.RegisteredClaims{
		Subject:   "owner",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	router := authRouter("test-secret")
	token := signToken(t, "test-secret", jwt.RegisteredClaims{
		Subject:   "owner",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMetricsMiddleware(t *testing.T) {
	metrics.ResetForTesting()
	collector := metrics.NewCollector("test")

	router := gin.New()
	router.Use(Metrics(collector))
	router.GET("/trips/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trips/42", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	got := testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("GET", "/trips/:id", "200"))
	assert.Equal(t, 1.0, got, "counter should use the route template, not the raw path")
}

func TestMetricsMiddlewareUnmatchedRoute(t *testing.T) {
	metrics.ResetForTesting()
	collector := metrics.NewCollector("test")

	router := gin.New()
	router.Use(Metrics(collector))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	got := testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("GET", "unmatched", "404"))
	assert.Equal(t, 1.0, got)
}
