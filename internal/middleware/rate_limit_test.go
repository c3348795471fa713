package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func limitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/upload", rl.RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func post(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	req.RemoteAddr = ip + ":12345"
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRateLimiterWithoutRedisAllowsEverything(t *testing.T) {
	router := limitedRouter(NewUploadRateLimiter(nil, 1))

	for i := 0; i < 5; i++ {
		rr := post(router, "10.0.0.1")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Header().Get("X-RateLimit-Limit"))
	}
}

func TestNilRateLimiterAllowsEverything(t *testing.T) {
	var rl *RateLimiter
	assert.False(t, rl.Enabled())

	rr := post(limitedRouter(rl), "10.0.0.1")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	rr := post(limitedRouter(NewUploadRateLimiter(client, 1)), "10.0.0.1")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "rate limit check failed", rr.Header().Get("X-RateLimit-Error"))
}

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	client := setupRedis(t)

	rl := NewUploadRateLimiter(client, 2)
	// pin the clock so the test never straddles a window boundary
	fixed := time.Now().Truncate(time.Minute).Add(10 * time.Second)
	rl.now = func() time.Time { return fixed }
	router := limitedRouter(rl)

	rr := post(router, "10.0.0.1")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "2", rr.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rr.Header().Get("X-RateLimit-Remaining"))

	rr = post(router, "10.0.0.1")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = post(router, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "50", rr.Header().Get("Retry-After"))

	// other clients have their own budget
	rr = post(router, "10.0.0.2")
	assert.Equal(t, http.StatusOK, rr.Code)

	remaining, _, err := rl.GetRemainingRequests(context.Background(), "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	remaining, reset, err := rl.GetRemainingRequests(context.Background(), "10.0.0.3")
	require.NoError(t, err)
	assert.Equal(t, rl.Limit(), remaining)
	assert.Equal(t, fixed.Truncate(time.Minute).Add(time.Minute), reset)
}

func TestRateLimiterSettings(t *testing.T) {
	rl := NewSeedRateLimiter(nil, 3)
	assert.Equal(t, 3, rl.Limit())
	assert.Equal(t, time.Minute, rl.Window())
}
