package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"vie_bot/internal/cache"
	"vie_bot/internal/service"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(t *testing.T, h http.Handler, path, token string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Code
}

func TestLocalRateLimit(t *testing.T) {
	InitRedisRateLimiter(nil)
	ipWindows = newLocalLimiter()

	r := gin.New()
	r.GET("/test", RedisRateLimit(2, time.Minute), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	for i := 0; i < 2; i++ {
		if code := do(t, r, "/test", ""); code != 200 {
			t.Fatalf("request %d: %d", i, code)
		}
	}
	if code := do(t, r, "/test", ""); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", code)
	}
}

func TestLocalWindowResets(t *testing.T) {
	l := newLocalLimiter()
	now := time.Unix(0, 0)
	l.now = func() time.Time { return now }
	l.hit("a", time.Second)
	if n := l.hit("a", time.Second); n != 2 {
		t.Fatalf("count = %d", n)
	}
	now = now.Add(2 * time.Second)
	if n := l.hit("a", time.Second); n != 1 {
		t.Fatalf("count after window = %d", n)
	}
}

func TestJWTAndCommandRateLimit(t *testing.T) {
	InitRedisRateLimiter(nil)
	userWindows = newLocalLimiter()
	service.InitJWT("test-secret")

	r := gin.New()
	r.GET("/cmd", JWT(), CommandRateLimit(1, time.Minute), func(c *gin.Context) {
		c.String(200, c.GetString("user_id"))
	})
	r.GET("/admin", JWT(), RequireAdmin(func(id string) bool { return id == "42" }), func(c *gin.Context) {
		c.Status(204)
	})

	if code := do(t, r, "/cmd", ""); code != http.StatusUnauthorized {
		t.Fatalf("no token: %d", code)
	}
	if code := do(t, r, "/cmd", "garbage"); code != http.StatusUnauthorized {
		t.Fatalf("bad token: %d", code)
	}

	tok, err := service.GenerateJWT("7", false)
	if err != nil {
		t.Fatal(err)
	}
	if code := do(t, r, "/cmd", tok); code != 200 {
		t.Fatalf("first command: %d", code)
	}
	if code := do(t, r, "/cmd", tok); code != http.StatusTooManyRequests {
		t.Fatalf("second command: %d", code)
	}
	if code := do(t, r, "/admin", tok); code != http.StatusForbidden {
		t.Fatalf("non-admin: %d", code)
	}

	listed, _ := service.GenerateJWT("42", false)
	if code := do(t, r, "/admin", listed); code != 204 {
		t.Fatalf("listed admin: %d", code)
	}
	admin, _ := service.GenerateJWT("8", true)
	if code := do(t, r, "/admin", admin); code != 204 {
		t.Fatalf("admin claim: %d", code)
	}
}

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisRateLimitIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}
	client, err := cache.NewRedisClient(context.Background(), addr, os.Getenv("REDIS_PASSWORD"), db)
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	defer client.Close()
	InitRedisRateLimiter(client)
	defer InitRedisRateLimiter(nil)

	// small window for test
	w := 2 * time.Second
	max := 2

	r := gin.New()
	r.GET("/test", RedisRateLimit(max, w), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	for i := 0; i < max; i++ {
		res, err := http.Get(srv.URL + "/test")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		res.Body.Close()
		if res.StatusCode != 200 {
			t.Fatalf("expected 200 got %d", res.StatusCode)
		}
	}
	res, err := http.Get(srv.URL + "/test")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != 429 {
		t.Fatalf("expected 429 got %d", res.StatusCode)
	}
}
