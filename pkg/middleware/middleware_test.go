package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func ok(c *gin.Context) { c.Status(http.StatusOK) }

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(NewRequestIDMiddleware())

	var seen string
	r.GET("/", func(c *gin.Context) {
		seen = c.GetString("requestID")
		c.Status(http.StatusOK)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 10)
	assert.Equal(t, seen, w.Header().Get("X-Request-ID"))
}

func TestBearerSecret(t *testing.T) {
	cases := []struct {
		secret, header string
		want           int
	}{
		{"s3cret", "Bearer s3cret", http.StatusOK},
		{"s3cret", "Bearer wrong", http.StatusUnauthorized},
		{"s3cret", "s3cret", http.StatusUnauthorized},
		{"s3cret", "", http.StatusUnauthorized},
		{"", "Bearer ", http.StatusUnauthorized},
	}

	for _, c := range cases {
		r := gin.New()
		r.GET("/", NewBearerSecretMiddleware(c.secret), ok)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if c.header != "" {
			req.Header.Set("Authorization", c.header)
		}

		assert.Equal(t, c.want, serve(r, req).Code, "%+v", c)
	}
}

func TestBodySizeLimiter(t *testing.T) {
	r := gin.New()
	r.POST("/", BodySizeLimiter(8), func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	w := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"long value"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, Burst: 2})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go rl.Cleanup(ctx)

	r := gin.New()
	r.GET("/", rl.Handler(), ok)

	req := func(ip string) int {
		rq := httptest.NewRequest(http.MethodGet, "/", nil)
		rq.RemoteAddr = ip + ":1234"
		return serve(r, rq).Code
	}

	assert.Equal(t, http.StatusOK, req("10.0.0.1"))
	assert.Equal(t, http.StatusOK, req("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, req("10.0.0.1"))

	// buckets are per client
	assert.Equal(t, http.StatusOK, req("10.0.0.2"))
}

func TestRateLimiter_CleanupStopsWithContext(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, Burst: 2})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rl.Cleanup(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup kept running after its context was cancelled")
	}
}

func TestTurnstile(t *testing.T) {
	var gotSecret string
	verify := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotSecret = r.PostForm.Get("secret")

		if r.PostForm.Get("response") == "good" {
			w.Write([]byte(`{"success":true}`))
			return
		}
		w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	}))
	defer verify.Close()

	prev := TurnstileVerifyURL
	TurnstileVerifyURL = verify.URL
	defer func() { TurnstileVerifyURL = prev }()

	viper.Reset()
	defer viper.Reset()

	r := gin.New()
	r.POST("/", NewTurnstileMiddleware(), ok)

	send := func(token string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if token != "" {
			req.Header.Set("TurnstileToken", token)
		}
		return serve(r, req).Code
	}

	// disabled lets everything through
	assert.Equal(t, http.StatusOK, send(""))

	viper.Set("cloudflare.turnstile.enabled", true)
	viper.Set("cloudflare.turnstile.secret_token", "ts-secret")

	assert.Equal(t, http.StatusBadRequest, send(""))
	assert.Equal(t, http.StatusUnauthorized, send("bad"))
	assert.Equal(t, http.StatusOK, send("good"))
	assert.Equal(t, "ts-secret", gotSecret)
}
