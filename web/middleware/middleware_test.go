package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(mw...)
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIdKey))
	})
	return engine
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestDomainValidatorMiddleware(t *testing.T) {
	engine := newEngine(DomainValidatorMiddleware("cam.example.com"))

	tests := []struct {
		host string
		want int
	}{
		{"cam.example.com", http.StatusOK},
		{"cam.example.com:8080", http.StatusOK},
		{"evil.example.com", http.StatusForbidden},
		{"evil.example.com:8080", http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = tt.host
		assert.Equal(t, tt.want, serve(engine, req).Code, tt.host)
	}
}

func TestRequestLoggerAssignsId(t *testing.T) {
	engine := newEngine(RequestLogger())

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	id := w.Header().Get(RequestIdHeader)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, w.Body.String())
}

func TestRequestLoggerKeepsValidId(t *testing.T) {
	engine := newEngine(RequestLogger())

	given := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIdHeader, given)
	w := serve(engine, req)
	assert.Equal(t, given, w.Header().Get(RequestIdHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIdHeader, "bogus\nline")
	w = serve(engine, req)
	assert.NotEqual(t, "bogus\nline", w.Header().Get(RequestIdHeader))
}

func TestSecureMiddleware(t *testing.T) {
	engine := newEngine(SecureMiddleware(SecureOptions(true)))

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))
}
