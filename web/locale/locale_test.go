package locale

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBundle(t *testing.T) *Bundle {
	t.Helper()
	fsys := fstest.MapFS{
		"translation/translate.en_US.toml": {Data: []byte("[pages.login]\n\"title\" = \"Login\"\n")},
		"translation/translate.ru_RU.toml": {Data: []byte("[pages.login]\n\"title\" = \"Вход\"\n")},
	}
	b, err := NewBundle(fsys, "translation")
	require.NoError(t, err)
	return b
}

func TestTranslate(t *testing.T) {
	b := testBundle(t)

	assert.Equal(t, "Login", Translate(b.Localizer(), "pages.login.title", nil))
	assert.Equal(t, "Вход", Translate(b.Localizer("ru-RU"), "pages.login.title", nil))
	assert.Equal(t, "Login", Translate(b.Localizer("de"), "pages.login.title", nil))
	assert.Equal(t, "pages.missing", Translate(b.Localizer(), "pages.missing", nil))
	assert.Equal(t, "pages.login.title", Translate(nil, "pages.login.title", nil))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	b := testBundle(t)
	engine := gin.New()
	engine.Use(b.Middleware())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, I18n(c, "pages.login.title"))
	})

	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"default", "", "", "Login"},
		{"accept language", "ru-RU,ru;q=0.9", "", "Вход"},
		{"cookie wins", "ru-RU", "en-US", "Login"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "lang", Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}
