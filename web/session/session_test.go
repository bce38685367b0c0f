package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/camdash/camdash/database/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(Middleware(NewStore([]byte("test-secret-test-secret-test-sec"), 3600)))
	engine.GET("/login", func(c *gin.Context) {
		if err := SetLoginUser(c, &model.User{Id: 42, Username: "alice"}, 600); err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
	engine.GET("/whoami", func(c *gin.Context) {
		id, ok := GetLoginUserId(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "ok": ok, "login": IsLogin(c)})
	})
	engine.GET("/logout", func(c *gin.Context) {
		if err := ClearSession(c); err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
	return engine
}

func do(engine *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestLoginRoundTrip(t *testing.T) {
	engine := newEngine()

	w := do(engine, "/whoami", nil)
	assert.JSONEq(t, `{"id":0,"ok":false,"login":false}`, w.Body.String())

	w = do(engine, "/login", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 600, cookies[0].MaxAge)
	assert.NotContains(t, cookies[0].Value, "alice")

	w = do(engine, "/whoami", cookies)
	assert.JSONEq(t, `{"id":42,"ok":true,"login":true}`, w.Body.String())
}

func TestTamperedCookieIsAnonymous(t *testing.T) {
	engine := newEngine()

	cookies := do(engine, "/login", nil).Result().Cookies()
	require.Len(t, cookies, 1)
	forged := &http.Cookie{Name: CookieName, Value: cookies[0].Value + "x"}

	w := do(engine, "/whoami", []*http.Cookie{forged})
	assert.JSONEq(t, `{"id":0,"ok":false,"login":false}`, w.Body.String())
}

func TestClearSessionExpiresCookie(t *testing.T) {
	engine := newEngine()

	cookies := do(engine, "/login", nil).Result().Cookies()
	w := do(engine, "/logout", cookies)
	cleared := w.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, CookieName, cleared[0].Name)
	assert.Equal(t, -1, cleared[0].MaxAge)

	w = do(engine, "/whoami", cleared)
	assert.JSONEq(t, `{"id":0,"ok":false,"login":false}`, w.Body.String())
}
