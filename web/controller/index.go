package controller

import (
	"errors"
	"net/http"
	"text/template"

	"github.com/camdash/camdash/logger"
	"github.com/camdash/camdash/web/form"
	"github.com/camdash/camdash/web/service"
	"github.com/camdash/camdash/web/session"

	"github.com/gin-gonic/gin"
	csrf "github.com/utrack/gin-csrf"
)

// IndexController handles the login, registration and logout routes.
type IndexController struct {
	BaseController

	sessionMaxAge int // seconds
	csrfSecret    string
}

// NewIndexController creates a new IndexController and initializes its routes.
// sessionMaxAge is the lifetime of a login session in seconds; csrfSecret
// signs the tokens embedded in the login and registration forms.
func NewIndexController(g *gin.RouterGroup, userService *service.UserService, sessionMaxAge int, csrfSecret string) *IndexController {
	a := &IndexController{
		BaseController: BaseController{userService: userService},
		sessionMaxAge:  sessionMaxAge,
		csrfSecret:     csrfSecret,
	}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/", a.index)

	forms := g.Group("", csrf.Middleware(csrf.Options{
		Secret:    a.csrfSecret,
		ErrorFunc: a.csrfFailed,
	}))
	forms.GET("/login", a.loginPage)
	forms.POST("/login", a.login)

	forms.GET("/register", a.registerPage)
	forms.POST("/register", a.register)

	logout := g.Group("/logout", a.checkLogin)
	logout.GET("", a.logout)
	logout.POST("", a.logout)
}

func (a *IndexController) index(c *gin.Context) {
	c.Redirect(http.StatusFound, loginPath)
}

// csrfFailed re-renders the submitted form when its token is missing or stale.
func (a *IndexController) csrfFailed(c *gin.Context) {
	logger.Warningf("csrf token mismatch on %s, IP: %s", c.Request.URL.Path, getRemoteIp(c))
	username := c.PostForm("username")
	if c.Request.URL.Path == "/register" {
		a.renderRegister(c, username, nil, form.MsgCsrf)
	} else {
		a.renderLogin(c, username, nil, form.MsgCsrf)
	}
	c.Abort()
}

func (a *IndexController) loginPage(c *gin.Context) {
	if session.IsLogin(c) {
		c.Redirect(http.StatusFound, dashboardPath)
		return
	}
	a.renderLogin(c, "", nil, "")
}

func (a *IndexController) renderLogin(c *gin.Context, username string, fieldErrs form.Errors, errKey string) {
	data := gin.H{
		"username":   username,
		"errors":     translateErrors(c, fieldErrs),
		"csrf_token": csrf.GetToken(c),
	}
	if errKey != "" {
		data["error"] = I18nWeb(c, errKey)
	}
	html(c, "login.html", "pages.login.title", data)
}

// login checks the submitted credentials and opens a session on success. An
// unknown username and a wrong password produce the same message.
func (a *IndexController) login(c *gin.Context) {
	f, fieldErrs, err := form.BindLogin(c)
	if err != nil {
		a.renderLogin(c, f.Username, fieldErrs, "")
		return
	}

	safeUser := template.HTMLEscapeString(f.Username)
	user, err := a.userService.CheckUser(f.Username, f.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		logger.Warningf("wrong username or password for \"%s\", IP: \"%s\"", safeUser, getRemoteIp(c))
		a.renderLogin(c, f.Username, nil, "pages.login.invalidCredentials")
		return
	} else if err != nil {
		internalError(c, "check user failed:", err)
		return
	}

	if err := session.SetLoginUser(c, user, a.sessionMaxAge); err != nil {
		internalError(c, "Unable to save session:", err)
		return
	}

	logger.Infof("%s logged in successfully, Ip Address: %s", safeUser, getRemoteIp(c))
	c.Redirect(http.StatusFound, dashboardPath)
}

func (a *IndexController) registerPage(c *gin.Context) {
	a.renderRegister(c, "", nil, "")
}

func (a *IndexController) renderRegister(c *gin.Context, username string, fieldErrs form.Errors, errKey string) {
	data := gin.H{
		"username":   username,
		"errors":     translateErrors(c, fieldErrs),
		"csrf_token": csrf.GetToken(c),
	}
	if errKey != "" {
		data["error"] = I18nWeb(c, errKey)
	}
	html(c, "register.html", "pages.register.title", data)
}

// register creates the account and logs the new user in.
func (a *IndexController) register(c *gin.Context) {
	f, fieldErrs, err := form.BindRegister(c, a.userService)
	switch {
	case errors.Is(err, form.ErrUsernameTaken):
		a.renderRegister(c, f.Username, fieldErrs, "pages.register.usernameExists")
		return
	case errors.Is(err, form.ErrValidation):
		a.renderRegister(c, f.Username, fieldErrs, "pages.register.failed")
		return
	case err != nil:
		internalError(c, "check username failed:", err)
		return
	}

	safeUser := template.HTMLEscapeString(f.Username)
	user, err := a.userService.RegisterUser(f.Username, f.Password)
	if errors.Is(err, service.ErrDuplicateUsername) {
		a.renderRegister(c, f.Username, form.Errors{"username": form.MsgUsernameTaken}, "pages.register.usernameExists")
		return
	} else if errors.Is(err, service.ErrPasswordTooLong) {
		a.renderRegister(c, f.Username, form.Errors{"password": form.MsgTooLong}, "pages.register.failed")
		return
	} else if err != nil {
		internalError(c, "register user failed:", err)
		return
	}
	logger.Infof("%s registered, Ip Address: %s", safeUser, getRemoteIp(c))

	if err := session.SetLoginUser(c, user, a.sessionMaxAge); err != nil {
		internalError(c, "Unable to save session:", err)
		return
	}
	c.Redirect(http.StatusFound, dashboardPath)
}

// logout clears the session and redirects to the login page.
func (a *IndexController) logout(c *gin.Context) {
	if user := loginUser(c); user != nil {
		logger.Infof("%s logged out successfully", template.HTMLEscapeString(user.Username))
	}
	if err := session.ClearSession(c); err != nil {
		internalError(c, "Unable to clear session:", err)
		return
	}
	c.Redirect(http.StatusFound, loginPath)
}
