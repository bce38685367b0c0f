// Package controller provides the HTTP handlers of the camdash web application:
// login, registration, logout and the pages that require a logged-in user.
package controller

import (
	"net/http"

	"github.com/camdash/camdash/database/model"
	"github.com/camdash/camdash/logger"
	"github.com/camdash/camdash/web/locale"
	"github.com/camdash/camdash/web/service"
	"github.com/camdash/camdash/web/session"

	"github.com/gin-gonic/gin"
)

const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
	loginUserKey  = "login_user"
)

// BaseController provides common functionality for all controllers, including authentication checks.
type BaseController struct {
	userService *service.UserService
}

// checkLogin restores the user behind the session and sends anonymous clients
// to the login page. A session whose user no longer exists is cleared.
func (a *BaseController) checkLogin(c *gin.Context) {
	id, ok := session.GetLoginUserId(c)
	if !ok {
		c.Redirect(http.StatusFound, loginPath)
		c.Abort()
		return
	}

	user, err := a.userService.GetUserById(id)
	if err != nil {
		internalError(c, "restore session user failed:", err)
		return
	}
	if user == nil {
		logger.Warningf("session references missing user %d, IP: %s", id, getRemoteIp(c))
		if err := session.ClearSession(c); err != nil {
			logger.Warning("Unable to clear session:", err)
		}
		c.Redirect(http.StatusFound, loginPath)
		c.Abort()
		return
	}

	c.Set(loginUserKey, user)
	c.Next()
}

// loginUser returns the user restored by checkLogin.
func loginUser(c *gin.Context) *model.User {
	if v, ok := c.Get(loginUserKey); ok {
		user, _ := v.(*model.User)
		return user
	}
	return nil
}

// I18nWeb retrieves an internationalized message for the web interface based on the current locale.
func I18nWeb(c *gin.Context, name string) string {
	return locale.I18n(c, name)
}
