package controller

import (
	"github.com/camdash/camdash/web/service"

	"github.com/gin-gonic/gin"
)

// PanelController serves the pages that require a logged-in user.
type PanelController struct {
	BaseController

	deviceURL string
}

// NewPanelController registers the dashboard and stream pages behind checkLogin.
// deviceURL is only displayed; the stream page never contacts the device.
func NewPanelController(g *gin.RouterGroup, userService *service.UserService, deviceURL string) *PanelController {
	a := &PanelController{
		BaseController: BaseController{userService: userService},
		deviceURL:      deviceURL,
	}
	a.initRouter(g)
	return a
}

func (a *PanelController) initRouter(g *gin.RouterGroup) {
	g = g.Group("", a.checkLogin)

	g.GET("/dashboard", a.dashboard)
	g.POST("/dashboard", a.dashboard)
	g.GET("/stream", a.stream)
}

func (a *PanelController) dashboard(c *gin.Context) {
	html(c, "dashboard.html", "pages.dashboard.title", gin.H{
		"user": loginUser(c),
	})
}

func (a *PanelController) stream(c *gin.Context) {
	html(c, "stream.html", "pages.stream.title", gin.H{
		"user":       loginUser(c),
		"device_url": a.deviceURL,
	})
}
