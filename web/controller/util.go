package controller

import (
	"net"
	"net/http"
	"strings"

	"github.com/camdash/camdash/config"
	"github.com/camdash/camdash/logger"
	"github.com/camdash/camdash/web/form"
	"github.com/camdash/camdash/web/locale"

	"github.com/gin-gonic/gin"
)

// getRemoteIp extracts the real IP address from the request headers or remote address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return strings.TrimSpace(ips[0])
	}
	addr := c.Request.RemoteAddr
	ip, _, _ := net.SplitHostPort(addr)
	return ip
}

// html renders an HTML template with the provided data and title.
func html(c *gin.Context, name string, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = title
	data["localizer"] = locale.GetLocalizer(c)
	data["request_uri"] = c.Request.RequestURI
	c.HTML(http.StatusOK, name, getContext(data))
}

// getContext adds version and other context data to the provided gin.H.
func getContext(h gin.H) gin.H {
	a := gin.H{
		"cur_ver": config.GetVersion(),
		"name":    config.GetName(),
	}
	for key, value := range h {
		a[key] = value
	}
	return a
}

// translateErrors resolves the message keys of a form for the current request.
func translateErrors(c *gin.Context, fieldErrs form.Errors) map[string]string {
	if len(fieldErrs) == 0 {
		return nil
	}
	msgs := make(map[string]string, len(fieldErrs))
	for field, key := range fieldErrs {
		msgs[field] = locale.I18n(c, key)
	}
	return msgs
}

// internalError logs err and answers with a bare 500.
func internalError(c *gin.Context, msg string, err error) {
	logger.Error(msg, err)
	_ = c.Error(err)
	c.AbortWithStatus(http.StatusInternalServerError)
}
