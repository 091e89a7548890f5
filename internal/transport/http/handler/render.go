package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"luxejournal/internal/transport/http/middleware"
)

// render wraps c.HTML with the data every page expects: the current
// user, pending flashes, and the footer year.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CurrentUser"] = middleware.CurrentUser(c)
	data["Flashes"] = middleware.TakeFlashes(c)
	data["CurrentYear"] = time.Now().Year()
	c.HTML(status, name, data)
}

func renderError(c *gin.Context, status int, message string) {
	render(c, status, "error.html", gin.H{
		"Status":  status,
		"Message": message,
	})
	c.Abort()
}

func renderNotFound(c *gin.Context) {
	renderError(c, http.StatusNotFound, "This post could not be found.")
}

func renderForbidden(c *gin.Context) {
	renderError(c, http.StatusForbidden, "You do not have permission to do that.")
}
