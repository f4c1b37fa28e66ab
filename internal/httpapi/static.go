package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// staticHandler serves the web root for every path no route claimed.
// Only GET and HEAD are served; OPTIONS outside /api is 404 and anything else is 501.
func staticHandler(webRoot string) gin.HandlerFunc {
	var files http.Handler = http.NotFoundHandler()
	if webRoot != "" {
		files = http.FileServer(http.Dir(webRoot))
	}
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead:
			// NoRoute presets 404; let the file server pick the status.
			c.Status(http.StatusOK)
			files.ServeHTTP(c.Writer, c.Request)
		case http.MethodOptions:
			c.String(http.StatusNotFound, "Not Found")
		default:
			c.String(http.StatusNotImplemented, "Unsupported method")
		}
	}
}
