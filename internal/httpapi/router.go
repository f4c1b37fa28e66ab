// Package httpapi is the browser-facing HTTP surface: the JSON API under /api,
// health and metrics endpoints, the optional MCP endpoint, and static files.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/gin-gonic/gin"
)

// DefaultHandlerTimeout bounds one API request, upstream fetch included.
const DefaultHandlerTimeout = 20 * time.Second

// Options configures NewRouter.
type Options struct {
	// WebRoot is the directory served for every non-API path. Empty disables static files.
	WebRoot        string
	HandlerTimeout time.Duration
	// MCP, when set, is mounted at /mcp for every method.
	MCP http.Handler
}

// NewRouter wires the API, health, metrics, MCP endpoint and static files onto one gin engine.
func NewRouter(eng *engine.Engine, opts Options) http.Handler {
	if opts.HandlerTimeout <= 0 {
		opts.HandlerTimeout = DefaultHandlerTimeout
	}
	h := &handlers{eng: eng}

	g := gin.New()
	g.Use(securityHeaders(), requestLogger(), recovery())

	g.GET("/health", healthHandler)
	g.GET("/metrics", h.metrics)

	api := g.Group("/api", corsMiddleware())
	{
		api.GET("/feed", withTimeout(opts.HandlerTimeout, h.feed))
		api.GET("/oembed", withTimeout(opts.HandlerTimeout, h.oembed))
		api.OPTIONS("/*path", preflight)
	}

	if opts.MCP != nil {
		g.Any("/mcp", gin.WrapH(opts.MCP))
	}

	g.NoRoute(staticHandler(opts.WebRoot))
	return g
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func withTimeout(d time.Duration, fn gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		fn(c)
	}
}
