package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/gin-gonic/gin"
)

// Upstream failure messages returned alongside the error detail.
const (
	msgFeedFailed   = "Failed to fetch/parse feed"
	msgOEmbedFailed = "Failed to fetch oEmbed"
)

type handlers struct {
	eng *engine.Engine
}

func (h *handlers) feed(c *gin.Context) {
	req, err := engine.ResolveFeed(engine.FeedSelector{
		ChannelID:  query(c, "channel_id"),
		PlaylistID: query(c, "playlist_id"),
		User:       query(c, "user"),
	})
	if err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.eng.Feed(c.Request.Context(), req)
	if err != nil {
		upstreamError(c, msgFeedFailed, req.URL, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) oembed(c *gin.Context) {
	req, err := engine.ResolveOEmbed(engine.OEmbedSelector{
		V:   query(c, "v"),
		URL: query(c, "url"),
	})
	if err != nil {
		badRequest(c, err)
		return
	}

	payload, err := h.eng.OEmbed(c.Request.Context(), req)
	if err != nil {
		upstreamError(c, msgOEmbedFailed, req.URL, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

func (h *handlers) metrics(c *gin.Context) {
	c.String(http.StatusOK, h.eng.FormatMetrics())
}

// query returns the first non-empty value of key. Empty repeats are skipped,
// so ?channel_id=&channel_id=UC1 selects UC1.
func query(c *gin.Context, key string) string {
	for _, v := range c.QueryArray(key) {
		if v != "" {
			return v
		}
	}
	return ""
}

func badRequest(c *gin.Context, err error) {
	var verr *engine.ValidationError
	if !errors.As(err, &verr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	slog.Debug("http: rejected request", slog.String("path", c.Request.URL.Path), slog.String("reason", verr.Message))
	c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
}

func upstreamError(c *gin.Context, msg, upstream string, err error) {
	slog.Warn("http: upstream failure",
		slog.String("path", c.Request.URL.Path),
		slog.String("upstream", upstream),
		slog.Any("error", err),
	)
	c.JSON(http.StatusBadGateway, gin.H{"error": msg, "detail": err.Error()})
}
