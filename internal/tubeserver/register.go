// Package tubeserver exposes the feed and oEmbed pipeline as MCP tools.
package tubeserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with every tool registered against eng.
func NewServer(eng *engine.Engine, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_tube",
		Version: version,
	}, nil)
	RegisterTools(server, eng)
	return server
}

// Handler serves server over streamable HTTP, for mounting at /mcp.
func Handler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}

// RegisterTools registers youtube_feed and youtube_oembed on the given MCP server.
func RegisterTools(server *mcp.Server, eng *engine.Engine) {
	registerFeed(server, eng)
	registerOEmbed(server, eng)
}

func registerFeed(server *mcp.Server, eng *engine.Engine) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_feed",
		Description: "Fetch the latest videos of a YouTube channel, playlist or legacy user from the public Atom feed. Provide exactly one of channel_id, playlist_id or user. Returns feed metadata and entries (videoId, title, published, updated, link, thumbnail, description) in feed order.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.FeedSelector) (*mcp.CallToolResult, *engine.FeedResponse, error) {
		req, err := engine.ResolveFeed(input)
		if err != nil {
			return nil, nil, err
		}
		resp, err := eng.Feed(ctx, req)
		if err != nil {
			return nil, nil, fmt.Errorf("Failed to fetch/parse feed: %w", err)
		}
		return nil, resp, nil
	})
}

func registerOEmbed(server *mcp.Server, eng *engine.Engine) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_oembed",
		Description: "Fetch oEmbed metadata (title, author, thumbnail, embed HTML) for one YouTube video, given its ID as v or a full watch URL as url. url wins when both are set.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.OEmbedSelector) (*mcp.CallToolResult, map[string]any, error) {
		req, err := engine.ResolveOEmbed(input)
		if err != nil {
			return nil, nil, err
		}
		payload, err := eng.OEmbed(ctx, req)
		if err != nil {
			return nil, nil, fmt.Errorf("Failed to fetch oEmbed: %w", err)
		}
		var out map[string]any
		if err := json.Unmarshal(payload, &out); err != nil {
			return nil, nil, fmt.Errorf("Failed to fetch oEmbed: %w", &engine.ParseError{Format: "oembed", Err: err})
		}
		return nil, out, nil
	})
}
