package engine

import (
	"net/url"
	"strings"
)

const (
	feedEndpoint   = "https://www.youtube.com/feeds/videos.xml"
	oembedEndpoint = "https://www.youtube.com/oembed"
	watchEndpoint  = "https://www.youtube.com/watch"
)

// Client-facing validation messages.
const (
	MsgFeedSelector   = "Provide exactly one of channel_id, playlist_id, or user"
	MsgOEmbedSelector = "Provide v or url"
)

// ResolveFeed validates the selector and builds the upstream feed URL.
// Zero or several non-empty selectors is an error; there is no precedence.
func ResolveFeed(sel FeedSelector) (FeedRequest, error) {
	candidates := [...]struct{ kind, value string }{
		{"channel_id", strings.TrimSpace(sel.ChannelID)},
		{"playlist_id", strings.TrimSpace(sel.PlaylistID)},
		{"user", strings.TrimSpace(sel.User)},
	}

	var picked []FeedRequest
	for _, c := range candidates {
		if c.value != "" {
			picked = append(picked, FeedRequest{Kind: c.kind, Value: c.value})
		}
	}
	if len(picked) != 1 {
		return FeedRequest{}, &ValidationError{Message: MsgFeedSelector}
	}

	req := picked[0]
	req.URL = feedEndpoint + "?" + url.Values{req.Kind: {req.Value}}.Encode()
	return req, nil
}

// ResolveOEmbed validates the selector, expanding a bare video ID into a watch URL,
// and builds the upstream oEmbed URL.
func ResolveOEmbed(sel OEmbedSelector) (OEmbedRequest, error) {
	videoURL := strings.TrimSpace(sel.URL)
	if videoURL == "" {
		if v := strings.TrimSpace(sel.V); v != "" {
			videoURL = WatchURL(v)
		}
	}
	if videoURL == "" {
		return OEmbedRequest{}, &ValidationError{Message: MsgOEmbedSelector}
	}

	u := oembedEndpoint + "?url=" + url.QueryEscape(videoURL) + "&format=json"
	return OEmbedRequest{VideoURL: videoURL, URL: u}, nil
}

// WatchURL returns the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return watchEndpoint + "?v=" + escapeVideoID(videoID)
}

// escapeVideoID percent-encodes everything outside the unreserved set, keeping '/'.
// Spaces become %20, and '&', '=' and '+' cannot leak into the watch query.
func escapeVideoID(s string) string {
	s = strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
	return strings.ReplaceAll(s, "%2F", "/")
}
