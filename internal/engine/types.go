package engine

// --- Request selectors (tool and query inputs) ---

// FeedSelector names the feed source. Exactly one field must be non-empty after trimming.
type FeedSelector struct {
	ChannelID  string `json:"channel_id,omitempty" jsonschema:"YouTube channel ID (UC...)"`
	PlaylistID string `json:"playlist_id,omitempty" jsonschema:"YouTube playlist ID (PL...)"`
	User       string `json:"user,omitempty" jsonschema:"Legacy YouTube username"`
}

// OEmbedSelector names a video either by ID or by full watch URL. URL wins when both are set.
type OEmbedSelector struct {
	V   string `json:"v,omitempty" jsonschema:"YouTube video ID"`
	URL string `json:"url,omitempty" jsonschema:"Full YouTube watch URL"`
}

// --- Resolved requests ---

// FeedRequest is a validated feed selector plus its canonical upstream URL.
type FeedRequest struct {
	Kind  string // channel_id, playlist_id or user
	Value string
	URL   string
}

// OEmbedRequest is a validated oEmbed selector plus its canonical upstream URL.
type OEmbedRequest struct {
	VideoURL string
	URL      string
}

// --- Output types (JSON responses) ---

// FeedDocument is the normalized form of a YouTube Atom feed.
type FeedDocument struct {
	Title   string     `json:"title"`
	Updated string     `json:"updated"`
	Author  string     `json:"author"`
	Items   []FeedItem `json:"items"`
}

// FeedItem is one <entry> of the feed. Absent elements are empty strings.
type FeedItem struct {
	VideoID     string `json:"videoId"`
	Title       string `json:"title"`
	Published   string `json:"published"`
	Updated     string `json:"updated"`
	Link        string `json:"link"`
	Thumbnail   string `json:"thumbnail"`
	Description string `json:"description"`
}

// FeedResponse is the feed endpoint payload: the resolved selector merged with the document.
type FeedResponse struct {
	Kind    string     `json:"kind"`
	Value   string     `json:"value"`
	FeedURL string     `json:"feedUrl"`
	Title   string     `json:"title"`
	Updated string     `json:"updated"`
	Author  string     `json:"author"`
	Items   []FeedItem `json:"items"`
}
