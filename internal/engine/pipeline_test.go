package engine

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTransport answers every request with a canned response and records the URLs it saw.
type stubTransport struct {
	mu     sync.Mutex
	status int
	body   string
	err    error
	urls   []string
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urls = append(s.urls, req.URL.String())
	if s.err != nil {
		return nil, s.err
	}
	return &http.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(strings.NewReader(s.body)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func (s *stubTransport) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.urls)
}

func (s *stubTransport) set(status int, body string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status, s.body, s.err = status, body, err
}

func newTestEngine(t *testing.T, st *stubTransport, opts ...CacheOption) *Engine {
	t.Helper()
	return New(Config{HTTPClient: &http.Client{Transport: st, Timeout: time.Second}}, opts...)
}

func TestEngineFeed(t *testing.T) {
	st := &stubTransport{status: http.StatusOK, body: sampleAtomFeed}
	eng := newTestEngine(t, st)

	req, err := ResolveFeed(FeedSelector{ChannelID: "UC123"})
	require.NoError(t, err)

	resp, err := eng.Feed(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "channel_id", resp.Kind)
	assert.Equal(t, "UC123", resp.Value)
	assert.Contains(t, resp.FeedURL, "channel_id=UC123")
	assert.Equal(t, "Test Channel", resp.Title)
	assert.Equal(t, "Test Uploader", resp.Author)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "dQw4w9WgXcQ", resp.Items[0].VideoID)
	assert.Equal(t, "xQw4w9WgXcZ", resp.Items[1].VideoID)
	assert.Equal(t, []string{req.URL}, st.urls)
}

func TestEngineFeedCached(t *testing.T) {
	clock := newFakeClock()
	st := &stubTransport{status: http.StatusOK, body: sampleAtomFeed}
	eng := newTestEngine(t, st, WithClock(clock.Now))
	ctx := context.Background()
	req, _ := ResolveFeed(FeedSelector{User: "someone"})

	_, err := eng.Feed(ctx, req)
	require.NoError(t, err)
	_, err = eng.Feed(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, st.calls(), "second call within TTL served from cache")

	clock.Advance(DefaultCacheTTL)
	_, err = eng.Feed(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, st.calls(), "call after TTL refetches")

	m := eng.GetMetrics()
	assert.EqualValues(t, 3, m["feed_requests"])
	assert.EqualValues(t, 1, m["feed_cache_hits"])
	assert.EqualValues(t, 2, m["feed_cache_misses"])
}

func TestEngineFeedErrors(t *testing.T) {
	ctx := context.Background()
	req, _ := ResolveFeed(FeedSelector{ChannelID: "UC123"})

	t.Run("upstream error not cached", func(t *testing.T) {
		st := &stubTransport{err: errors.New("connection reset")}
		eng := newTestEngine(t, st)

		_, err := eng.Feed(ctx, req)
		var fetchErr *FetchError
		require.True(t, errors.As(err, &fetchErr), "want *FetchError, got %T", err)
		assert.NotEmpty(t, err.Error())

		st.set(http.StatusOK, sampleAtomFeed, nil)
		resp, err := eng.Feed(ctx, req)
		require.NoError(t, err)
		assert.Len(t, resp.Items, 2)
		assert.Equal(t, 2, st.calls())
	})

	t.Run("malformed feed not cached", func(t *testing.T) {
		st := &stubTransport{status: http.StatusOK, body: "<feed>"}
		eng := newTestEngine(t, st)

		_, err := eng.Feed(ctx, req)
		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr), "want *ParseError, got %T", err)
		assert.EqualValues(t, 1, eng.GetMetrics()["parse_errors"])

		_, err = eng.Feed(ctx, req)
		require.Error(t, err)
		assert.Equal(t, 2, st.calls())
	})

	t.Run("non-2xx upstream", func(t *testing.T) {
		st := &stubTransport{status: http.StatusNotFound, body: "not found"}
		eng := newTestEngine(t, st)

		_, err := eng.Feed(ctx, req)
		var fetchErr *FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	})
}

func TestEngineOEmbed(t *testing.T) {
	ctx := context.Background()

	t.Run("payload passed through", func(t *testing.T) {
		st := &stubTransport{status: http.StatusOK, body: `{"title": "X"}`}
		eng := newTestEngine(t, st)
		req, err := ResolveOEmbed(OEmbedSelector{V: "abc123"})
		require.NoError(t, err)

		payload, err := eng.OEmbed(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, `{"title": "X"}`, string(payload))
		require.Len(t, st.urls, 1)
		assert.Contains(t, st.urls[0], "url=https%3A%2F%2Fwww.youtube.com%2Fwatch%3Fv%3Dabc123")

		_, err = eng.OEmbed(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 1, st.calls())
	})

	t.Run("invalid json", func(t *testing.T) {
		st := &stubTransport{status: http.StatusOK, body: "<html>Bad Request</html>"}
		eng := newTestEngine(t, st)
		req, _ := ResolveOEmbed(OEmbedSelector{V: "abc123"})

		_, err := eng.OEmbed(ctx, req)
		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, "oembed", parseErr.Format)
	})

	t.Run("upstream unauthorized", func(t *testing.T) {
		st := &stubTransport{status: http.StatusUnauthorized, body: "Unauthorized"}
		eng := newTestEngine(t, st)
		req, _ := ResolveOEmbed(OEmbedSelector{V: "private"})

		_, err := eng.OEmbed(ctx, req)
		require.Error(t, err)
		assert.Equal(t, "HTTP Error 401: Unauthorized", err.Error())
	})
}

func TestEngineFormatMetrics(t *testing.T) {
	eng := newTestEngine(t, &stubTransport{status: http.StatusOK, body: sampleOEmbed})
	req, _ := ResolveOEmbed(OEmbedSelector{V: "dQw4w9WgXcQ"})
	_, err := eng.OEmbed(context.Background(), req)
	require.NoError(t, err)

	out := eng.FormatMetrics()
	assert.Contains(t, out, "oembed_requests 1\n")
	assert.Contains(t, out, "fetch_requests 1\n")
	assert.Contains(t, out, "oembed_cache_entries 1\n")
	assert.Equal(t, len(metricKeys), strings.Count(out, "\n"))
}
