package engine

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

// Engine is the fetch-cache-normalize pipeline. Build one with New at startup
// and share it between every adapter; it holds no package-level state.
type Engine struct {
	fetcher *Fetcher
	feeds   *Cache[*FeedDocument]
	oembeds *Cache[json.RawMessage]
	metrics *Metrics
}

// New initializes the engine with the given configuration.
func New(cfg Config, opts ...CacheOption) *Engine {
	cfg = cfg.withDefaults()
	metrics := &Metrics{}

	cacheOpts := append([]CacheOption{WithSingleflight(!cfg.DisableSingleflight)}, opts...)
	e := &Engine{
		fetcher: NewFetcher(cfg, metrics),
		feeds:   NewCache[*FeedDocument]("feed", cfg.CacheTTL, cacheOpts...),
		oembeds: NewCache[json.RawMessage]("oembed", cfg.CacheTTL, cacheOpts...),
		metrics: metrics,
	}
	slog.Info("engine: initialized",
		slog.Duration("cache_ttl", cfg.CacheTTL),
		slog.Bool("singleflight", !cfg.DisableSingleflight),
		slog.Duration("fetch_timeout", cfg.FetchTimeout),
		slog.Int("fetch_max_tries", cfg.FetchMaxTries),
	)
	return e
}

// Feed returns the normalized feed for a resolved request, from cache when fresh.
func (e *Engine) Feed(ctx context.Context, req FeedRequest) (*FeedResponse, error) {
	e.metrics.FeedRequests.Add(1)

	var doc *FeedDocument
	err := TrackOperation(ctx, "feed", func(ctx context.Context) error {
		var err error
		doc, err = e.feeds.GetOrCompute(ctx, req.URL, func(ctx context.Context) (*FeedDocument, error) {
			body, err := e.fetcher.Fetch(ctx, req.URL)
			if err != nil {
				return nil, err
			}
			return e.countParse(ParseFeed(body))
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return &FeedResponse{
		Kind:    req.Kind,
		Value:   req.Value,
		FeedURL: req.URL,
		Title:   doc.Title,
		Updated: doc.Updated,
		Author:  doc.Author,
		Items:   doc.Items,
	}, nil
}

// OEmbed returns the upstream oEmbed payload unmodified, from cache when fresh.
func (e *Engine) OEmbed(ctx context.Context, req OEmbedRequest) (json.RawMessage, error) {
	e.metrics.OEmbedRequests.Add(1)

	var payload json.RawMessage
	err := TrackOperation(ctx, "oembed", func(ctx context.Context) error {
		var err error
		payload, err = e.oembeds.GetOrCompute(ctx, req.URL, func(ctx context.Context) (json.RawMessage, error) {
			body, err := e.fetcher.Fetch(ctx, req.URL)
			if err != nil {
				return nil, err
			}
			if !json.Valid(body) {
				e.metrics.ParseErrors.Add(1)
				return nil, &ParseError{Format: "oembed", Err: errors.New("invalid JSON")}
			}
			return json.RawMessage(body), nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (e *Engine) countParse(doc *FeedDocument, err error) (*FeedDocument, error) {
	if err != nil {
		e.metrics.ParseErrors.Add(1)
	}
	return doc, err
}
