// go_tube — YouTube feed and oEmbed proxy.
//
// Serves a small JSON API (/api/feed, /api/oembed) that fetches public YouTube
// Atom feeds and oEmbed metadata, caches them for a short TTL, and hands the
// browser clean JSON. The same pipeline is exposed as MCP tools at /mcp, and
// every other path is served from the web root.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/httpapi"
	"github.com/anatolykoptev/go_tube/internal/tubeserver"
	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"
)

var version = "dev"

func main() {
	level := initLogger()
	gin.SetMode(ginMode(level))

	cmd := &cli.Command{
		Name:    "go_tube",
		Usage:   "serve the YouTube feed and oEmbed proxy",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: env.Str("HOST", "127.0.0.1"), Usage: "bind address"},
			&cli.IntFlag{Name: "port", Value: env.Int("PORT", 8000), Usage: "bind port"},
			&cli.StringFlag{Name: "web-root", Value: env.Str("WEB_ROOT", "web"), Usage: "directory served for non-API paths"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, c.String("host"), c.Int("port"), c.String("web-root"))
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func serve(ctx context.Context, host string, port int, webRoot string) error {
	if fi, err := os.Stat(webRoot); err != nil || !fi.IsDir() {
		return fmt.Errorf("web root %q is not a directory", webRoot)
	}

	eng := engine.New(engineConfig())
	mcpServer := tubeserver.NewServer(eng, version)

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	server := &http.Server{
		Addr: addr,
		Handler: httpapi.NewRouter(eng, httpapi.Options{
			WebRoot: webRoot,
			MCP:     tubeserver.Handler(mcpServer),
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("starting go_tube",
			slog.String("version", version),
			slog.String("addr", addr),
			slog.String("web_root", webRoot),
		)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func engineConfig() engine.Config {
	return engine.Config{
		UserAgent:           env.Str("USER_AGENT", engine.DefaultUserAgent),
		FetchTimeout:        env.Duration("FETCH_TIMEOUT", engine.DefaultFetchTimeout),
		FetchMaxTries:       env.Int("FETCH_MAX_TRIES", engine.DefaultFetchMaxTries),
		FetchMaxBytes:       int64(env.Int("FETCH_MAX_BYTES", engine.DefaultFetchMaxBytes)),
		UpstreamRPS:         env.Float("UPSTREAM_RPS", 0),
		UpstreamBurst:       env.Int("UPSTREAM_BURST", engine.DefaultUpstreamBurst),
		CacheTTL:            env.Duration("CACHE_TTL", engine.DefaultCacheTTL),
		DisableSingleflight: !parseBool(env.Str("CACHE_SINGLEFLIGHT", "true")),
	}
}

func initLogger() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(env.Str("LOG_LEVEL", "info"))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if strings.EqualFold(env.Str("LOG_FORMAT", "text"), "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
	return level
}

// ginMode keeps gin's route dump and debug warnings out of non-debug runs.
func ginMode(level slog.Level) string {
	if level <= slog.LevelDebug {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}

// parseBool accepts the usual spellings; anything unrecognized is true.
func parseBool(s string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	return err != nil || v
}
