package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/backmassage/muxbatch/internal/config"
	"github.com/backmassage/muxbatch/internal/display"
	"github.com/backmassage/muxbatch/internal/ffmpeg"
	"github.com/backmassage/muxbatch/internal/logging"
)

// runQuery prints one of ffmpeg's capability listings as a table.
func runQuery(ctx context.Context, cfg *config.Config, q *ffmpeg.Query, log *logging.Logger) int {
	var (
		raw string
		err error
	)
	switch cfg.Query {
	case config.QueryCodecs:
		raw, err = q.Codecs(ctx, cfg.QueryEncoder)
	case config.QueryFormats:
		raw, err = q.Formats(ctx)
	case config.QueryHWAccels:
		raw, err = q.HWAccels(ctx)
	}
	if err != nil {
		log.Error("%v", err)
		return 1
	}

	fmt.Fprintln(os.Stdout, render(cfg, raw))
	return 0
}

func render(cfg *config.Config, raw string) string {
	switch {
	case cfg.Query == config.QueryHWAccels:
		return display.RenderHWAccels(display.ParseHWAccels(raw))
	case cfg.Query == config.QueryCodecs && cfg.QueryEncoder != "":
		return display.RenderHelp("Encoder "+cfg.QueryEncoder, raw)
	}

	l, err := display.ParseListing(raw)
	if errors.Is(err, display.ErrUnrecognized) {
		// Unknown layout from an unusual ffmpeg build: show it as-is.
		return raw
	}
	return display.RenderListing(l)
}
