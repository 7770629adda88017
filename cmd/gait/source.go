package main

import (
	"path/filepath"
	"strings"

	"github.com/teslashibe/go-gait/internal/config"
	"github.com/teslashibe/go-gait/pkg/video"
	"github.com/teslashibe/go-gait/pkg/video/capture"
	"github.com/teslashibe/go-gait/pkg/web"
)

// sourceOpener opens .jsonl recordings with the replay reader and everything
// else (camera indices, video files) with OpenCV.
func sourceOpener(cfg config.Capture) web.SourceOpener {
	return func(source string) (video.Source, error) {
		if strings.EqualFold(filepath.Ext(source), ".jsonl") {
			src, err := video.OpenReplaySource(source, cfg.Pace)
			if err != nil {
				return nil, err
			}
			return src, nil
		}

		src, err := capture.Open(source, capture.Config{
			Width:   cfg.Width,
			Height:  cfg.Height,
			FPS:     cfg.FPS,
			Quality: cfg.Quality,
			Pace:    cfg.Pace,
		})
		if err != nil {
			return nil, err
		}
		return src, nil
	}
}
