package model

import (
	"errors"
	"fmt"
)

// Resolution is the target video resolution cap.
type Resolution string

const (
	Res144  Resolution = "144p"
	Res240  Resolution = "240p"
	Res360  Resolution = "360p"
	Res480  Resolution = "480p"
	Res720  Resolution = "720p"
	Res1080 Resolution = "1080p"
	Res1440 Resolution = "1440p"
	Res4K   Resolution = "4k"
)

var resolutionHeights = map[Resolution]int{
	Res144:  144,
	Res240:  240,
	Res360:  360,
	Res480:  480,
	Res720:  720,
	Res1080: 1080,
	Res1440: 1440,
	Res4K:   2160,
}

// Height returns the maximum frame height for the resolution, or 0 if unknown.
func (r Resolution) Height() int {
	return resolutionHeights[r]
}

// Valid reports whether the resolution is one of the supported values.
func (r Resolution) Valid() bool {
	_, ok := resolutionHeights[r]
	return ok
}

// Resolutions lists the supported resolution values in ascending order.
func Resolutions() []Resolution {
	return []Resolution{Res144, Res240, Res360, Res480, Res720, Res1080, Res1440, Res4K}
}

// Settings holds everything a run needs. Immutable once a run starts.
type Settings struct {
	Res         Resolution
	Source      string // path to the newline-delimited URL file
	Destination string // output directory
	Threads     int
	NoVideo     bool   // audio-only mode
	Format      string // container/transcode format for video mode
	NoSub       bool   // session-only: disable subtitles
	RandomNames bool   // session-only: randomized hidden filenames
	NoUI        bool
	Verbose     bool
}

// OutputExt is the extension (without dot) expected for finished files.
func (s Settings) OutputExt() string {
	if s.NoVideo {
		return "m4a"
	}
	return "mp4"
}

// Validate checks the settings for a download run.
func (s Settings) Validate() error {
	if !s.Res.Valid() {
		return fmt.Errorf("invalid resolution: %q (valid: 144p..1440p, 4k)", s.Res)
	}
	if s.Source == "" {
		return errors.New("no source file configured")
	}
	if s.Destination == "" {
		return errors.New("no destination directory configured")
	}
	if s.Threads < 1 {
		return fmt.Errorf("thread count must be at least 1, got %d", s.Threads)
	}
	if !s.NoVideo && s.Format == "" {
		return errors.New("no output format configured")
	}
	return nil
}
