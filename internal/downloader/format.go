package downloader

import (
	"math/rand"
	"path/filepath"
	"strconv"
	"strings"

	"tuber/internal/engine"
	"tuber/internal/model"
)

// Politeness pacing between items, to keep request rates friendly.
const (
	sleepIntervalSec    = 5
	maxSleepIntervalSec = 25
)

// audioFormat prefers opus, then mp4a, both in an m4a container.
const audioFormat = "bestaudio[acodec^=opus][ext=m4a]/bestaudio[acodec^=mp4a][ext=m4a]"

// videoCodecs in preference order for the layered selector.
var videoCodecs = []string{"av01", "vp9.2", "vp9", "avc1"}

// SelectFormat derives the engine quality selector from the settings.
//
// Video mode builds a layered selector: each preferred codec capped at the
// target height with fps above 30, then the same codec ladder without the
// fps constraint, a best-audio pairing, and an absolute height-capped
// fallback when no split streams match.
func SelectFormat(s model.Settings) string {
	if s.NoVideo {
		return audioFormat
	}

	res := strconv.Itoa(s.Res.Height())
	var b strings.Builder
	b.WriteString("(")
	for _, codec := range videoCodecs {
		b.WriteString("bestvideo[vcodec^=" + codec + "][height<=" + res + "][fps>30]/")
	}
	b.WriteString("bestvideo[height<=" + res + "][fps>30]/")
	for _, codec := range videoCodecs {
		b.WriteString("bestvideo[vcodec^=" + codec + "][height<=" + res + "]/")
	}
	b.WriteString("bestvideo[height<=" + res + "])")
	b.WriteString("+(bestaudio[acodec^=opus]/bestaudio)")
	b.WriteString("/best[height<=" + res + "]")
	return b.String()
}

// randomNameChars feeds the randomized hidden filenames.
const randomNameChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const randomNameLen = 10

// OutputName returns the engine filename template: the item title, or a
// 10-character random name with a leading dot so the file looks
// hidden/temporary when randomized names are requested.
func OutputName(s model.Settings) string {
	if !s.RandomNames {
		return "%(title)s.%(ext)s"
	}
	var b strings.Builder
	b.WriteByte('.')
	for i := 0; i < randomNameLen; i++ {
		b.WriteByte(randomNameChars[rand.Intn(len(randomNameChars))])
	}
	b.WriteString(".%(ext)s")
	return b.String()
}

// OutputTemplate anchors the name template in the destination directory.
func OutputTemplate(s model.Settings) string {
	return filepath.Join(s.Destination, OutputName(s))
}

// SubsEnabled reports whether subtitles are requested: on for video mode
// unless explicitly disabled, never for audio-only.
func SubsEnabled(s model.Settings) bool {
	if s.NoVideo {
		return false
	}
	return !s.NoSub
}

// BuildRequest derives the full engine configuration for one worker.
// Pure apart from the random name draw in OutputTemplate.
func BuildRequest(s model.Settings) engine.Request {
	req := engine.Request{
		Format:              SelectFormat(s),
		OutputTemplate:      OutputTemplate(s),
		SleepIntervalSec:    sleepIntervalSec,
		MaxSleepIntervalSec: maxSleepIntervalSec,
		IgnoreErrors:        true,
	}
	if !s.NoVideo {
		req.MergeFormat = "mp4"
		req.RecodeFormat = s.Format
		if SubsEnabled(s) {
			req.WriteSubs = true
			req.WriteAutoSubs = true
			req.ConvertSubsTo = "srt"
			req.EmbedSubs = true
		}
	}
	return req
}
