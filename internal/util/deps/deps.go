package deps

import (
	"fmt"
	"os/exec"
)

// FindEngine returns the path to the yt-dlp binary the engine shells out to.
func FindEngine() (string, error) {
	if p, err := exec.LookPath("yt-dlp"); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("could not find yt-dlp in PATH. Please install yt-dlp.")
}

// FindFFmpeg returns the path to ffmpeg, needed for merging, recoding and
// subtitle embedding in video mode.
func FindFFmpeg() (string, error) {
	if p, err := exec.LookPath("ffmpeg"); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("could not find ffmpeg in PATH. Please install ffmpeg.")
}
