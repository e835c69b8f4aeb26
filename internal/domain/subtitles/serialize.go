package subtitles

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/forPelevin/threadreel/internal/types"
)

type Format string

const (
	FormatSRT Format = "srt"
	FormatASS Format = "ass"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatSRT, nil
	case FormatSRT, FormatASS:
		return f, nil
	default:
		return "", &types.ValidationError{Field: "subtitle format", Reason: fmt.Sprintf("unsupported %q (want srt or ass)", s)}
	}
}

// Ext is the file extension for the format, including the dot.
func (f Format) Ext() string {
	if f == FormatASS {
		return ".ass"
	}
	return ".srt"
}

// Serialize writes cues to path, creating parent directories.
func Serialize(cues []types.Cue, path string, format Format) error {
	var body string
	switch format {
	case FormatSRT, "":
		body = RenderSRT(cues)
	case FormatASS:
		body = RenderASS(cues)
	default:
		return &types.ValidationError{Field: "subtitle format", Reason: fmt.Sprintf("unsupported %q", format)}
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &types.IOError{Op: "mkdir", Path: dir, Err: err}
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return &types.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
