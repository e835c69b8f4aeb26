package ytdlp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/forPelevin/threadreel/internal/ports"
)

type Adapter struct {
	bin string
}

func New(binPath string) *Adapter {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &Adapter{bin: binPath}
}

// Download fetches locator into outPath. Existing files are left alone.
func (a *Adapter) Download(ctx context.Context, locator, outPath string, kind ports.MediaKind) error {
	if _, err := os.Stat(outPath); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("yt-dlp: %w", err)
	}
	args, err := buildArgs(locator, outPath, kind)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, a.bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("yt-dlp download %s: %w\n%s", locator, err, string(b))
	}
	return nil
}

func buildArgs(locator, outPath string, kind ports.MediaKind) ([]string, error) {
	if strings.TrimSpace(locator) == "" {
		return nil, fmt.Errorf("yt-dlp: empty locator")
	}
	args := []string{"--no-playlist", "--retries", "10"}
	switch kind {
	case ports.KindVideo:
		args = append(args, "-o", outPath, "-f", "bestvideo[height<=1080][ext=mp4]")
	case ports.KindAudio:
		// extraction rewrites the extension, so template it
		tmpl := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".%(ext)s"
		args = append(args, "-o", tmpl, "-f", "bestaudio/best", "-x", "--audio-format", "mp3")
	default:
		return nil, fmt.Errorf("yt-dlp: unknown media kind %q", kind)
	}
	return append(args, "--", locator), nil
}
