package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/forPelevin/threadreel/internal/config"
	"github.com/forPelevin/threadreel/internal/domain/mediapool"
	"github.com/forPelevin/threadreel/internal/ports"
	"github.com/forPelevin/threadreel/internal/ports/adapters/ytdlp"
)

// BackgroundEntry is one pool record and where it lives on disk.
type BackgroundEntry struct {
	Kind    ports.MediaKind
	Name    string
	Record  mediapool.Record
	Path    string
	Present bool
}

// Backgrounds lists both pools, video first, names sorted.
func Backgrounds(s *config.Config) ([]BackgroundEntry, error) {
	bg := s.Settings.Background
	var out []BackgroundEntry
	for _, p := range []struct {
		kind ports.MediaKind
		path string
	}{
		{ports.KindVideo, bg.VideoPool},
		{ports.KindAudio, bg.AudioPool},
	} {
		pool, err := mediapool.LoadOrBuiltin(p.path, string(p.kind))
		if err != nil {
			return nil, err
		}
		for _, name := range pool.Names() {
			rec, _ := pool.Get(name)
			path := filepath.Join(bg.MediaRoot, string(p.kind), rec.LocalName())
			_, statErr := os.Stat(path)
			out = append(out, BackgroundEntry{
				Kind:    p.kind,
				Name:    name,
				Record:  rec,
				Path:    path,
				Present: statErr == nil,
			})
		}
	}
	return out, nil
}

// FetchBackgrounds downloads every pool entry that is not on disk yet and
// returns how many were fetched. A nil downloader uses yt-dlp.
func FetchBackgrounds(ctx context.Context, s *config.Config, dl ports.Downloader, log zerolog.Logger) (int, error) {
	if dl == nil {
		dl = ytdlp.New(s.Tools.YtDlp)
	}
	entries, err := Backgrounds(s)
	if err != nil {
		return 0, err
	}
	fetched := 0
	for _, e := range entries {
		if e.Present {
			continue
		}
		log.Info().Str("kind", string(e.Kind)).Str("name", e.Name).Str("from", e.Record.Locator).Msg("downloading background")
		if err := dl.Download(ctx, e.Record.Locator, e.Path, e.Kind); err != nil {
			return fetched, fmt.Errorf("fetch %s %q: %w", e.Kind, e.Name, err)
		}
		fetched++
	}
	return fetched, nil
}
