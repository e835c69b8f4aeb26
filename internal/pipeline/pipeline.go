package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/forPelevin/threadreel/internal/config"
	"github.com/forPelevin/threadreel/internal/domain/comments"
	"github.com/forPelevin/threadreel/internal/domain/mediapool"
	"github.com/forPelevin/threadreel/internal/domain/subtitles"
	"github.com/forPelevin/threadreel/internal/history"
	"github.com/forPelevin/threadreel/internal/naming"
	"github.com/forPelevin/threadreel/internal/ports"
	"github.com/forPelevin/threadreel/internal/ports/adapters/espeak"
	"github.com/forPelevin/threadreel/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/threadreel/internal/ports/adapters/reddit"
	"github.com/forPelevin/threadreel/internal/ports/adapters/ytdlp"
	"github.com/forPelevin/threadreel/internal/types"
	"github.com/forPelevin/threadreel/internal/usecase"
)

type Config struct {
	Settings *config.Config
	// ThreadIDs overrides reddit.post_id. Empty with no post_id means hot threads.
	ThreadIDs []string
	// Times overrides settings.times_to_run in hot-thread mode when > 0.
	Times    int
	Force    bool
	KeepTemp bool
	// Seed makes background choices reproducible; 0 means random.
	Seed uint64
	Log  zerolog.Logger

	// Adapters default to the real tools when nil.
	Threads    ports.ThreadSource
	Narrator   ports.Narrator
	Media      ports.MediaTool
	Downloader ports.Downloader
	Now        func() time.Time
}

func (c Config) Validate() error {
	if c.Settings == nil {
		return errors.New("settings are required")
	}
	if c.Times < 0 {
		return fmt.Errorf("times must be >= 0")
	}
	return c.Settings.Validate()
}

// Result describes one processed thread.
type Result struct {
	ThreadID string
	OutDir   string
	Video    string
	// Skipped is set when the thread was not rendered; Reason says why.
	Skipped bool
	Reason  string
}

type runner struct {
	cfg      Config
	s        *config.Config
	log      zerolog.Logger
	threads  ports.ThreadSource
	uc       usecase.Usecase
	hist     *history.Store
	videos   mediapool.Pool
	audios   mediapool.Pool
	format   subtitles.Format
	keepTemp bool
	now      func() time.Time
	seen     map[string]struct{}
}

func Run(ctx context.Context, cfg Config) ([]Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	s := cfg.Settings
	log := cfg.Log

	videos, err := mediapool.LoadOrBuiltin(s.Settings.Background.VideoPool, string(ports.KindVideo))
	if err != nil {
		return nil, err
	}
	audios, err := mediapool.LoadOrBuiltin(s.Settings.Background.AudioPool, string(ports.KindAudio))
	if err != nil {
		return nil, err
	}
	format, err := subtitles.ParseFormat(s.Settings.Subtitles.Format)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("path", s.Settings.HistoryDB).Msg("opening history")
	hist, err := history.Open(s.Settings.HistoryDB)
	if err != nil {
		return nil, err
	}
	defer hist.Close()

	if err := os.MkdirAll(s.Settings.WorkDir, 0o755); err != nil {
		return nil, &types.IOError{Op: "mkdir", Path: s.Settings.WorkDir, Err: err}
	}

	// adapters
	a := buildAdapters(cfg)
	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	}
	uc := usecase.New(usecase.Deps{
		Media:      a.media,
		Narrator:   a.narrator,
		Downloader: a.downloader,
		Rand:       rng,
		Log:        log.With().Str("component", "usecase").Logger(),
	})

	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	r := &runner{
		cfg:      cfg,
		s:        s,
		log:      log,
		threads:  a.threads,
		uc:       uc,
		hist:     hist,
		videos:   videos,
		audios:   audios,
		format:   format,
		keepTemp: cfg.KeepTemp || s.Settings.KeepTemp,
		now:      now,
		seen:     map[string]struct{}{},
	}

	ids := cfg.ThreadIDs
	if len(ids) == 0 {
		ids = s.PostIDs()
	}
	if len(ids) > 0 {
		return r.runIDs(ctx, ids)
	}
	times := cfg.Times
	if times == 0 {
		times = s.Settings.TimesToRun
	}
	return r.runHot(ctx, times)
}

func (r *runner) runIDs(ctx context.Context, ids []string) ([]Result, error) {
	var out []Result
	for i, raw := range ids {
		id := naming.ThreadID(raw)
		if id == "" {
			return out, &types.ValidationError{Field: "thread id", Reason: fmt.Sprintf("%q has no usable characters", raw)}
		}
		r.log.Info().Str("thread", id).Msgf("thread %d of %d", i+1, len(ids))

		if !r.cfg.Force {
			done, err := r.hist.Done(ctx, id)
			if err != nil {
				return out, err
			}
			if done {
				r.log.Info().Str("thread", id).Msg("already rendered, skipping (use --force to redo)")
				out = append(out, Result{ThreadID: id, Skipped: true, Reason: "already rendered"})
				continue
			}
		}
		res, err := r.runThread(ctx, id)
		if err != nil {
			return out, err
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *runner) runHot(ctx context.Context, times int) ([]Result, error) {
	var out []Result
	for i := 0; i < times; i++ {
		id, err := r.pickHot(ctx)
		if err != nil {
			return out, err
		}
		r.log.Info().Str("thread", id).Msgf("iteration %d of %d", i+1, times)
		res, err := r.runThread(ctx, id)
		if err != nil {
			return out, err
		}
		out = append(out, res)
	}
	return out, nil
}

// pickHot returns the first hot thread that is not pinned, allowed by the
// NSFW setting, not rendered before and not used earlier in this invocation.
func (r *runner) pickHot(ctx context.Context) (string, error) {
	sub := r.s.Reddit.Subreddit
	refs, err := r.threads.Hot(ctx, sub)
	if err != nil {
		return "", err
	}
	for _, ref := range refs {
		id := naming.ThreadID(ref.ID)
		if id == "" || ref.Stickied {
			continue
		}
		if ref.NSFW && !r.s.Reddit.AllowNSFW {
			continue
		}
		if _, used := r.seen[id]; used {
			continue
		}
		if !r.cfg.Force {
			done, err := r.hist.Done(ctx, id)
			if err != nil {
				return "", err
			}
			if done {
				continue
			}
		}
		r.seen[id] = struct{}{}
		return id, nil
	}
	return "", fmt.Errorf("no unused hot threads in r/%s", sub)
}

func (r *runner) runThread(ctx context.Context, id string) (Result, error) {
	s := r.s.Settings
	lockPath := filepath.Join(s.WorkDir, id+".lock")
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return Result{}, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return Result{}, fmt.Errorf("thread %s is already being rendered (lock %s)", id, lockPath)
	}
	defer func() { _ = lock.Unlock() }()

	th, err := r.threads.Fetch(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if th.NSFW && !r.s.Reddit.AllowNSFW {
		r.log.Warn().Str("thread", id).Msg("thread is NSFW, skipping (set reddit.allow_nsfw to allow)")
		return Result{ThreadID: id, Skipped: true, Reason: "nsfw"}, nil
	}

	runID := uuid.NewString()
	workDir := filepath.Join(s.WorkDir, id)
	outDir := naming.RunOutDir(s.ResultsDir, id, th.Title, r.now())
	log := r.log.With().Str("thread", id).Str("run", runID).Logger()
	log.Info().Str("title", th.Title).Str("out", outDir).Msg("rendering")

	if !r.keepTemp {
		defer func() {
			if err := os.RemoveAll(workDir); err != nil {
				log.Warn().Err(err).Str("dir", workDir).Msg("cleanup failed")
			}
		}()
	}

	bg := s.Background
	res, err := r.uc.Run(ctx, usecase.Input{
		RunID:  runID,
		Thread: th,
		Comments: comments.Policy{
			MinLength:   r.s.Reddit.MinCommentLength,
			MaxLength:   r.s.Reddit.MaxCommentLength,
			MaxComments: r.s.Reddit.MaxComments,
			PreferHooks: r.s.Reddit.PreferHooks,
		},
		NarrationCap: r.s.NarrationCap(),
		Timing:       r.s.Timing(),
		Format:       r.format,
		Backgrounds: usecase.Backgrounds{
			MediaRoot:   bg.MediaRoot,
			VideoPool:   r.videos,
			AudioPool:   r.audios,
			Video:       bg.Video,
			Audio:       bg.Audio,
			AudioVolume: bg.AudioVolume,
		},
		Width:   r.s.Video.Width,
		Height:  r.s.Video.Height,
		WorkDir: workDir,
		OutDir:  outDir,
	})
	if err != nil {
		return Result{}, err
	}

	manifestPath := filepath.Join(outDir, "manifest.json")
	if err := writeManifest(manifestPath, res.Manifest); err != nil {
		return Result{}, err
	}
	log.Info().Int("cues", res.Manifest.Cues).Str("path", manifestPath).Msg("manifest written")

	if _, err := r.hist.Record(ctx, history.Video{
		ThreadID:        id,
		Subreddit:       th.Subreddit,
		Title:           th.Title,
		OutputPath:      res.Video,
		BackgroundVideo: res.Manifest.Background.Source,
		BackgroundAudio: res.Manifest.Music.Source,
		NarrationSec:    res.Manifest.Narration,
	}); err != nil {
		return Result{}, err
	}
	return Result{ThreadID: id, OutDir: outDir, Video: res.Video}, nil
}

func writeManifest(path string, m types.Manifest) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return &types.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

type adapters struct {
	threads    ports.ThreadSource
	narrator   ports.Narrator
	media      ports.MediaTool
	downloader ports.Downloader
}

func buildAdapters(cfg Config) adapters {
	s := cfg.Settings
	a := adapters{
		threads:    cfg.Threads,
		narrator:   cfg.Narrator,
		media:      cfg.Media,
		downloader: cfg.Downloader,
	}
	if a.threads == nil {
		a.threads = reddit.New(s.Reddit.BaseURL, s.Reddit.UserAgent)
	}
	if a.narrator == nil {
		a.narrator = espeak.New(s.Settings.TTS.Binary, s.Settings.TTS.Voice, s.Settings.TTS.WordsPerMinute)
	}
	if a.media == nil {
		a.media = ffmpeg.New(s.Tools.FFmpeg, s.Tools.FFprobe, cfg.Log.With().Str("component", "ffmpeg").Logger())
	}
	if a.downloader == nil {
		a.downloader = ytdlp.New(s.Tools.YtDlp)
	}
	return a
}

// ensure adapters implement ports
var _ ports.MediaTool = (*ffmpeg.Adapter)(nil)
var _ ports.ThreadSource = (*reddit.Adapter)(nil)
var _ ports.Narrator = (*espeak.Adapter)(nil)
var _ ports.Downloader = (*ytdlp.Adapter)(nil)
