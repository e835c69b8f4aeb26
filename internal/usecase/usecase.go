package usecase

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/threadreel/internal/domain/background"
	"github.com/forPelevin/threadreel/internal/domain/comments"
	"github.com/forPelevin/threadreel/internal/domain/mediapool"
	"github.com/forPelevin/threadreel/internal/domain/subtitles"
	"github.com/forPelevin/threadreel/internal/ports"
	"github.com/forPelevin/threadreel/internal/types"
)

type Deps struct {
	Media    ports.MediaTool
	Narrator ports.Narrator
	// Downloader may be nil; backgrounds are then taken from the media root as is.
	Downloader ports.Downloader
	Rand       *rand.Rand
	Log        zerolog.Logger
}

type Usecase struct {
	d  Deps
	bg *background.Selector
}

func New(d Deps) Usecase {
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	bg := background.New(d.Media, d.Rand, d.Log.With().Str("component", "background").Logger())
	return Usecase{d: d, bg: bg}
}

// Backgrounds says where background media lives and which entries to use.
type Backgrounds struct {
	MediaRoot string
	VideoPool mediapool.Pool
	AudioPool mediapool.Pool
	// Video and Audio name pool entries; empty or unknown means random.
	Video       string
	Audio       string
	AudioVolume float64
}

type Input struct {
	RunID        string
	Thread       types.ThreadContent
	Comments     comments.Policy
	NarrationCap time.Duration
	Timing       subtitles.Timing
	Format       subtitles.Format
	Backgrounds  Backgrounds
	Width        int
	Height       int
	// WorkDir holds intermediate files; OutDir receives the video and subtitles.
	WorkDir string
	OutDir  string
}

type Result struct {
	Manifest  types.Manifest
	Video     string
	Narration types.Narration
}

func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	log := u.d.Log.With().Str("thread", in.Thread.ID).Logger()
	for _, dir := range []string{in.WorkDir, in.OutDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, &types.IOError{Op: "mkdir", Path: dir, Err: err}
		}
	}

	picked := comments.Select(in.Thread.Comments, in.Comments)
	log.Info().Int("comments", len(picked)).Int("total", len(in.Thread.Comments)).Msg("comments selected")

	narr, spoken, err := u.narrate(ctx, in, picked)
	if err != nil {
		return Result{}, err
	}
	target := backgroundTarget(narr.Duration, in.NarrationCap)
	log.Info().
		Dur("narration", narr.Duration).
		Int("spoken_comments", narr.Comments).
		Dur("target", target).
		Msg("narration ready")

	// subs
	cues := subtitles.Build(in.Thread.Title, spoken, in.Timing)
	subsName := "subtitles" + in.Format.Ext()
	subsPath := filepath.Join(in.OutDir, subsName)
	if err := subtitles.Serialize(cues, subsPath, in.Format); err != nil {
		return Result{}, err
	}

	// backgrounds
	b := in.Backgrounds
	bgVideo, err := u.background(ctx, b.MediaRoot, ports.KindVideo, b.VideoPool, b.Video, target, filepath.Join(in.WorkDir, "background.mp4"))
	if err != nil {
		return Result{}, fmt.Errorf("background video: %w", err)
	}
	var bgAudio types.TrimmedClip
	if b.AudioVolume > 0 {
		bgAudio, err = u.background(ctx, b.MediaRoot, ports.KindAudio, b.AudioPool, b.Audio, target, filepath.Join(in.WorkDir, "background.mp3"))
		if err != nil {
			return Result{}, fmt.Errorf("background audio: %w", err)
		}
	}

	// render
	out := filepath.Join(in.OutDir, "video.mp4")
	if err := u.d.Media.Compose(ctx, types.ComposeSpec{
		BackgroundVideo:  bgVideo.Path,
		BackgroundAudio:  bgAudio.Path,
		BackgroundVolume: b.AudioVolume,
		Narration:        narr.Path,
		Subtitles:        subsPath,
		Width:            in.Width,
		Height:           in.Height,
		Out:              out,
	}); err != nil {
		return Result{}, err
	}
	log.Info().Str("out", out).Msg("video rendered")

	m := types.Manifest{
		RunID: in.RunID,
		Thread: types.ManifestThread{
			ID:        in.Thread.ID,
			Subreddit: in.Thread.Subreddit,
			Title:     in.Thread.Title,
			URL:       in.Thread.URL,
			Comments:  narr.Comments,
		},
		Video:      "video.mp4",
		Subtitles:  subsName,
		Narration:  narr.Duration.Seconds(),
		Cues:       len(cues),
		Background: manifestMedia(bgVideo),
		Music:      manifestMedia(bgAudio),
	}
	return Result{Manifest: m, Video: out, Narration: narr}, nil
}

// narrate speaks the title and then comments in order until the next one
// would push the total past the cap. The title is always kept.
func (u Usecase) narrate(ctx context.Context, in Input, picked []types.Comment) (types.Narration, []string, error) {
	dir := filepath.Join(in.WorkDir, "narration")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return types.Narration{}, nil, &types.IOError{Op: "mkdir", Path: dir, Err: err}
	}

	title := comments.SpeechText(in.Thread.Title)
	if title == "" {
		return types.Narration{}, nil, &types.ValidationError{Field: "thread title", Reason: "nothing to narrate"}
	}

	speak := func(i int, text string) (string, time.Duration, error) {
		wav := filepath.Join(dir, fmt.Sprintf("%03d.wav", i))
		if err := u.d.Narrator.Speak(ctx, text, wav); err != nil {
			return "", 0, fmt.Errorf("narrate segment %d: %w", i, err)
		}
		d, err := u.d.Media.ProbeDuration(ctx, wav)
		if err != nil {
			return "", 0, &types.MediaProbeError{Candidate: wav, Err: err}
		}
		return wav, d, nil
	}

	wav, total, err := speak(0, title)
	if err != nil {
		return types.Narration{}, nil, err
	}
	parts := []string{wav}
	var spoken []string
	for i, c := range picked {
		text := comments.SpeechText(c.Body)
		if text == "" {
			continue
		}
		wav, d, err := speak(i+1, text)
		if err != nil {
			return types.Narration{}, nil, err
		}
		if in.NarrationCap > 0 && total+d > in.NarrationCap {
			u.d.Log.Debug().Str("comment", c.ID).Dur("would_reach", total+d).Msg("narration cap reached")
			break
		}
		total += d
		parts = append(parts, wav)
		spoken = append(spoken, text)
	}

	out := filepath.Join(in.WorkDir, "narration.mp3")
	if err := u.d.Media.ConcatAudio(ctx, parts, out); err != nil {
		return types.Narration{}, nil, err
	}
	return types.Narration{Path: out, Duration: total, Comments: len(spoken)}, spoken, nil
}

// background trims the named pool entry when it exists; otherwise it makes
// sure a random entry is on disk and lets the selector pick from the media dir.
func (u Usecase) background(
	ctx context.Context,
	mediaRoot string,
	kind ports.MediaKind,
	pool mediapool.Pool,
	choice string,
	target time.Duration,
	outPath string,
) (types.TrimmedClip, error) {
	dir := filepath.Join(mediaRoot, string(kind))
	key, rec, ok := pool.Choose(choice, u.d.Rand)
	if !ok {
		return u.bg.SelectAndTrim(ctx, dir, filepath.Ext(outPath), target, outPath)
	}
	local := filepath.Join(dir, rec.LocalName())
	if u.d.Downloader != nil {
		if err := u.d.Downloader.Download(ctx, rec.Locator, local, kind); err != nil {
			return types.TrimmedClip{}, fmt.Errorf("download %q: %w", key, err)
		}
	}
	if _, named := pool.Get(choice); named {
		return u.bg.Trim(ctx, local, target, outPath)
	}
	return u.bg.SelectAndTrim(ctx, dir, filepath.Ext(outPath), target, outPath)
}

func backgroundTarget(narration, limit time.Duration) time.Duration {
	t := time.Duration(math.Ceil(narration.Seconds())) * time.Second
	if limit > 0 && t > limit {
		t = limit
	}
	return t
}

func manifestMedia(c types.TrimmedClip) types.ManifestMedia {
	if c.Path == "" {
		return types.ManifestMedia{}
	}
	return types.ManifestMedia{
		Source:   filepath.Base(c.Source),
		StartSec: c.Interval.Start.Seconds(),
		EndSec:   c.Interval.End.Seconds(),
	}
}
