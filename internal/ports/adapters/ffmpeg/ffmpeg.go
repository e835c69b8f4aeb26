package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/threadreel/internal/types"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
	log     zerolog.Logger
}

func New(ffmpegPath, ffprobePath string, log zerolog.Logger) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath, log: log}
}

type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		Duration  string `json:"duration"`
	} `json:"streams"`
}

func (a *Adapter) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration:stream=codec_type,duration",
		"-of", "json",
		"--", path,
	)
	b, err := cmd.Output()
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, strings.TrimSpace(string(ee.Stderr)))
		}
		return 0, fmt.Errorf("ffprobe duration: %w", err)
	}
	return parseProbeDuration(b)
}

func parseProbeDuration(b []byte) (time.Duration, error) {
	var pr probeResult
	if err := json.Unmarshal(b, &pr); err != nil {
		return 0, fmt.Errorf("ffprobe parse: %w", err)
	}
	sec, err := strconv.ParseFloat(strings.TrimSpace(pr.Format.Duration), 64)
	if err != nil || sec <= 0 {
		// some containers only carry per-stream durations
		sec = 0
		for _, s := range pr.Streams {
			if v, perr := strconv.ParseFloat(strings.TrimSpace(s.Duration), 64); perr == nil && v > sec {
				sec = v
			}
		}
	}
	if sec <= 0 {
		return 0, fmt.Errorf("ffprobe: no duration in %q", strings.TrimSpace(string(b)))
	}
	return time.Duration(sec * float64(time.Second)), nil
}

func (a *Adapter) Trim(ctx context.Context, in string, start, end time.Duration, out string) error {
	args, err := trimArgs(in, start, end, out)
	if err != nil {
		return err
	}
	return a.run(ctx, "trim", args)
}

func trimArgs(in string, start, end time.Duration, out string) ([]string, error) {
	if end <= start {
		return nil, fmt.Errorf("ffmpeg trim: end %s must be after start %s", end, start)
	}
	args := []string{
		"-y",
		"-ss", fmtSeconds(start),
		"-i", in,
		"-t", fmtSeconds(end - start),
	}
	switch strings.ToLower(filepath.Ext(out)) {
	case ".mp4", ".mov", ".mkv":
		args = append(args,
			"-an",
			"-c:v", "libx264",
			"-preset", "veryfast",
			"-crf", "18",
			"-pix_fmt", "yuv420p",
		)
	case ".mp3":
		args = append(args, "-vn", "-c:a", "libmp3lame", "-q:a", "2")
	case ".wav":
		args = append(args, "-vn", "-c:a", "pcm_s16le")
	default:
		return nil, fmt.Errorf("ffmpeg trim: unsupported output container %q", filepath.Ext(out))
	}
	return append(args, out), nil
}

// ConcatAudio joins inputs in order into a single mp3.
func (a *Adapter) ConcatAudio(ctx context.Context, inputs []string, out string) error {
	if len(inputs) == 0 {
		return errors.New("ffmpeg concat: no inputs")
	}
	listPath := strings.TrimSuffix(out, filepath.Ext(out)) + ".concat.txt"
	if err := os.WriteFile(listPath, []byte(concatList(inputs)), 0o644); err != nil {
		return fmt.Errorf("ffmpeg concat list: %w", err)
	}
	defer os.Remove(listPath)
	return a.run(ctx, "concat", []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c:a", "libmp3lame",
		"-q:a", "2",
		out,
	})
}

func concatList(inputs []string) string {
	var b strings.Builder
	for _, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			abs = in
		}
		b.WriteString("file '")
		b.WriteString(strings.ReplaceAll(abs, "'", `'\''`))
		b.WriteString("'\n")
	}
	return b.String()
}

func (a *Adapter) Compose(ctx context.Context, spec types.ComposeSpec) error {
	args, err := composeArgs(spec)
	if err != nil {
		return err
	}
	return a.run(ctx, "compose", args)
}

func composeArgs(spec types.ComposeSpec) ([]string, error) {
	if spec.BackgroundVideo == "" || spec.Narration == "" || spec.Out == "" {
		return nil, errors.New("ffmpeg compose: background video, narration and output are required")
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("ffmpeg compose: invalid frame %dx%d", spec.Width, spec.Height)
	}
	args := []string{
		"-y",
		"-i", spec.BackgroundVideo,
		"-i", spec.Narration,
	}
	mixMusic := spec.BackgroundAudio != "" && spec.BackgroundVolume > 0
	if mixMusic {
		args = append(args, "-i", spec.BackgroundAudio)
	}

	video := fmt.Sprintf("[0:v]crop=ih*(%d/%d):ih,scale=%d:%d", spec.Width, spec.Height, spec.Width, spec.Height)
	if spec.Subtitles != "" {
		video += ",subtitles=" + escapeFilterPath(spec.Subtitles)
	}
	video += "[v]"
	graph := []string{video}
	audio := "1:a"
	if mixMusic {
		graph = append(graph,
			fmt.Sprintf("[2:a]volume=%s[bg]", strconv.FormatFloat(spec.BackgroundVolume, 'f', -1, 64)),
			"[1:a][bg]amix=inputs=2:duration=first:dropout_transition=0[a]",
		)
		audio = "[a]"
	}

	args = append(args,
		"-filter_complex", strings.Join(graph, ";"),
		"-map", "[v]",
		"-map", audio,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "20",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		spec.Out,
	)
	return args, nil
}

func (a *Adapter) run(ctx context.Context, op string, args []string) error {
	a.log.Debug().Str("op", op).Strs("args", args).Msg("ffmpeg")
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg %s: %w\n%s", op, err, string(b))
	}
	return nil
}

func fmtSeconds(d time.Duration) string {
	sec := float64(d) / float64(time.Second)
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

// escapeFilterPath escapes a path for use inside a filtergraph option value.
func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "\\\\")
	p = strings.ReplaceAll(p, ":", "\\:")
	p = strings.ReplaceAll(p, "'", "\\'")
	p = strings.ReplaceAll(p, ",", "\\,")
	p = strings.ReplaceAll(p, ";", "\\;")
	p = strings.ReplaceAll(p, "[", "\\[")
	p = strings.ReplaceAll(p, "]", "\\]")
	return p
}
