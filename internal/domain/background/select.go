package background

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/threadreel/internal/ports"
	"github.com/forPelevin/threadreel/internal/types"
)

// ListCandidates returns the sorted names of regular files in dir whose
// extension matches ext (case-insensitive, with or without the leading dot).
func ListCandidates(dir, ext string) ([]string, error) {
	ext = normalizeExt(ext)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &types.NoCandidatesError{Dir: dir, Ext: ext}
		}
		return nil, &types.IOError{Op: "list", Path: dir, Err: err}
	}
	var out []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ext) {
			out = append(out, e.Name())
		}
	}
	if len(out) == 0 {
		return nil, &types.NoCandidatesError{Dir: dir, Ext: ext}
	}
	sort.Strings(out)
	return out, nil
}

// Pick chooses one candidate uniformly. A single candidate never consults rng.
func Pick(cands []string, rng *rand.Rand) string {
	switch len(cands) {
	case 0:
		return ""
	case 1:
		return cands[0]
	}
	return cands[rng.IntN(len(cands))]
}

// ChooseInterval picks a random window of length target inside [0, sourceDur].
func ChooseInterval(candidate string, sourceDur, target time.Duration, rng *rand.Rand) (types.TrimInterval, error) {
	if target <= 0 {
		return types.TrimInterval{}, &types.ValidationError{Field: "target duration", Reason: "must be > 0"}
	}
	if sourceDur <= target {
		return types.TrimInterval{}, &types.ClipTooShortError{Candidate: candidate, Duration: sourceDur, Requested: target}
	}
	slack := int64(sourceDur - target)
	start := time.Duration(rng.Int64N(slack + 1))
	return types.TrimInterval{Start: start, End: start + target}, nil
}

// Selector picks and trims background clips. It is not safe for concurrent
// use because it owns a single random source.
type Selector struct {
	Media ports.MediaTool
	Rand  *rand.Rand
	Log   zerolog.Logger
}

func New(media ports.MediaTool, rng *rand.Rand, log zerolog.Logger) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Selector{Media: media, Rand: rng, Log: log}
}

// SelectAndTrim picks a candidate from dir and writes a target-long excerpt of
// it to outPath. It never retries with another candidate.
func (s *Selector) SelectAndTrim(ctx context.Context, dir, ext string, target time.Duration, outPath string) (types.TrimmedClip, error) {
	if target <= 0 {
		return types.TrimmedClip{}, &types.ValidationError{Field: "target duration", Reason: "must be > 0"}
	}
	cands, err := ListCandidates(dir, ext)
	if err != nil {
		return types.TrimmedClip{}, err
	}
	return s.Trim(ctx, filepath.Join(dir, Pick(cands, s.Rand)), target, outPath)
}

// Trim writes a target-long excerpt of src, starting at a random offset, to outPath.
func (s *Selector) Trim(ctx context.Context, src string, target time.Duration, outPath string) (types.TrimmedClip, error) {
	if target <= 0 {
		return types.TrimmedClip{}, &types.ValidationError{Field: "target duration", Reason: "must be > 0"}
	}
	name := filepath.Base(src)

	d, err := s.Media.ProbeDuration(ctx, src)
	if err != nil {
		return types.TrimmedClip{}, &types.MediaProbeError{Candidate: src, Err: err}
	}
	if d <= 0 {
		return types.TrimmedClip{}, &types.MediaProbeError{Candidate: src, Err: errors.New("zero-length media")}
	}

	iv, err := ChooseInterval(src, d, target, s.Rand)
	if err != nil {
		return types.TrimmedClip{}, err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return types.TrimmedClip{}, &types.IOError{Op: "mkdir", Path: filepath.Dir(outPath), Err: err}
	}
	s.Log.Debug().
		Str("candidate", name).
		Dur("source", d).
		Dur("start", iv.Start).
		Dur("end", iv.End).
		Msg("trimming background")
	if err := s.Media.Trim(ctx, src, iv.Start, iv.End, outPath); err != nil {
		return types.TrimmedClip{}, &types.IOError{Op: "trim", Path: outPath, Err: err}
	}
	s.Log.Info().Str("candidate", name).Str("out", outPath).Msg("background trimmed")
	return types.TrimmedClip{Source: src, Interval: iv, Path: outPath}, nil
}

func normalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
