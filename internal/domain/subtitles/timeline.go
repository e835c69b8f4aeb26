package subtitles

import (
	"unicode/utf8"

	"github.com/forPelevin/threadreel/internal/types"
)

// Timing controls how long each cue stays on screen.
type Timing struct {
	TitleSeconds   float64
	MinSeconds     float64
	SecondsPerChar float64
}

func DefaultTiming() Timing {
	return Timing{TitleSeconds: 5, MinSeconds: 1, SecondsPerChar: 0.05}
}

// Build lays out the title and comments back to back. Comment cues last
// max(MinSeconds, chars*SecondsPerChar); the timeline is not capped, so callers
// that need a limit truncate comments first.
func Build(title string, comments []string, t Timing) []types.Cue {
	cues := make([]types.Cue, 0, len(comments)+1)
	cues = append(cues, types.Cue{Index: 1, Start: 0, End: t.TitleSeconds, Text: title})
	prev := cues[0].End
	for i, c := range comments {
		d := float64(utf8.RuneCountInString(c)) * t.SecondsPerChar
		if d < t.MinSeconds {
			d = t.MinSeconds
		}
		cues = append(cues, types.Cue{Index: i + 2, Start: prev, End: prev + d, Text: c})
		prev += d
	}
	return cues
}

// Total is the end time of the last cue.
func Total(cues []types.Cue) float64 {
	if len(cues) == 0 {
		return 0
	}
	return cues[len(cues)-1].End
}

func (t Timing) Validate() error {
	switch {
	case t.TitleSeconds <= 0:
		return &types.ValidationError{Field: "title_seconds", Reason: "must be > 0"}
	case t.MinSeconds <= 0:
		return &types.ValidationError{Field: "min_seconds", Reason: "must be > 0"}
	case t.SecondsPerChar < 0:
		return &types.ValidationError{Field: "seconds_per_char", Reason: "must be >= 0"}
	}
	return nil
}
