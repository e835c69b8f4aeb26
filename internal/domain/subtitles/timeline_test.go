package subtitles

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forPelevin/threadreel/internal/types"
)

func TestBuild_ProportionalTiming(t *testing.T) {
	cues := Build("Hello", []string{"a", "bb"}, Timing{TitleSeconds: 5, MinSeconds: 1.0, SecondsPerChar: 0.05})

	want := []types.Cue{
		{Index: 1, Start: 0, End: 5, Text: "Hello"},
		{Index: 2, Start: 5, End: 6.0, Text: "a"},
		{Index: 3, Start: 6.0, End: 7.0, Text: "bb"},
	}
	assert.Equal(t, want, cues)
}

func TestBuild_LongCommentScalesWithLength(t *testing.T) {
	body := strings.Repeat("x", 100)
	cues := Build("T", []string{body}, DefaultTiming())
	require.Len(t, cues, 2)
	assert.InDelta(t, 5.0, cues[1].End-cues[1].Start, 1e-9)
}

func TestBuild_CountsRunesNotBytes(t *testing.T) {
	cues := Build("T", []string{strings.Repeat("é", 40)}, DefaultTiming())
	assert.InDelta(t, 2.0, cues[1].End-cues[1].Start, 1e-9)
}

func TestBuild_EmptyComments(t *testing.T) {
	cues := Build("Only the title", nil, DefaultTiming())
	assert.Equal(t, []types.Cue{{Index: 1, Start: 0, End: 5, Text: "Only the title"}}, cues)
}

func TestBuild_EmptyCommentGetsMinDuration(t *testing.T) {
	cues := Build("T", []string{""}, DefaultTiming())
	require.Len(t, cues, 2)
	assert.Equal(t, 1.0, cues[1].End-cues[1].Start)
}

func TestBuild_PassesMarkupThrough(t *testing.T) {
	body := "**bold** <i>x</i> {\\an8} 日本語"
	cues := Build("T", []string{body}, DefaultTiming())
	assert.Equal(t, body, cues[1].Text)
}

func TestBuild_NonOverlappingMonotonic(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	for run := 0; run < 100; run++ {
		n := 1 + rng.IntN(30)
		comments := make([]string, n)
		for i := range comments {
			comments[i] = strings.Repeat("w", rng.IntN(400))
		}
		cues := Build("title", comments, DefaultTiming())
		require.Len(t, cues, n+1)
		for i, c := range cues {
			require.Equal(t, i+1, c.Index)
			require.Greater(t, c.End, c.Start)
			if i > 0 {
				require.GreaterOrEqual(t, c.Start, cues[i-1].End)
				require.GreaterOrEqual(t, c.Start, cues[i-1].Start)
			}
		}
		assert.Equal(t, cues[len(cues)-1].End, Total(cues))
	}
}

func TestTiming_Validate(t *testing.T) {
	require.NoError(t, DefaultTiming().Validate())

	bad := []Timing{
		{TitleSeconds: 0, MinSeconds: 1, SecondsPerChar: 0.05},
		{TitleSeconds: 5, MinSeconds: 0, SecondsPerChar: 0.05},
		{TitleSeconds: 5, MinSeconds: 1, SecondsPerChar: -1},
	}
	for _, tm := range bad {
		var ve *types.ValidationError
		assert.ErrorAs(t, tm.Validate(), &ve)
	}
}
