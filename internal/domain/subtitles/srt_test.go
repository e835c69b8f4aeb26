package subtitles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forPelevin/threadreel/internal/types"
)

func TestFormatSRTTime(t *testing.T) {
	tests := map[float64]string{
		0:           "00:00:00,000",
		5:           "00:00:05,000",
		7.1:         "00:00:07,100",
		61.2346:     "00:01:01,235",
		3723.004:    "01:02:03,004",
		59.9996:     "00:01:00,000",
		-3:          "00:00:00,000",
		36000 + 0.5: "10:00:00,500",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatSRTTime(in), "input %v", in)
	}
}

func TestRenderSRT_Layout(t *testing.T) {
	got := RenderSRT(Build("Hello", []string{"a", "bb"}, DefaultTiming()))
	want := "1\n00:00:00,000 --> 00:00:05,000\nHello\n\n" +
		"2\n00:00:05,000 --> 00:00:06,000\na\n\n" +
		"3\n00:00:06,000 --> 00:00:07,000\nbb\n"
	assert.Equal(t, want, got)
}

func TestRenderSRT_KeepsLineBreaksDropsBlankLines(t *testing.T) {
	got := RenderSRT([]types.Cue{{Index: 1, Start: 0, End: 1, Text: "first\r\n\r\nsecond\nthird"}})
	assert.Equal(t, "1\n00:00:00,000 --> 00:00:01,000\nfirst\nsecond\nthird\n", got)
}

func TestSRT_RoundTrip(t *testing.T) {
	cues := []types.Cue{
		{Index: 1, Start: 0, End: 5, Text: "What's the weirdest thing you've seen?"},
		{Index: 2, Start: 5, End: 6.2345, Text: "line one\nline two"},
		{Index: 3, Start: 6.2345, End: 3725.0004, Text: "unicode ✓ ünïcødé"},
		{Index: 4, Start: 3725.0004, End: 3726.0004, Text: "<b>markup</b> {braces}"},
	}
	parsed, err := ParseSRT(strings.NewReader(RenderSRT(cues)))
	require.NoError(t, err)
	require.Len(t, parsed, len(cues))
	for i := range cues {
		assert.Equal(t, cues[i].Index, parsed[i].Index)
		assert.InDelta(t, cues[i].Start, parsed[i].Start, 0.001)
		assert.InDelta(t, cues[i].End, parsed[i].End, 0.001)
		assert.Equal(t, cues[i].Text, parsed[i].Text)
	}
}

func TestParseSRT_ToleratesCRLFAndBOM(t *testing.T) {
	in := "\ufeff1\r\n00:00:01.500 --> 00:00:02,000\r\nhi\r\n\r\n\r\n2\r\n00:00:02,000 --> 00:00:03,000\r\nthere\r\n"
	cues, err := ParseSRT(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, cues, 2)
	assert.Equal(t, 1.5, cues[0].Start)
	assert.Equal(t, "there", cues[1].Text)
}

func TestParseSRT_Errors(t *testing.T) {
	for name, in := range map[string]string{
		"bad index":  "x\n00:00:00,000 --> 00:00:01,000\nhi\n",
		"bad timing": "1\n00:00:00 -> 00:00:01\nhi\n",
		"bad stamp":  "1\n00:00:aa,000 --> 00:00:01,000\nhi\n",
		"truncated":  "1\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSRT(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestSerialize_WritesFormats(t *testing.T) {
	cues := Build("Title", []string{"one\ntwo"}, DefaultTiming())
	dir := t.TempDir()

	srtPath := filepath.Join(dir, "nested", "subs.srt")
	require.NoError(t, Serialize(cues, srtPath, FormatSRT))
	f, err := os.Open(srtPath)
	require.NoError(t, err)
	defer f.Close()
	back, err := ParseSRT(f)
	require.NoError(t, err)
	assert.Len(t, back, 2)

	assPath := filepath.Join(dir, "subs.ass")
	require.NoError(t, Serialize(cues, assPath, FormatASS))
	b, err := os.ReadFile(assPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), `one\Ntwo`)
}

func TestSerialize_UnwritableParent(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := Serialize(Build("t", nil, DefaultTiming()), filepath.Join(blocker, "x", "s.srt"), FormatSRT)
	var ioe *types.IOError
	require.ErrorAs(t, err, &ioe)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" ASS ")
	require.NoError(t, err)
	assert.Equal(t, FormatASS, f)
	assert.Equal(t, ".ass", f.Ext())

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatSRT, f)

	_, err = ParseFormat("vtt")
	var ve *types.ValidationError
	assert.ErrorAs(t, err, &ve)
}
