package subtitles

import (
	"fmt"
	"strings"
	"time"

	"github.com/forPelevin/threadreel/internal/types"
)

// RenderASS writes cues as Dialogue events on a vertical canvas.
func RenderASS(cues []types.Cue) string {
	var b strings.Builder
	b.WriteString(assHeader())
	b.WriteString("\n\n[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, c := range cues {
		b.WriteString("Dialogue: 0,")
		b.WriteString(assTime(dur(c.Start)))
		b.WriteString(",")
		b.WriteString(assTime(dur(c.End)))
		b.WriteString(",Thread,,0,0,0,,")
		b.WriteString(assText(c.Text))
		b.WriteString("\n")
	}
	return b.String()
}

func assHeader() string {
	return strings.TrimSpace(`
[Script Info]
ScriptType: v4.00+
PlayResX: 1080
PlayResY: 1920
WrapStyle: 0
ScaledBorderAndShadow: yes

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Thread, Inter, 64, &H00FFFFFF, &H00FFD200, &H00000000, &H64000000, 1,0,0,0,100,100,0,0,1,5,2,5, 80,80,120,1
`)
}

func assTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hs := int(d / time.Hour)
	d -= time.Duration(hs) * time.Hour
	ms := int(d / time.Minute)
	d -= time.Duration(ms) * time.Minute
	s := int(d / time.Second)
	d -= time.Duration(s) * time.Second
	cs := int(d / (10 * time.Millisecond))
	return fmt.Sprintf("%d:%02d:%02d.%02d", hs, ms, s, cs)
}

// assText neutralizes override blocks and turns line breaks into \N.
func assText(s string) string {
	lines := srtLines(s)
	for i, ln := range lines {
		lines[i] = sanitizeASS(ln)
	}
	return strings.Join(lines, `\N`)
}

func sanitizeASS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")
	return strings.TrimSpace(s)
}

// dur rounds to the millisecond so float noise does not shift centiseconds.
func dur(sec float64) time.Duration {
	return time.Duration(sec*1000+0.5) * time.Millisecond
}
