package subtitles

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/forPelevin/threadreel/internal/types"
)

// RenderSRT writes cues as SubRip blocks in slice order.
func RenderSRT(cues []types.Cue) string {
	var b strings.Builder
	for i, c := range cues {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strconv.Itoa(c.Index))
		b.WriteString("\n")
		b.WriteString(FormatSRTTime(c.Start))
		b.WriteString(" --> ")
		b.WriteString(FormatSRTTime(c.End))
		b.WriteString("\n")
		for _, ln := range srtLines(c.Text) {
			b.WriteString(ln)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// srtLines keeps internal line breaks but drops blank lines, which would
// otherwise terminate the block.
func srtLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	var out []string
	for _, ln := range strings.Split(text, "\n") {
		if strings.TrimSpace(ln) == "" {
			continue
		}
		out = append(out, ln)
	}
	return out
}

// FormatSRTTime renders seconds as HH:MM:SS,mmm.
func FormatSRTTime(sec float64) string {
	if sec < 0 || math.IsNaN(sec) {
		sec = 0
	}
	ms := int64(math.Round(sec * 1000))
	h := ms / 3_600_000
	ms -= h * 3_600_000
	m := ms / 60_000
	ms -= m * 60_000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// ParseSRT reads SubRip cues.
func ParseSRT(r io.Reader) ([]types.Cue, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		cues  []types.Cue
		block []string
		line  int
	)
	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		c, err := parseBlock(block)
		if err != nil {
			return fmt.Errorf("srt line %d: %w", line, err)
		}
		cues = append(cues, c)
		block = block[:0]
		return nil
	}
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if line == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if strings.TrimSpace(text) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		block = append(block, text)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return cues, nil
}

func parseBlock(block []string) (types.Cue, error) {
	if len(block) < 2 {
		return types.Cue{}, fmt.Errorf("incomplete cue %q", strings.Join(block, " | "))
	}
	idx, err := strconv.Atoi(strings.TrimSpace(block[0]))
	if err != nil {
		return types.Cue{}, fmt.Errorf("invalid index %q", block[0])
	}
	parts := strings.Split(block[1], "-->")
	if len(parts) != 2 {
		return types.Cue{}, fmt.Errorf("invalid timing line %q", block[1])
	}
	start, err := parseSRTTimestamp(parts[0])
	if err != nil {
		return types.Cue{}, err
	}
	end, err := parseSRTTimestamp(parts[1])
	if err != nil {
		return types.Cue{}, err
	}
	return types.Cue{Index: idx, Start: start, End: end, Text: strings.Join(block[2:], "\n")}, nil
}

func parseSRTTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	// some writers use a period before the milliseconds
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}
