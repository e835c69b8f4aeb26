package comments

import (
	"regexp"
	"strings"
)

var (
	reNum   = regexp.MustCompile(`\b\d+(?:[\.,]\d+)?\b`)
	reHook  = regexp.MustCompile(`(?i)\b(never|always|worst|best|weirdest|creepiest|craziest|turns\s+out|plot\s+twist|to\s+this\s+day|i\s+swear)\b`)
	reStory = regexp.MustCompile(`(?i)\b(when\s+i\s+was|one\s+time|years\s+ago|my\s+(?:dad|mom|wife|husband|friend|boss))\b`)
	reEdit  = regexp.MustCompile(`(?i)\bedit\s*:`)
)

// Score returns (story, hook) in range [0..10].
func Score(text string) (float64, float64) {
	t := strings.TrimSpace(text)
	if t == "" {
		return 0, 0
	}
	lower := strings.ToLower(t)

	story := float64(len(reNum.FindAllStringIndex(t, -1))) * 0.3
	if reStory.MatchString(lower) {
		story += 1.5
	}
	// long comments get cut by the narration cap
	story -= 0.0008 * float64(len([]rune(t)))

	hook := float64(len(reHook.FindAllStringIndex(lower, -1))) * 0.9
	hook += float64(strings.Count(t, "?")) * 0.5
	hook += float64(strings.Count(t, "!")) * 0.3
	if reEdit.MatchString(lower) {
		hook -= 0.5
	}

	return clamp(story, 0, 10), clamp(hook, 0, 10)
}

func clamp(x, a, b float64) float64 {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}
