// Package comments picks which thread comments end up in a video.
package comments

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/forPelevin/threadreel/internal/types"
)

type Policy struct {
	MinLength   int
	MaxLength   int
	MaxComments int
	// PreferHooks reorders comments by hook score, keeping thread order on ties.
	PreferHooks bool
}

var removedBodies = map[string]struct{}{
	"[deleted]": {},
	"[removed]": {},
}

// Select drops stickied, removed and out-of-bounds comments, then applies
// ordering and the count cap.
func Select(in []types.Comment, p Policy) []types.Comment {
	out := make([]types.Comment, 0, len(in))
	for _, c := range in {
		if c.Stickied {
			continue
		}
		body := strings.TrimSpace(c.Body)
		if _, gone := removedBodies[body]; gone || body == "" {
			continue
		}
		n := utf8.RuneCountInString(SpeechText(body))
		if p.MinLength > 0 && n < p.MinLength {
			continue
		}
		if p.MaxLength > 0 && n > p.MaxLength {
			continue
		}
		out = append(out, c)
	}
	if p.PreferHooks {
		sort.SliceStable(out, func(i, j int) bool {
			_, hi := Score(out[i].Body)
			_, hj := Score(out[j].Body)
			return hi > hj
		})
	}
	if p.MaxComments > 0 && len(out) > p.MaxComments {
		out = out[:p.MaxComments]
	}
	return out
}

var (
	reMDLink  = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	reURL     = regexp.MustCompile(`(?i)\bhttps?://\S+|\bwww\.\S+`)
	reMDChars = regexp.MustCompile("[*_~`#>|]+")
	reSpaces  = regexp.MustCompile(`\s+`)
)

// SpeechText turns comment markdown into plain text a voice can read.
func SpeechText(s string) string {
	s = reMDLink.ReplaceAllString(s, "$1")
	s = reURL.ReplaceAllString(s, "")
	s = reMDChars.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}
