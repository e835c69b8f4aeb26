// Package naming derives file system names from thread data.
package naming

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugRunes = 60

var reNonWord = regexp.MustCompile(`[^\w-]`)

// ThreadID keeps only word characters and dashes, so ids are safe as path segments.
func ThreadID(id string) string {
	id = strings.TrimPrefix(strings.TrimSpace(id), "t3_")
	return reNonWord.ReplaceAllString(id, "")
}

// Slug folds accents away and lowercases s into a dash separated path segment.
func Slug(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	out := normalizePathSegment(folded)
	if r := []rune(out); len(r) > maxSlugRunes {
		out = strings.TrimRight(string(r[:maxSlugRunes]), "-")
	}
	return out
}

// RunOutDir returns {root}/{slug}-{timestamp}-{suffix}. The suffix keeps
// two runs of the same thread within one second apart.
func RunOutDir(root, threadID, title string, now time.Time) string {
	name := Slug(title)
	if name == "" {
		name = ThreadID(threadID)
	}
	if name == "" {
		name = "thread"
	}
	ts := now.UTC().Format("20060102-150405Z")
	suffix := Hash(fmt.Sprintf("%s|%d", threadID, now.UTC().UnixNano()))[:6]
	return filepath.Join(root, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// Hash is a short stable hex digest of s.
func Hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}
