package naming

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRunOutDir(t *testing.T) {
	now := time.Date(2026, 2, 12, 10, 30, 45, 1234, time.UTC)
	got := RunOutDir("out", "abc123", "What's the BEST advice?", now)
	base := filepath.Base(got)
	if filepath.Dir(got) != "out" {
		t.Fatalf("unexpected parent dir: %s", got)
	}
	if !strings.HasPrefix(base, "what-s-the-best-advice-20260212-103045Z-") {
		t.Fatalf("unexpected run dir format: %s", base)
	}
	if len(base) != len("what-s-the-best-advice-20260212-103045Z-")+6 {
		t.Fatalf("unexpected run dir suffix length: %s", base)
	}
}

func TestRunOutDir_FallsBackToThreadID(t *testing.T) {
	now := time.Date(2026, 2, 12, 10, 30, 45, 0, time.UTC)
	base := filepath.Base(RunOutDir("out", "t3_x/y", "???", now))
	if !strings.HasPrefix(base, "xy-20260212-103045Z-") {
		t.Fatalf("unexpected run dir: %s", base)
	}
}

func TestNormalizePathSegment(t *testing.T) {
	tests := map[string]string{
		"  My Cool.Video  ": "my-cool-video",
		"___":               "",
		"abc123":            "abc123",
		"Name (v2)!":        "name-v2",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := normalizePathSegment(in); got != want {
				t.Fatalf("normalizePathSegment(%q) = %q, want %q", in, got, want)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Café Über Naïve":   "cafe-uber-naive",
		"TIFU by   cooking": "tifu-by-cooking",
		"":                  "",
	}
	for in, want := range tests {
		if got := Slug(in); got != want {
			t.Fatalf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
	long := strings.Repeat("ab ", 40)
	if got := Slug(long); len([]rune(got)) > maxSlugRunes || strings.HasSuffix(got, "-") {
		t.Fatalf("Slug did not cap cleanly: %q", got)
	}
}

func TestThreadID(t *testing.T) {
	tests := map[string]string{
		"abc123":       "abc123",
		"t3_abc123":    "abc123",
		" ../etc/pwd ": "etcpwd",
		"a-b_c":        "a-b_c",
	}
	for in, want := range tests {
		if got := ThreadID(in); got != want {
			t.Fatalf("ThreadID(%q) = %q, want %q", in, got, want)
		}
	}
}
