package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	body := fmt.Sprintf(`[settings]
work_dir = %q
results_dir = %q
history_db = %q

[settings.background]
media_root = %q
`,
		filepath.Join(tmp, "work"),
		filepath.Join(tmp, "results"),
		filepath.Join(tmp, "history.db"),
		filepath.Join(tmp, "backgrounds"),
	)
	path := filepath.Join(tmp, "threadreel.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "threadreel.toml")
	out, err := execute(t, "config", "init", path)
	if err != nil {
		t.Fatalf("config init: %v\n%s", err, out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("sample not written: %v", err)
	}
	if _, err := execute(t, "config", "init", path); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected refusal to overwrite, got %v", err)
	}
	if _, err := execute(t, "config", "init", path, "--overwrite"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}

func TestBackgroundsList(t *testing.T) {
	out, err := execute(t, "backgrounds", "list", "--config", writeTestConfig(t))
	if err != nil {
		t.Fatalf("backgrounds list: %v\n%s", err, out)
	}
	for _, want := range []string{"Kind", "minecraft", "bbswitzer-parkour.mp4", "lofi", "no"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestHistory_Empty(t *testing.T) {
	out, err := execute(t, "history", "--config", writeTestConfig(t))
	if err != nil {
		t.Fatalf("history: %v\n%s", err, out)
	}
	if !strings.Contains(out, "no videos rendered yet") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestRoot_RejectsArgsAndBadConfig(t *testing.T) {
	if _, err := execute(t, "extra"); err == nil {
		t.Fatalf("expected positional args to be rejected")
	}
	if _, err := execute(t, "--wat"); err == nil || !strings.Contains(err.Error(), "unknown flag") {
		t.Fatalf("expected unknown flag error, got %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("[settings.subtitles]\nformat = \"vtt\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := execute(t, "history", "--config", bad)
	if err == nil || !strings.HasPrefix(err.Error(), "config:") {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestShorten(t *testing.T) {
	if got := shorten("short", 10); got != "short" {
		t.Fatalf("shorten kept = %q", got)
	}
	if got := shorten("abcdefghij", 5); got != "abcd…" {
		t.Fatalf("shorten = %q", got)
	}
}
