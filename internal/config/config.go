// Package config loads threadreel.toml.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// DefaultPath is used when neither a flag nor THREADREEL_CONFIG names a file.
const DefaultPath = "threadreel.toml"

type Reddit struct {
	Subreddit string `toml:"subreddit"`
	// PostID holds one or more thread ids separated by "+".
	PostID           string   `toml:"post_id"`
	BaseURL          string   `toml:"base_url"`
	AllowedHosts     []string `toml:"allowed_hosts"`
	UserAgent        string   `toml:"user_agent"`
	MinCommentLength int      `toml:"min_comment_length"`
	MaxCommentLength int      `toml:"max_comment_length"`
	MaxComments      int      `toml:"max_comments"`
	AllowNSFW        bool     `toml:"allow_nsfw"`
	PreferHooks      bool     `toml:"prefer_hooks"`
}

type Background struct {
	MediaRoot string `toml:"media_root"`
	// Video and Audio name pool entries; empty or unknown picks at random.
	Video       string  `toml:"background_video"`
	Audio       string  `toml:"background_audio"`
	AudioVolume float64 `toml:"background_audio_volume"`
	VideoPool   string  `toml:"video_pool"`
	AudioPool   string  `toml:"audio_pool"`
}

type Subtitles struct {
	Format         string  `toml:"format"`
	TitleSeconds   float64 `toml:"title_seconds"`
	MinSeconds     float64 `toml:"min_seconds"`
	SecondsPerChar float64 `toml:"seconds_per_char"`
}

type TTS struct {
	Binary         string `toml:"binary"`
	Voice          string `toml:"voice"`
	WordsPerMinute int    `toml:"words_per_minute"`
}

type Settings struct {
	TimesToRun          int        `toml:"times_to_run"`
	MaxNarrationSeconds int        `toml:"max_narration_seconds"`
	WorkDir             string     `toml:"work_dir"`
	ResultsDir          string     `toml:"results_dir"`
	KeepTemp            bool       `toml:"keep_temp"`
	HistoryDB           string     `toml:"history_db"`
	Background          Background `toml:"background"`
	Subtitles           Subtitles  `toml:"subtitles"`
	TTS                 TTS        `toml:"tts"`
}

type Video struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
	YtDlp   string `toml:"ytdlp"`
}

type Config struct {
	Reddit   Reddit   `toml:"reddit"`
	Settings Settings `toml:"settings"`
	Video    Video    `toml:"video"`
	Tools    Tools    `toml:"tools"`
}

// Load reads the config at path (or the resolved default), applies env
// overrides and validates. A missing file yields the defaults.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}
	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = os.Getenv("THREADREEL_CONFIG")
	}
	if path == "" {
		path = DefaultPath
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

// PostIDs splits reddit.post_id on "+".
func (c *Config) PostIDs() []string {
	var out []string
	for _, id := range strings.Split(c.Reddit.PostID, "+") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// NarrationCap is settings.max_narration_seconds as a duration.
func (c *Config) NarrationCap() time.Duration {
	return time.Duration(c.Settings.MaxNarrationSeconds) * time.Second
}

// CreateSample writes a commented sample config to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Clean(p), nil
}
