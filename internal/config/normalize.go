package config

import (
	"os"
	"strings"
)

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("REDDIT_BASE_URL")); v != "" {
		c.Reddit.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("REDDIT_USER_AGENT")); v != "" {
		c.Reddit.UserAgent = v
	}
	if v := strings.TrimSpace(os.Getenv("REDDIT_ALLOWED_HOSTS")); v != "" {
		c.Reddit.AllowedHosts = splitList(v)
	}
}

func (c *Config) normalize() error {
	c.Reddit.Subreddit = strings.TrimPrefix(strings.TrimSpace(c.Reddit.Subreddit), "r/")
	c.Reddit.BaseURL = strings.TrimRight(strings.TrimSpace(c.Reddit.BaseURL), "/")
	c.Settings.Subtitles.Format = strings.ToLower(strings.TrimSpace(c.Settings.Subtitles.Format))

	for _, p := range []*string{
		&c.Settings.WorkDir,
		&c.Settings.ResultsDir,
		&c.Settings.HistoryDB,
		&c.Settings.Background.MediaRoot,
		&c.Settings.Background.VideoPool,
		&c.Settings.Background.AudioPool,
	} {
		if *p == "" {
			continue
		}
		expanded, err := expandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
