package config

import (
	"errors"
	"fmt"

	"github.com/forPelevin/threadreel/internal/domain/subtitles"
	"github.com/forPelevin/threadreel/internal/ports/adapters/reddit"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateReddit(); err != nil {
		return err
	}
	if err := c.validateSettings(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		return errors.New("video.width and video.height must be > 0")
	}
	return nil
}

func (c *Config) validateReddit() error {
	if c.Reddit.Subreddit == "" && len(c.PostIDs()) == 0 {
		return errors.New("reddit.subreddit or reddit.post_id must be set")
	}
	if c.Reddit.MinCommentLength < 0 || c.Reddit.MaxCommentLength < 0 {
		return errors.New("reddit comment length bounds must be >= 0")
	}
	if c.Reddit.MaxCommentLength > 0 && c.Reddit.MinCommentLength > c.Reddit.MaxCommentLength {
		return errors.New("reddit.min_comment_length must be <= reddit.max_comment_length")
	}
	if c.Reddit.MaxComments < 0 {
		return errors.New("reddit.max_comments must be >= 0")
	}
	if err := reddit.ValidateBaseURL(c.Reddit.BaseURL, c.Reddit.AllowedHosts); err != nil {
		return fmt.Errorf("reddit.base_url: %w", err)
	}
	return nil
}

func (c *Config) validateSettings() error {
	s := c.Settings
	if s.TimesToRun <= 0 {
		return errors.New("settings.times_to_run must be > 0")
	}
	if s.MaxNarrationSeconds <= 0 {
		return errors.New("settings.max_narration_seconds must be > 0")
	}
	if s.WorkDir == "" || s.ResultsDir == "" {
		return errors.New("settings.work_dir and settings.results_dir must be set")
	}
	if s.Background.MediaRoot == "" {
		return errors.New("settings.background.media_root must be set")
	}
	if v := s.Background.AudioVolume; v < 0 || v > 1 {
		return errors.New("settings.background.background_audio_volume must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	if _, err := subtitles.ParseFormat(c.Settings.Subtitles.Format); err != nil {
		return fmt.Errorf("settings.subtitles.format: %w", err)
	}
	if err := c.Timing().Validate(); err != nil {
		return fmt.Errorf("settings.subtitles: %w", err)
	}
	return nil
}

// Timing converts the subtitle settings for the timeline builder.
func (c *Config) Timing() subtitles.Timing {
	s := c.Settings.Subtitles
	return subtitles.Timing{
		TitleSeconds:   s.TitleSeconds,
		MinSeconds:     s.MinSeconds,
		SecondsPerChar: s.SecondsPerChar,
	}
}
