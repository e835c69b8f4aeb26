package config

import "github.com/forPelevin/threadreel/internal/ports/adapters/reddit"

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Reddit: Reddit{
			Subreddit:        "AskReddit",
			BaseURL:          reddit.DefaultBaseURL,
			MinCommentLength: 1,
			MaxCommentLength: 500,
			MaxComments:      20,
		},
		Settings: Settings{
			TimesToRun:          1,
			MaxNarrationSeconds: 60,
			WorkDir:             "assets/temp",
			ResultsDir:          "results",
			HistoryDB:           "assets/history.db",
			Background: Background{
				MediaRoot:   "assets/backgrounds",
				AudioVolume: 0.15,
			},
			Subtitles: Subtitles{
				Format:         "srt",
				TitleSeconds:   5,
				MinSeconds:     1,
				SecondsPerChar: 0.05,
			},
			TTS: TTS{
				Binary:         "espeak-ng",
				Voice:          "en-us",
				WordsPerMinute: 175,
			},
		},
		Video: Video{Width: 1080, Height: 1920},
		Tools: Tools{
			FFmpeg:  "ffmpeg",
			FFprobe: "ffprobe",
			YtDlp:   "yt-dlp",
		},
	}
}
