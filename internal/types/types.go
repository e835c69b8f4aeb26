package types

import "time"

type ThreadContent struct {
	ID        string    `json:"id"`
	Subreddit string    `json:"subreddit"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	NSFW      bool      `json:"nsfw"`
	Comments  []Comment `json:"comments"`
}

type Comment struct {
	ID       string `json:"id"`
	Author   string `json:"author"`
	Body     string `json:"body"`
	Score    int    `json:"score"`
	Stickied bool   `json:"stickied"`
}

// CommentBodies returns the comment texts in thread order.
func (t ThreadContent) CommentBodies() []string {
	out := make([]string, 0, len(t.Comments))
	for _, c := range t.Comments {
		out = append(out, c.Body)
	}
	return out
}

type ThreadRef struct {
	ID       string
	Title    string
	NSFW     bool
	Stickied bool
}

// TrimInterval is a sub-range of a source media file.
type TrimInterval struct {
	Start time.Duration
	End   time.Duration
}

func (i TrimInterval) Duration() time.Duration { return i.End - i.Start }

type TrimmedClip struct {
	Source   string
	Interval TrimInterval
	Path     string
}

// Cue is one timed subtitle entry. Times are seconds from the start of the video.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

type Narration struct {
	Path     string
	Duration time.Duration
	// Comments is the number of comments that fit under the narration cap.
	Comments int
}

type ComposeSpec struct {
	BackgroundVideo  string
	BackgroundAudio  string
	BackgroundVolume float64
	Narration        string
	Subtitles        string
	Width            int
	Height           int
	Out              string
}

type Manifest struct {
	RunID      string         `json:"run_id"`
	Thread     ManifestThread `json:"thread"`
	Video      string         `json:"video"`
	Subtitles  string         `json:"subtitles"`
	Narration  float64        `json:"narration_sec"`
	Cues       int            `json:"cues"`
	Background ManifestMedia  `json:"background_video"`
	Music      ManifestMedia  `json:"background_audio"`
}

type ManifestThread struct {
	ID        string `json:"id"`
	Subreddit string `json:"subreddit"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Comments  int    `json:"comments"`
}

type ManifestMedia struct {
	Source   string  `json:"source"`
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
}
