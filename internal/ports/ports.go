package ports

import (
	"context"
	"time"

	"github.com/forPelevin/threadreel/internal/types"
)

type MediaTool interface {
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)
	Trim(ctx context.Context, in string, start, end time.Duration, out string) error
	ConcatAudio(ctx context.Context, inputs []string, out string) error
	Compose(ctx context.Context, spec types.ComposeSpec) error
}

type ThreadSource interface {
	Fetch(ctx context.Context, id string) (types.ThreadContent, error)
	Hot(ctx context.Context, subreddit string) ([]types.ThreadRef, error)
}

type Narrator interface {
	Speak(ctx context.Context, text, outWav string) error
}

type MediaKind string

const (
	KindVideo MediaKind = "video"
	KindAudio MediaKind = "audio"
)

type Downloader interface {
	Download(ctx context.Context, locator, outPath string, kind MediaKind) error
}
