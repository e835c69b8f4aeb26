package espeak

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

type Adapter struct {
	bin   string
	voice string
	wpm   int
}

func New(binPath, voice string, wordsPerMinute int) *Adapter {
	if binPath == "" {
		binPath = "espeak-ng"
	}
	return &Adapter{bin: binPath, voice: voice, wpm: wordsPerMinute}
}

// Speak renders text to a wav file.
func (a *Adapter) Speak(ctx context.Context, text, outWav string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("espeak: empty text")
	}
	cmd := exec.CommandContext(ctx, a.bin, a.args(outWav)...)
	// stdin avoids argv limits and leading-dash surprises
	cmd.Stdin = strings.NewReader(text)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("espeak-ng failed: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) args(outWav string) []string {
	var args []string
	if a.voice != "" {
		args = append(args, "-v", a.voice)
	}
	if a.wpm > 0 {
		args = append(args, "-s", strconv.Itoa(a.wpm))
	}
	return append(args, "-w", outWav, "--stdin")
}
