package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/generation/lyrics"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/generation/music"
)

// FakeLyrics is an in-memory lyrics provider. It records every request and
// returns a deterministic verse that embeds the instructions it was given.
type FakeLyrics struct {
	mu       sync.Mutex
	requests []lyrics.Request
	Err      error
}

func NewFakeLyrics() *FakeLyrics {
	return &FakeLyrics{}
}

func (f *FakeLyrics) Generate(_ context.Context, req lyrics.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return "", f.Err
	}

	f.requests = append(f.requests, req)
	return fmt.Sprintf("%s verse #%d [instructions: %s]", req.AgentName, len(f.requests), req.Instructions), nil
}

// Requests returns a copy of every request seen so far.
func (f *FakeLyrics) Requests() []lyrics.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]lyrics.Request(nil), f.requests...)
}

// Fail makes subsequent calls return err; pass nil to recover.
func (f *FakeLyrics) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Err = err
}

// FakeMusic composes a fixed-duration single-section plan with placeholder
// audio bytes.
type FakeMusic struct {
	mu         sync.Mutex
	durationMs int
	calls      int
	Err        error
}

func NewFakeMusic(durationMs int) *FakeMusic {
	return &FakeMusic{durationMs: durationMs}
}

func (f *FakeMusic) Compose(_ context.Context, verse string, _ int) (*music.Composition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}

	f.calls++
	plan := music.Plan{
		PositiveGlobalStyles: []string{"hiphop"},
		Sections: []music.Section{
			{
				SectionName: "verse",
				DurationMs:  f.durationMs,
				Lines:       []string{verse},
			},
		},
	}
	return &music.Composition{
		Audio:       []byte("fake-audio"),
		ContentType: "audio/mpeg",
		Prompt:      "Rap battle with these lyrics: " + verse,
		Plan:        plan,
	}, nil
}

func (f *FakeMusic) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Fail makes subsequent calls return err; pass nil to recover.
func (f *FakeMusic) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Err = err
}
