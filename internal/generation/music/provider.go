package music

import "context"

// Section is one segment of a composition plan. DurationMs values sum to
// the authoritative track duration.
type Section struct {
	SectionName         string   `json:"sectionName"`
	DurationMs          int      `json:"durationMs"`
	Lines               []string `json:"lines"`
	PositiveLocalStyles []string `json:"positiveLocalStyles"`
	NegativeLocalStyles []string `json:"negativeLocalStyles"`
}

// Plan is the composition plan the music service renders audio from.
type Plan struct {
	PositiveGlobalStyles []string  `json:"positiveGlobalStyles"`
	NegativeGlobalStyles []string  `json:"negativeGlobalStyles"`
	Sections             []Section `json:"sections"`
}

// Composition is a rendered track: the audio bytes plus the plan that
// produced them.
type Composition struct {
	Audio       []byte
	ContentType string
	Prompt      string
	Plan        Plan
}

// DurationMs returns the total plan length.
func (p Plan) DurationMs() int {
	total := 0
	for _, s := range p.Sections {
		total += s.DurationMs
	}
	return total
}

type Provider interface {
	Compose(ctx context.Context, lyrics string, targetDurationMs int) (*Composition, error)
}
