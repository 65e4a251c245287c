package lyrics

import "context"

// Request carries everything the lyricist needs for one verse.
type Request struct {
	AgentName string
	Theme     string
	// Instructions from the human partner, possibly empty on timeout.
	Instructions string
	// OpponentLyrics is the opponent's most recent verse, nil for the
	// opening turn of a battle.
	OpponentLyrics *string
	// ThreadID identifies the agent's conversation session so verses stay
	// in character across rounds.
	ThreadID string
}

type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
}
