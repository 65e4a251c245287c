package battle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/assets"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/generation/lyrics"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/generation/music"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/repository"
)

// Executor produces exactly one Turn for one agent in one round: gate wait,
// lyrics generation, music generation, durable turn append, progression,
// playback start. Generation failures abort the turn with nothing recorded;
// the battle stays in its pre-turn state so the whole step can be retried.
type Executor struct {
	battles  repository.BattleRepository
	turns    repository.TurnRepository
	tracks   repository.MusicTrackRepository
	gate     *Gate
	lyrics   lyrics.Provider
	music    music.Provider
	assets   assets.Store
	progress *Progress
	playback *Playback
	notifier Notifier

	window          time.Duration
	musicDurationMs int
	log             zerolog.Logger
}

type ExecutorDeps struct {
	Battles  repository.BattleRepository
	Turns    repository.TurnRepository
	Tracks   repository.MusicTrackRepository
	Gate     *Gate
	Lyrics   lyrics.Provider
	Music    music.Provider
	Assets   assets.Store
	Progress *Progress
	Playback *Playback
	Notifier Notifier

	TurnWindow      time.Duration
	MusicDurationMs int
	Log             zerolog.Logger
}

func NewExecutor(deps ExecutorDeps) *Executor {
	return &Executor{
		battles:         deps.Battles,
		turns:           deps.Turns,
		tracks:          deps.Tracks,
		gate:            deps.Gate,
		lyrics:          deps.Lyrics,
		music:           deps.Music,
		assets:          deps.Assets,
		progress:        deps.Progress,
		playback:        deps.Playback,
		notifier:        deps.Notifier,
		window:          deps.TurnWindow,
		musicDurationMs: deps.MusicDurationMs,
		log:             deps.Log,
	}
}

// ExecuteTurn runs one agent's turn end to end and returns the appended
// Turn with playback already started.
func (e *Executor) ExecuteTurn(ctx context.Context, battleID uuid.UUID, roundNumber int, agentName string) (*domain.Turn, error) {
	b, err := e.battles.GetByID(ctx, battleID)
	if err != nil {
		return nil, err
	}

	partnerID := b.PartnerForAgent(agentName)
	if partnerID == nil {
		return nil, fmt.Errorf("no partner seated for agent %s", agentName)
	}

	log := e.log.With().
		Str("battle_id", battleID.String()).
		Int("round", roundNumber).
		Str("agent", agentName).
		Logger()

	// 1-2. Collect instructions within the window, empty on timeout.
	deadline, err := e.gate.Open(ctx, battleID, *partnerID, e.window)
	if err != nil {
		return nil, err
	}
	e.notifyBattle(ctx, battleID)

	instructions, err := e.gate.Await(ctx, battleID, *partnerID, deadline)
	if err != nil {
		return nil, err
	}
	log.Info().Bool("instructed", instructions != "").Msg("gate resolved")

	// 3. Opponent's most recent verse for adversarial context.
	var opponentLyrics *string
	prev, err := e.turns.LatestByOpponent(ctx, battleID, agentName)
	if err == nil {
		opponentLyrics = &prev.Lyrics
	} else if !errors.Is(err, domain.ErrTurnNotFound) {
		return nil, err
	}

	// 4. Lyrics.
	verse, err := e.lyrics.Generate(ctx, lyrics.Request{
		AgentName:      agentName,
		Theme:          b.ThemeName,
		Instructions:   instructions,
		OpponentLyrics: opponentLyrics,
		ThreadID:       b.ThreadForAgent(agentName),
	})
	if err != nil {
		return nil, fmt.Errorf("lyrics for %s: %w", agentName, err)
	}

	// 5. Music; the plan's section durations are authoritative.
	comp, err := e.music.Compose(ctx, verse, e.musicDurationMs)
	if err != nil {
		return nil, fmt.Errorf("music for %s: %w", agentName, err)
	}

	ref, err := e.assets.Store(ctx, comp.Audio, comp.ContentType)
	if err != nil {
		return nil, err
	}

	sections, err := json.Marshal(comp.Plan.Sections)
	if err != nil {
		return nil, err
	}
	track := &domain.MusicTrack{
		ID:         uuid.New(),
		AgentName:  agentName,
		Prompt:     comp.Prompt,
		Sections:   sections,
		AssetRef:   ref,
		DurationMs: comp.Plan.DurationMs(),
		CreatedAt:  time.Now(),
	}
	if err := e.tracks.Create(ctx, track); err != nil {
		return nil, err
	}

	// 6. Append the turn. The first-seated agent always holds slot 1.
	turnNumber := 1
	if agentName != b.AgentAName {
		turnNumber = 2
	}
	turn := &domain.Turn{
		ID:           uuid.New(),
		BattleID:     battleID,
		RoundNumber:  roundNumber,
		TurnNumber:   turnNumber,
		AgentName:    agentName,
		PartnerID:    *partnerID,
		Instructions: instructions,
		Lyrics:       verse,
		MusicTrackID: track.ID,
		ThreadID:     b.ThreadForAgent(agentName),
		CreatedAt:    time.Now(),
	}
	if err := e.turns.Create(ctx, turn); err != nil {
		return nil, err
	}
	log.Info().Str("turn_id", turn.ID.String()).Int("duration_ms", track.DurationMs).Msg("turn recorded")

	// 7. Progression, then playback.
	if _, err := e.progress.Advance(ctx, battleID); err != nil {
		return nil, err
	}
	e.notifyBattle(ctx, battleID)

	if err := e.playback.Start(ctx, battleID, turn.ID, track.DurationMs); err != nil {
		return nil, err
	}

	return turn, nil
}

func (e *Executor) notifyBattle(ctx context.Context, battleID uuid.UUID) {
	b, err := e.battles.GetByID(ctx, battleID)
	if err != nil {
		return
	}
	e.notifier.Broadcast(battleID, eventBattleUpdated, b)
}
