package battle

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/repository"
)

// Playback keeps the single server-anchored "now playing" interval per
// battle. Viewers derive the audible position from the anchor against their
// own clock; no client-to-client channel exists. When the anchored interval
// elapses, a scheduled completion check either chains into the next
// recorded turn or parks the battle at idle.
type Playback struct {
	battles  repository.BattleRepository
	turns    repository.TurnRepository
	tracks   repository.MusicTrackRepository
	notifier Notifier
	buffer   time.Duration
	log      zerolog.Logger
}

func NewPlayback(battles repository.BattleRepository, turns repository.TurnRepository, tracks repository.MusicTrackRepository, notifier Notifier, buffer time.Duration, log zerolog.Logger) *Playback {
	return &Playback{
		battles:  battles,
		turns:    turns,
		tracks:   tracks,
		notifier: notifier,
		buffer:   buffer,
		log:      log,
	}
}

type playbackStartedPayload struct {
	TurnID       uuid.UUID `json:"turnId"`
	AnchorUnixMs int64     `json:"anchorUnixMs"`
	DurationMs   int       `json:"durationMs"`
}

// Start anchors playback of a turn at the current server time and schedules
// the completion check for anchor + duration + buffer.
func (p *Playback) Start(ctx context.Context, battleID, turnID uuid.UUID, durationMs int) error {
	b, err := p.battles.GetByID(ctx, battleID)
	if err != nil {
		return err
	}

	now := time.Now()
	b.NowPlayingTurnID = &turnID
	b.PlaybackAnchor = &now
	b.PlaybackDurationMs = durationMs
	b.PlaybackStatus = domain.PlaybackPlaying

	if err := p.battles.UpdatePlayback(ctx, b); err != nil {
		return err
	}

	p.notifier.Broadcast(battleID, eventPlaybackStarted, playbackStartedPayload{
		TurnID:       turnID,
		AnchorUnixMs: now.UnixMilli(),
		DurationMs:   durationMs,
	})

	p.schedule(battleID, turnID, now, durationMs)
	return nil
}

// schedule arms the in-process timer that fires the completion check once
// the anchored interval (plus buffer) has elapsed.
func (p *Playback) schedule(battleID, turnID uuid.UUID, anchor time.Time, durationMs int) {
	delay := time.Until(anchor.Add(time.Duration(durationMs)*time.Millisecond + p.buffer))
	if delay < 0 {
		delay = 0
	}
	time.AfterFunc(delay, func() {
		if err := p.CheckCompletion(context.Background(), battleID, turnID, anchor); err != nil {
			p.log.Error().Err(err).
				Str("battle_id", battleID.String()).
				Str("turn_id", turnID.String()).
				Msg("playback completion check failed")
		}
	})
}

// Resume re-arms completion checks for playback that was mid-flight when the
// process last stopped. Timers live in process memory only, so without this
// a restarted server would leave such battles stuck at "playing" forever.
func (p *Playback) Resume(ctx context.Context) error {
	battles, err := p.battles.GetByPlaybackStatus(ctx, domain.PlaybackPlaying)
	if err != nil {
		return err
	}

	for _, b := range battles {
		if b.NowPlayingTurnID == nil || b.PlaybackAnchor == nil {
			continue
		}
		p.log.Info().
			Str("battle_id", b.ID.String()).
			Str("turn_id", b.NowPlayingTurnID.String()).
			Msg("re-arming playback completion check")
		p.schedule(b.ID, *b.NowPlayingTurnID, *b.PlaybackAnchor, b.PlaybackDurationMs)
	}
	return nil
}

// CheckCompletion finishes an elapsed playback and auto-advances to the
// next recorded turn, if any. The turnID/anchor arguments act as an
// optimistic-concurrency guard: a stale check scheduled for an earlier
// playback silently no-ops once a newer one has started. Safe to invoke
// repeatedly with identical arguments.
func (p *Playback) CheckCompletion(ctx context.Context, battleID, turnID uuid.UUID, anchor time.Time) error {
	b, err := p.battles.GetByID(ctx, battleID)
	if err != nil {
		return err
	}

	if b.NowPlayingTurnID == nil || *b.NowPlayingTurnID != turnID {
		return nil
	}
	if b.PlaybackAnchor == nil || b.PlaybackAnchor.UnixMilli() != anchor.UnixMilli() {
		return nil
	}
	if b.PlaybackStatus != domain.PlaybackPlaying {
		return nil
	}

	b.PlaybackStatus = domain.PlaybackCompleted
	if err := p.battles.UpdatePlayback(ctx, b); err != nil {
		return err
	}

	finished, err := p.turns.GetByID(ctx, turnID)
	if err != nil {
		return err
	}

	if finished.TurnNumber == 1 {
		// Second turn of the same round, if already recorded.
		next, err := p.turns.GetByRoundAndTurnNumber(ctx, battleID, finished.RoundNumber, 2)
		if err == nil {
			return p.startTurn(ctx, b, next)
		}
		if !errors.Is(err, domain.ErrTurnNotFound) {
			return err
		}
	} else {
		// First turn of the next round, if already recorded.
		next, err := p.turns.GetByRoundAndTurnNumber(ctx, battleID, finished.RoundNumber+1, 1)
		if err == nil {
			if b.State != domain.BattleStateDone {
				if err := p.battles.UpdateCurrentRound(ctx, battleID, next.RoundNumber); err != nil {
					return err
				}
			}
			return p.startTurn(ctx, b, next)
		}
		if !errors.Is(err, domain.ErrTurnNotFound) {
			return err
		}
	}

	// Nothing more to play yet; the executor restarts playback once it
	// produces the next turn. Re-read before parking: the battle row may
	// have changed while the turn lookups ran (a gate opening for the next
	// turn, or a newer playback superseding this one), and the idle write
	// must not act on that newer state.
	b, err = p.battles.GetByID(ctx, battleID)
	if err != nil {
		return err
	}
	if b.NowPlayingTurnID == nil || *b.NowPlayingTurnID != turnID || b.PlaybackStatus != domain.PlaybackCompleted {
		return nil
	}

	b.PlaybackStatus = domain.PlaybackIdle
	b.NowPlayingTurnID = nil
	if err := p.battles.UpdatePlayback(ctx, b); err != nil {
		return err
	}

	p.notifier.Broadcast(battleID, eventPlaybackEnded, playbackStartedPayload{
		TurnID:     turnID,
		DurationMs: b.PlaybackDurationMs,
	})
	return nil
}

func (p *Playback) startTurn(ctx context.Context, b *domain.Battle, turn *domain.Turn) error {
	track, err := p.tracks.GetByID(ctx, turn.MusicTrackID)
	if err != nil {
		return err
	}
	return p.Start(ctx, b.ID, turn.ID, track.DurationMs)
}

// AwaitCompletion blocks until the given turn's playback has finished (or
// moved on), polling the battle record at the given interval.
func (p *Playback) AwaitCompletion(ctx context.Context, battleID, turnID uuid.UUID, poll time.Duration) error {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		b, err := p.battles.GetByID(ctx, battleID)
		if err != nil {
			return err
		}
		if b.PlaybackStatus != domain.PlaybackPlaying {
			return nil
		}
		if b.NowPlayingTurnID == nil || *b.NowPlayingTurnID != turnID {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Snapshot is the viewer-facing playback state. Position is the audible
// offset a client should be at right now.
type Snapshot struct {
	TurnID       *uuid.UUID            `json:"turnId"`
	Status       domain.PlaybackStatus `json:"status"`
	AnchorUnixMs int64                 `json:"anchorUnixMs"`
	DurationMs   int                   `json:"durationMs"`
	PositionMs   int                   `json:"positionMs"`
}

// SnapshotFor derives the playback snapshot from a battle record at the
// given instant, clamping the position into [0, duration].
func SnapshotFor(b *domain.Battle, now time.Time) Snapshot {
	snap := Snapshot{
		TurnID:     b.NowPlayingTurnID,
		Status:     b.PlaybackStatus,
		DurationMs: b.PlaybackDurationMs,
	}
	if b.PlaybackAnchor == nil || b.PlaybackStatus != domain.PlaybackPlaying {
		return snap
	}

	snap.AnchorUnixMs = b.PlaybackAnchor.UnixMilli()
	pos := int(now.Sub(*b.PlaybackAnchor).Milliseconds())
	if pos < 0 {
		pos = 0
	}
	if pos > b.PlaybackDurationMs {
		pos = b.PlaybackDurationMs
	}
	snap.PositionMs = pos
	return snap
}
