package battle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/repository"
)

// Runner drives one sequential workflow loop per battle: agent A's turn,
// then agent B's, round after round, until the battle is done. The loop is
// re-entrant; it derives its cursor from the durable turn log, so a process
// restart resumes at the last recorded step (see Resume). Turns of one
// battle never run concurrently; independent battles each get their own
// goroutine.
type Runner struct {
	battles  repository.BattleRepository
	turns    repository.TurnRepository
	executor *Executor
	progress *Progress
	playback *Playback
	poll     time.Duration
	log      zerolog.Logger

	mu     sync.Mutex
	active map[uuid.UUID]struct{}
}

func NewRunner(battles repository.BattleRepository, turns repository.TurnRepository, executor *Executor, progress *Progress, playback *Playback, poll time.Duration, log zerolog.Logger) *Runner {
	return &Runner{
		battles:  battles,
		turns:    turns,
		executor: executor,
		progress: progress,
		playback: playback,
		poll:     poll,
		log:      log,
		active:   make(map[uuid.UUID]struct{}),
	}
}

// Start launches the battle's workflow loop. Starting an already-running
// battle is a no-op.
func (r *Runner) Start(ctx context.Context, battleID uuid.UUID) {
	r.mu.Lock()
	if _, running := r.active[battleID]; running {
		r.mu.Unlock()
		return
	}
	r.active[battleID] = struct{}{}
	r.mu.Unlock()

	go func() {
		defer func() {
			r.mu.Lock()
			delete(r.active, battleID)
			r.mu.Unlock()
		}()

		if err := r.run(ctx, battleID); err != nil {
			// A generation failure stalls the battle visibly rather than
			// skipping a turn; the loop can be re-entered via Resume.
			r.log.Error().Err(err).Str("battle_id", battleID.String()).Msg("battle workflow stalled")
		}
	}()
}

// Resume restarts the workflow loop for every battle that was mid-flight
// when the process last stopped.
func (r *Runner) Resume(ctx context.Context) error {
	battles, err := r.battles.GetByStates(ctx, []domain.BattleState{
		domain.BattleStatePreparing,
		domain.BattleStateInProgress,
	})
	if err != nil {
		return err
	}

	for _, b := range battles {
		r.log.Info().Str("battle_id", b.ID.String()).Int("round", b.CurrentRound).Msg("resuming battle workflow")
		r.Start(ctx, b.ID)
	}
	return nil
}

func (r *Runner) run(ctx context.Context, battleID uuid.UUID) error {
	b, err := r.battles.GetByID(ctx, battleID)
	if err != nil {
		return err
	}
	if b.State == domain.BattleStateAwaitingPartner || b.State == domain.BattleStateDone {
		return nil
	}

	if err := r.progress.MarkInProgress(ctx, battleID); err != nil {
		return err
	}

	for {
		b, err := r.battles.GetByID(ctx, battleID)
		if err != nil {
			return err
		}
		if b.State == domain.BattleStateDone {
			r.log.Info().Str("battle_id", battleID.String()).Msg("battle complete")
			return nil
		}
		if b.CurrentRound > b.MaxRounds {
			return nil
		}

		round := b.CurrentRound
		for turnNumber := 1; turnNumber <= 2; turnNumber++ {
			// Skip steps already durably recorded (restart resume), but let
			// any playback still attached to them drain first.
			if recorded, err := r.turns.GetByRoundAndTurnNumber(ctx, battleID, round, turnNumber); err == nil {
				if err := r.playback.AwaitCompletion(ctx, battleID, recorded.ID, r.poll); err != nil {
					return err
				}
				continue
			} else if !errors.Is(err, domain.ErrTurnNotFound) {
				return err
			}

			agent, err := r.progress.NextAgent(ctx, b)
			if err != nil {
				return err
			}

			turn, err := r.executor.ExecuteTurn(ctx, battleID, round, agent)
			if err != nil {
				return fmt.Errorf("round %d, %s: %w", round, agent, err)
			}

			// Let the room finish listening before the next turn begins.
			if err := r.playback.AwaitCompletion(ctx, battleID, turn.ID, r.poll); err != nil {
				return err
			}
		}

		// Normally a no-op: the executor advances after each append. It
		// closes the gap when a restart happened between append and advance.
		if _, err := r.progress.Advance(ctx, battleID); err != nil {
			return err
		}
	}
}
