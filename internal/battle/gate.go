package battle

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/repository"
)

// Gate is the bounded window in which a human partner may submit
// instructions for their agent's turn. Submissions land in the battle
// record's single-slot mailbox (see BattleService.SubmitInstructions); the
// gate resolves them with a tri-state read so the executor can poll without
// busy-spinning.
type Gate struct {
	battles repository.BattleRepository
	poll    time.Duration
}

func NewGate(battles repository.BattleRepository, poll time.Duration) *Gate {
	return &Gate{battles: battles, poll: poll}
}

// Open records the pending turn holder and deadline on the battle, clearing
// any stale instruction left over from a previous turn.
func (g *Gate) Open(ctx context.Context, battleID, partnerID uuid.UUID, window time.Duration) (time.Time, error) {
	b, err := g.battles.GetByID(ctx, battleID)
	if err != nil {
		return time.Time{}, err
	}

	now := time.Now()
	deadline := now.Add(window)
	b.PendingTurnUserID = &partnerID
	b.TurnOpenedAt = &now
	b.TurnDeadline = &deadline
	b.PendingInstructions = nil
	b.PendingPartnerID = nil

	if err := g.battles.Update(ctx, b); err != nil {
		return time.Time{}, err
	}
	return deadline, nil
}

// Resolve returns (instructions, resolved). A submitted instruction from
// the matching partner resolves immediately; once the deadline passes the
// gate resolves to the empty string; otherwise the caller must re-poll.
func (g *Gate) Resolve(ctx context.Context, battleID, partnerID uuid.UUID, deadline time.Time) (string, bool, error) {
	b, err := g.battles.GetByID(ctx, battleID)
	if err != nil {
		return "", false, err
	}

	if b.PendingInstructions != nil && b.PendingPartnerID != nil && *b.PendingPartnerID == partnerID {
		return *b.PendingInstructions, true, nil
	}

	if !time.Now().Before(deadline) {
		return "", true, nil
	}

	return "", false, nil
}

// Await polls Resolve at the configured interval until the gate yields a
// definite value, then clears the gate. Total wait is bounded by the
// deadline passed to Open.
func (g *Gate) Await(ctx context.Context, battleID, partnerID uuid.UUID, deadline time.Time) (string, error) {
	ticker := time.NewTicker(g.poll)
	defer ticker.Stop()

	for {
		instructions, resolved, err := g.Resolve(ctx, battleID, partnerID, deadline)
		if err != nil {
			return "", err
		}
		if resolved {
			if err := g.Clear(ctx, battleID); err != nil {
				return "", err
			}
			return instructions, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

// Clear removes the gate-open fields and the pending instruction mailbox.
// Clearing an already-clear gate is a no-op.
func (g *Gate) Clear(ctx context.Context, battleID uuid.UUID) error {
	b, err := g.battles.GetByID(ctx, battleID)
	if err != nil {
		return err
	}

	if b.PendingTurnUserID == nil && b.TurnOpenedAt == nil && b.TurnDeadline == nil &&
		b.PendingInstructions == nil && b.PendingPartnerID == nil {
		return nil
	}

	b.PendingTurnUserID = nil
	b.TurnOpenedAt = nil
	b.TurnDeadline = nil
	b.PendingInstructions = nil
	b.PendingPartnerID = nil
	return g.battles.Update(ctx, b)
}
