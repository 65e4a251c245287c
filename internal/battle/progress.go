package battle

import (
	"context"

	"github.com/google/uuid"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/repository"
)

// Progress advances the round counter and flips the battle lifecycle. It is
// the single source of truth for round completion and for whose turn comes
// next.
type Progress struct {
	battles repository.BattleRepository
	turns   repository.TurnRepository
}

func NewProgress(battles repository.BattleRepository, turns repository.TurnRepository) *Progress {
	return &Progress{battles: battles, turns: turns}
}

// MarkInProgress flips a preparing battle to in_progress. Idempotent; never
// moves the state backward.
func (p *Progress) MarkInProgress(ctx context.Context, battleID uuid.UUID) error {
	b, err := p.battles.GetByID(ctx, battleID)
	if err != nil {
		return err
	}
	if b.State != domain.BattleStatePreparing {
		return nil
	}
	if err := b.TransitionTo(domain.BattleStateInProgress); err != nil {
		return err
	}
	return p.battles.Update(ctx, b)
}

// Advance re-counts the turns recorded for the current round. Two recorded
// turns roll the round forward; rolling past MaxRounds finishes the battle
// and clears the gate fields. Safe to call repeatedly.
func (p *Progress) Advance(ctx context.Context, battleID uuid.UUID) (*domain.Battle, error) {
	b, err := p.battles.GetByID(ctx, battleID)
	if err != nil {
		return nil, err
	}
	if b.State == domain.BattleStateDone {
		return b, nil
	}

	count, err := p.turns.CountByRound(ctx, battleID, b.CurrentRound)
	if err != nil {
		return nil, err
	}
	if count < 2 {
		return b, nil
	}

	b.CurrentRound++
	if b.CurrentRound > b.MaxRounds {
		if err := b.TransitionTo(domain.BattleStateDone); err != nil {
			return nil, err
		}
		b.PendingTurnUserID = nil
		b.TurnOpenedAt = nil
		b.TurnDeadline = nil
		b.PendingInstructions = nil
		b.PendingPartnerID = nil
	}

	if err := p.battles.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// NextAgent reports which agent has the fewer recorded turns in the current
// round. On a fresh round this is always the first-seated agent.
func (p *Progress) NextAgent(ctx context.Context, b *domain.Battle) (string, error) {
	first, err := p.turns.GetByRoundAndTurnNumber(ctx, b.ID, b.CurrentRound, 1)
	if err != nil {
		if err == domain.ErrTurnNotFound {
			return b.AgentAName, nil
		}
		return "", err
	}

	if first.AgentName == b.AgentAName {
		return b.AgentBName, nil
	}
	return b.AgentAName, nil
}
