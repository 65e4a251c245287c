package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
	"gorm.io/gorm"
)

type turnRepository struct {
	db *gorm.DB
}

func NewTurnRepository(db *gorm.DB) *turnRepository {
	return &turnRepository{db: db}
}

func (r *turnRepository) Create(ctx context.Context, turn *domain.Turn) error {
	return r.db.WithContext(ctx).Create(turn).Error
}

func (r *turnRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Turn, error) {
	var turn domain.Turn
	err := r.db.WithContext(ctx).First(&turn, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTurnNotFound
		}
		return nil, err
	}
	return &turn, nil
}

func (r *turnRepository) GetByBattleID(ctx context.Context, battleID uuid.UUID) ([]*domain.Turn, error) {
	var turns []*domain.Turn
	err := r.db.WithContext(ctx).
		Where("battle_id = ?", battleID).
		Order("round_number ASC, turn_number ASC").
		Find(&turns).Error
	if err != nil {
		return nil, err
	}
	return turns, nil
}

func (r *turnRepository) CountByRound(ctx context.Context, battleID uuid.UUID, roundNumber int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Turn{}).
		Where("battle_id = ? AND round_number = ?", battleID, roundNumber).
		Count(&count).Error
	return count, err
}

func (r *turnRepository) GetByRoundAndTurnNumber(ctx context.Context, battleID uuid.UUID, roundNumber, turnNumber int) (*domain.Turn, error) {
	var turn domain.Turn
	err := r.db.WithContext(ctx).
		Where("battle_id = ? AND round_number = ? AND turn_number = ?", battleID, roundNumber, turnNumber).
		First(&turn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTurnNotFound
		}
		return nil, err
	}
	return &turn, nil
}

func (r *turnRepository) LatestByOpponent(ctx context.Context, battleID uuid.UUID, agentName string) (*domain.Turn, error) {
	var turn domain.Turn
	err := r.db.WithContext(ctx).
		Where("battle_id = ? AND agent_name <> ?", battleID, agentName).
		Order("created_at DESC").
		First(&turn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTurnNotFound
		}
		return nil, err
	}
	return &turn, nil
}
