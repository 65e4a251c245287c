package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/repository"
	"gorm.io/gorm"
)

type cheerRepository struct {
	db *gorm.DB
}

func NewCheerRepository(db *gorm.DB) *cheerRepository {
	return &cheerRepository{db: db}
}

func (r *cheerRepository) Create(ctx context.Context, cheer *domain.Cheer) error {
	return r.db.WithContext(ctx).Create(cheer).Error
}

func (r *cheerRepository) GetByBattleID(ctx context.Context, battleID uuid.UUID) ([]*domain.Cheer, error) {
	var cheers []*domain.Cheer
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("battle_id = ?", battleID).
		Order("created_at DESC").
		Find(&cheers).Error
	if err != nil {
		return nil, err
	}
	return cheers, nil
}

func (r *cheerRepository) GetRecentByBattleID(ctx context.Context, battleID uuid.UUID, limit int) ([]*domain.Cheer, error) {
	var cheers []*domain.Cheer
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("battle_id = ?", battleID).
		Order("created_at DESC").
		Limit(limit).
		Find(&cheers).Error
	if err != nil {
		return nil, err
	}
	return cheers, nil
}

func (r *cheerRepository) TallyByAgent(ctx context.Context, battleID uuid.UUID) ([]*repository.CheerTally, error) {
	var tallies []*repository.CheerTally
	err := r.db.WithContext(ctx).
		Model(&domain.Cheer{}).
		Select("agent_name, cheer_type, COUNT(*) as count").
		Where("battle_id = ?", battleID).
		Group("agent_name, cheer_type").
		Find(&tallies).Error
	if err != nil {
		return nil, err
	}
	return tallies, nil
}
