package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
	"gorm.io/gorm"
)

type battleRepository struct {
	db *gorm.DB
}

func NewBattleRepository(db *gorm.DB) *battleRepository {
	return &battleRepository{db: db}
}

func (r *battleRepository) Create(ctx context.Context, battle *domain.Battle) error {
	return r.db.WithContext(ctx).Create(battle).Error
}

func (r *battleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Battle, error) {
	var battle domain.Battle
	err := r.db.WithContext(ctx).
		Preload("PartnerA").
		Preload("PartnerB").
		First(&battle, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBattleNotFound
		}
		return nil, err
	}
	return &battle, nil
}

func (r *battleRepository) Update(ctx context.Context, battle *domain.Battle) error {
	battle.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(battle).Error
}

func (r *battleRepository) UpdatePlayback(ctx context.Context, battle *domain.Battle) error {
	battle.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Model(&domain.Battle{}).
		Where("id = ?", battle.ID).
		Updates(map[string]any{
			"now_playing_turn_id":  battle.NowPlayingTurnID,
			"playback_anchor":      battle.PlaybackAnchor,
			"playback_duration_ms": battle.PlaybackDurationMs,
			"playback_status":      battle.PlaybackStatus,
			"updated_at":           battle.UpdatedAt,
		}).Error
}

func (r *battleRepository) UpdateCurrentRound(ctx context.Context, battleID uuid.UUID, round int) error {
	return r.db.WithContext(ctx).
		Model(&domain.Battle{}).
		Where("id = ? AND current_round < ?", battleID, round).
		Updates(map[string]any{
			"current_round": round,
			"updated_at":    time.Now(),
		}).Error
}

func (r *battleRepository) List(ctx context.Context, limit, offset int) ([]*domain.Battle, error) {
	var battles []*domain.Battle
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&battles).Error
	if err != nil {
		return nil, err
	}
	return battles, nil
}

func (r *battleRepository) GetByThemeID(ctx context.Context, themeID uuid.UUID) ([]*domain.Battle, error) {
	var battles []*domain.Battle
	err := r.db.WithContext(ctx).
		Where("theme_id = ?", themeID).
		Order("created_at DESC").
		Find(&battles).Error
	if err != nil {
		return nil, err
	}
	return battles, nil
}

func (r *battleRepository) GetByStates(ctx context.Context, states []domain.BattleState) ([]*domain.Battle, error) {
	var battles []*domain.Battle
	err := r.db.WithContext(ctx).
		Where("state IN ?", states).
		Order("created_at ASC").
		Find(&battles).Error
	if err != nil {
		return nil, err
	}
	return battles, nil
}

func (r *battleRepository) GetByPlaybackStatus(ctx context.Context, status domain.PlaybackStatus) ([]*domain.Battle, error) {
	var battles []*domain.Battle
	err := r.db.WithContext(ctx).
		Where("playback_status = ?", status).
		Order("created_at ASC").
		Find(&battles).Error
	if err != nil {
		return nil, err
	}
	return battles, nil
}
