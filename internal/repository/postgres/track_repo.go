package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
	"gorm.io/gorm"
)

type musicTrackRepository struct {
	db *gorm.DB
}

func NewMusicTrackRepository(db *gorm.DB) *musicTrackRepository {
	return &musicTrackRepository{db: db}
}

func (r *musicTrackRepository) Create(ctx context.Context, track *domain.MusicTrack) error {
	return r.db.WithContext(ctx).Create(track).Error
}

func (r *musicTrackRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MusicTrack, error) {
	var track domain.MusicTrack
	err := r.db.WithContext(ctx).First(&track, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTrackNotFound
		}
		return nil, err
	}
	return &track, nil
}
