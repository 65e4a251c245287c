package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
	"gorm.io/gorm"
)

type themeRepository struct {
	db *gorm.DB
}

func NewThemeRepository(db *gorm.DB) *themeRepository {
	return &themeRepository{db: db}
}

func (r *themeRepository) Create(ctx context.Context, theme *domain.Theme) error {
	return r.db.WithContext(ctx).Create(theme).Error
}

func (r *themeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Theme, error) {
	var theme domain.Theme
	err := r.db.WithContext(ctx).First(&theme, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrThemeNotFound
		}
		return nil, err
	}
	return &theme, nil
}

func (r *themeRepository) GetAll(ctx context.Context) ([]*domain.Theme, error) {
	var themes []*domain.Theme
	err := r.db.WithContext(ctx).
		Order("sort_order ASC").
		Find(&themes).Error
	if err != nil {
		return nil, err
	}
	return themes, nil
}

func (r *themeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Theme{}).Count(&count).Error
	return count, err
}
