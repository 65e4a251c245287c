package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/repository"
)

var ErrThemesAlreadySeeded = errors.New("themes already seeded")

type ThemeService struct {
	themeRepo repository.ThemeRepository
}

func NewThemeService(themeRepo repository.ThemeRepository) *ThemeService {
	return &ThemeService{themeRepo: themeRepo}
}

func (s *ThemeService) List(ctx context.Context) ([]*domain.Theme, error) {
	return s.themeRepo.GetAll(ctx)
}

func (s *ThemeService) Get(ctx context.Context, id uuid.UUID) (*domain.Theme, error) {
	return s.themeRepo.GetByID(ctx, id)
}

// Seed loads the built-in theme catalog into an empty themes table.
func (s *ThemeService) Seed(ctx context.Context) error {
	count, err := s.themeRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrThemesAlreadySeeded
	}

	themes := []domain.Theme{
		{
			Name:        "Claude vs Gemini",
			Side1Name:   "Claude",
			Side2Name:   "Gemini",
			Description: "The assistants square off over who really understands you.",
			SortOrder:   1,
		},
		{
			Name:        "Supabase vs Convex",
			Side1Name:   "Supabase",
			Side2Name:   "Convex",
			Description: "Backend platforms battle for your next side project.",
			SortOrder:   2,
		},
		{
			Name:        "Python vs Javascript",
			Side1Name:   "Python",
			Side2Name:   "Javascript",
			Description: "The eternal language war settled in eight bars.",
			SortOrder:   3,
		},
		{
			Name:        "GPT vs Grok",
			Side1Name:   "GPT",
			Side2Name:   "Grok",
			Description: "Two frontier models trade bars about benchmarks and vibes.",
			SortOrder:   4,
		},
	}

	for i := range themes {
		themes[i].ID = uuid.New()
		themes[i].CreatedAt = time.Now()
		if err := s.themeRepo.Create(ctx, &themes[i]); err != nil {
			return err
		}
	}
	return nil
}
