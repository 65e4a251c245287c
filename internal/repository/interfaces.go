package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByDisplayName(ctx context.Context, displayName string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type BattleRepository interface {
	Create(ctx context.Context, battle *domain.Battle) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Battle, error)
	Update(ctx context.Context, battle *domain.Battle) error
	// UpdatePlayback persists only the playback columns, so a write from a
	// scheduled completion check can never clobber concurrently-set gate
	// fields on the same row.
	UpdatePlayback(ctx context.Context, battle *domain.Battle) error
	// UpdateCurrentRound moves the round cursor forward. Writes where the
	// stored round is already at or past the target are dropped.
	UpdateCurrentRound(ctx context.Context, battleID uuid.UUID, round int) error
	List(ctx context.Context, limit, offset int) ([]*domain.Battle, error)
	GetByThemeID(ctx context.Context, themeID uuid.UUID) ([]*domain.Battle, error)
	GetByStates(ctx context.Context, states []domain.BattleState) ([]*domain.Battle, error)
	GetByPlaybackStatus(ctx context.Context, status domain.PlaybackStatus) ([]*domain.Battle, error)
}

type TurnRepository interface {
	Create(ctx context.Context, turn *domain.Turn) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Turn, error)
	GetByBattleID(ctx context.Context, battleID uuid.UUID) ([]*domain.Turn, error)
	CountByRound(ctx context.Context, battleID uuid.UUID, roundNumber int) (int64, error)
	GetByRoundAndTurnNumber(ctx context.Context, battleID uuid.UUID, roundNumber, turnNumber int) (*domain.Turn, error)
	LatestByOpponent(ctx context.Context, battleID uuid.UUID, agentName string) (*domain.Turn, error)
}

type MusicTrackRepository interface {
	Create(ctx context.Context, track *domain.MusicTrack) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MusicTrack, error)
}

type ThemeRepository interface {
	Create(ctx context.Context, theme *domain.Theme) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Theme, error)
	GetAll(ctx context.Context) ([]*domain.Theme, error)
	Count(ctx context.Context) (int64, error)
}

type CheerRepository interface {
	Create(ctx context.Context, cheer *domain.Cheer) error
	GetByBattleID(ctx context.Context, battleID uuid.UUID) ([]*domain.Cheer, error)
	GetRecentByBattleID(ctx context.Context, battleID uuid.UUID, limit int) ([]*domain.Cheer, error)
	TallyByAgent(ctx context.Context, battleID uuid.UUID) ([]*CheerTally, error)
}

// CheerTally is an aggregated cheer count per agent and cheer type.
type CheerTally struct {
	AgentName string           `json:"agentName"`
	CheerType domain.CheerType `json:"cheerType"`
	Count     int64            `json:"count"`
}

type Repositories struct {
	User    UserRepository
	Session SessionRepository
	Battle  BattleRepository
	Turn    TurnRepository
	Track   MusicTrackRepository
	Theme   ThemeRepository
	Cheer   CheerRepository
}
