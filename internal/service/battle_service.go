package service

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/assets"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/battle"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/repository"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/websocket"
)

type BattleService struct {
	battleRepo repository.BattleRepository
	turnRepo   repository.TurnRepository
	trackRepo  repository.MusicTrackRepository
	themeRepo  repository.ThemeRepository
	runner     *battle.Runner
	hub        *websocket.Hub
	assets     assets.Store
	log        zerolog.Logger
}

func NewBattleService(battleRepo repository.BattleRepository, turnRepo repository.TurnRepository, trackRepo repository.MusicTrackRepository, themeRepo repository.ThemeRepository, runner *battle.Runner, hub *websocket.Hub, store assets.Store, log zerolog.Logger) *BattleService {
	return &BattleService{
		battleRepo: battleRepo,
		turnRepo:   turnRepo,
		trackRepo:  trackRepo,
		themeRepo:  themeRepo,
		runner:     runner,
		hub:        hub,
		assets:     store,
		log:        log,
	}
}

type CreateBattleInput struct {
	CreatedBy uuid.UUID
	ThemeID   uuid.UUID
	MaxRounds int
}

// CreateBattle opens a battle waiting for a second partner. The creator is
// randomly assigned one of the theme's two sides.
func (s *BattleService) CreateBattle(ctx context.Context, input CreateBattleInput) (*domain.Battle, error) {
	theme, err := s.themeRepo.GetByID(ctx, input.ThemeID)
	if err != nil {
		return nil, err
	}

	maxRounds := input.MaxRounds
	if maxRounds != domain.DefaultMaxRounds && maxRounds != domain.ExtendedMaxRounds {
		maxRounds = domain.DefaultMaxRounds
	}

	creatorAgent, joinerAgent := theme.Side1Name, theme.Side2Name
	if rand.IntN(2) == 0 {
		creatorAgent, joinerAgent = joinerAgent, creatorAgent
	}

	b := &domain.Battle{
		ID:             uuid.New(),
		ThemeID:        theme.ID,
		ThemeName:      theme.Name,
		AgentAName:     theme.Side1Name,
		AgentBName:     theme.Side2Name,
		PartnerAUserID: input.CreatedBy,
		PartnerAAgent:  creatorAgent,
		PartnerBAgent:  joinerAgent,
		State:          domain.BattleStateAwaitingPartner,
		MaxRounds:      maxRounds,
		CurrentRound:   1,
		PlaybackStatus: domain.PlaybackIdle,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := s.battleRepo.Create(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// JoinBattle seats the second partner, opens a generation thread per agent
// and kicks off the battle workflow.
func (s *BattleService) JoinBattle(ctx context.Context, battleID, userID uuid.UUID) (*domain.Battle, error) {
	b, err := s.battleRepo.GetByID(ctx, battleID)
	if err != nil {
		return nil, err
	}

	if b.State != domain.BattleStateAwaitingPartner {
		return nil, domain.ErrNotAwaitingPartner
	}
	if b.PartnerAUserID == userID {
		return nil, domain.ErrOwnBattle
	}

	b.PartnerBUserID = &userID
	b.AgentAThreadID = uuid.New().String()
	b.AgentBThreadID = uuid.New().String()
	if err := b.TransitionTo(domain.BattleStatePreparing); err != nil {
		return nil, err
	}

	if err := s.battleRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.hub.Broadcast(b.ID, websocket.EventBattleUpdated, b)

	// The workflow outlives this request.
	s.runner.Start(context.Background(), b.ID)

	s.log.Info().
		Str("battle_id", b.ID.String()).
		Str("theme", b.ThemeName).
		Msg("battle started")

	return b, nil
}

// SubmitInstructions delivers a partner's guidance into the open gate.
// Rejections never mutate the battle.
func (s *BattleService) SubmitInstructions(ctx context.Context, battleID, userID uuid.UUID, instructions string) error {
	b, err := s.battleRepo.GetByID(ctx, battleID)
	if err != nil {
		return err
	}

	if b.PendingTurnUserID == nil || *b.PendingTurnUserID != userID {
		return domain.ErrNotYourTurn
	}
	if b.TurnDeadline == nil || time.Now().After(*b.TurnDeadline) {
		return domain.ErrDeadlineExpired
	}

	b.PendingInstructions = &instructions
	b.PendingPartnerID = &userID
	b.PendingTurnUserID = nil
	b.TurnOpenedAt = nil
	b.TurnDeadline = nil

	if err := s.battleRepo.Update(ctx, b); err != nil {
		return err
	}

	s.hub.Broadcast(b.ID, websocket.EventBattleUpdated, b)
	return nil
}

func (s *BattleService) GetBattle(ctx context.Context, battleID uuid.UUID) (*domain.Battle, error) {
	return s.battleRepo.GetByID(ctx, battleID)
}

func (s *BattleService) ListBattles(ctx context.Context, limit, offset int) ([]*domain.Battle, error) {
	return s.battleRepo.List(ctx, limit, offset)
}

func (s *BattleService) GetBattlesForTheme(ctx context.Context, themeID uuid.UUID) ([]*domain.Battle, error) {
	return s.battleRepo.GetByThemeID(ctx, themeID)
}

func (s *BattleService) GetTurns(ctx context.Context, battleID uuid.UUID) ([]*domain.Turn, error) {
	return s.turnRepo.GetByBattleID(ctx, battleID)
}

// TurnInfo is the viewer-facing state of the instruction gate.
type TurnInfo struct {
	PendingTurnUserID *uuid.UUID `json:"pendingTurnUserId"`
	TurnOpenedAt      *time.Time `json:"turnOpenedAt"`
	TurnDeadline      *time.Time `json:"turnDeadline"`
	RemainingMs       int64      `json:"remainingMs"`
}

func (s *BattleService) GetTurnInfo(ctx context.Context, battleID uuid.UUID) (*TurnInfo, error) {
	b, err := s.battleRepo.GetByID(ctx, battleID)
	if err != nil {
		return nil, err
	}

	info := &TurnInfo{
		PendingTurnUserID: b.PendingTurnUserID,
		TurnOpenedAt:      b.TurnOpenedAt,
		TurnDeadline:      b.TurnDeadline,
	}
	if b.TurnDeadline != nil {
		if remaining := time.Until(*b.TurnDeadline).Milliseconds(); remaining > 0 {
			info.RemainingMs = remaining
		}
	}
	return info, nil
}

func (s *BattleService) GetPlaybackSnapshot(ctx context.Context, battleID uuid.UUID) (*battle.Snapshot, error) {
	b, err := s.battleRepo.GetByID(ctx, battleID)
	if err != nil {
		return nil, err
	}
	snap := battle.SnapshotFor(b, time.Now())
	return &snap, nil
}

// TrackWithURL pairs a stored track with a serveable asset URL.
type TrackWithURL struct {
	*domain.MusicTrack
	URL string `json:"url"`
}

func (s *BattleService) GetTrack(ctx context.Context, trackID uuid.UUID) (*TrackWithURL, error) {
	track, err := s.trackRepo.GetByID(ctx, trackID)
	if err != nil {
		return nil, err
	}
	return &TrackWithURL{MusicTrack: track, URL: s.assets.URLFor(track.AssetRef)}, nil
}
