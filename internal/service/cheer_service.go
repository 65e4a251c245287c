package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/repository"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/websocket"
)

type CheerService struct {
	cheerRepo  repository.CheerRepository
	battleRepo repository.BattleRepository
	hub        *websocket.Hub
}

func NewCheerService(cheerRepo repository.CheerRepository, battleRepo repository.BattleRepository, hub *websocket.Hub) *CheerService {
	return &CheerService{
		cheerRepo:  cheerRepo,
		battleRepo: battleRepo,
		hub:        hub,
	}
}

type SendCheerInput struct {
	BattleID  uuid.UUID
	UserID    uuid.UUID
	AgentName string
	CheerType domain.CheerType
}

// SendCheer records a spectator reaction and fans it out to the room. The
// cheer lands on whatever round the battle is currently in.
func (s *CheerService) SendCheer(ctx context.Context, input SendCheerInput) (*domain.Cheer, error) {
	if !input.CheerType.Valid() {
		return nil, domain.ErrInvalidCheerType
	}

	b, err := s.battleRepo.GetByID(ctx, input.BattleID)
	if err != nil {
		return nil, err
	}
	if b.IsPartner(input.UserID) {
		return nil, domain.ErrPartnerCannotCheer
	}
	if input.AgentName != b.AgentAName && input.AgentName != b.AgentBName {
		return nil, domain.ErrUnknownAgent
	}

	cheer := &domain.Cheer{
		ID:          uuid.New(),
		BattleID:    input.BattleID,
		UserID:      input.UserID,
		AgentName:   input.AgentName,
		CheerType:   input.CheerType,
		RoundNumber: b.CurrentRound,
		CreatedAt:   time.Now(),
	}
	if err := s.cheerRepo.Create(ctx, cheer); err != nil {
		return nil, err
	}

	s.hub.Broadcast(input.BattleID, websocket.EventCheer, cheer)
	return cheer, nil
}

func (s *CheerService) List(ctx context.Context, battleID uuid.UUID) ([]*domain.Cheer, error) {
	return s.cheerRepo.GetByBattleID(ctx, battleID)
}

func (s *CheerService) Recent(ctx context.Context, battleID uuid.UUID, limit int) ([]*domain.Cheer, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.cheerRepo.GetRecentByBattleID(ctx, battleID, limit)
}

func (s *CheerService) Tally(ctx context.Context, battleID uuid.UUID) ([]*repository.CheerTally, error) {
	return s.cheerRepo.TallyByAgent(ctx, battleID)
}
