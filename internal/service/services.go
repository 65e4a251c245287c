package service

import (
	"github.com/rs/zerolog"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/assets"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/battle"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/config"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/repository"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/websocket"
)

type Services struct {
	Auth   *AuthService
	Battle *BattleService
	Theme  *ThemeService
	Cheer  *CheerService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, runner *battle.Runner, hub *websocket.Hub, store assets.Store, log zerolog.Logger) *Services {
	return &Services{
		Auth:   NewAuthService(repos.User, repos.Session, cfg),
		Battle: NewBattleService(repos.Battle, repos.Turn, repos.Track, repos.Theme, runner, hub, store, log),
		Theme:  NewThemeService(repos.Theme),
		Cheer:  NewCheerService(repos.Cheer, repos.Battle, hub),
	}
}
