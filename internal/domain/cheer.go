package domain

import (
	"time"

	"github.com/google/uuid"
)

type CheerType string

const (
	CheerApplause CheerType = "applause"
	CheerBoo      CheerType = "boo"
	CheerFire     CheerType = "fire"
)

func (c CheerType) Valid() bool {
	return c == CheerApplause || c == CheerBoo || c == CheerFire
}

// Cheer is a spectator reaction aimed at one agent during a round. Rapping
// partners are not allowed to cheer their own battle.
type Cheer struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BattleID    uuid.UUID `json:"battleId" gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID `json:"userId" gorm:"type:uuid;not null"`
	AgentName   string    `json:"agentName" gorm:"not null"`
	CheerType   CheerType `json:"cheerType" gorm:"not null"`
	RoundNumber int       `json:"roundNumber" gorm:"not null"`
	CreatedAt   time.Time `json:"createdAt"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
