package domain

import (
	"time"

	"github.com/google/uuid"
)

// Turn is one agent's contribution within a round. Immutable once created;
// the executor appends it only after both generation steps succeed.
type Turn struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BattleID     uuid.UUID `json:"battleId" gorm:"type:uuid;not null;index;uniqueIndex:idx_turn_slot"`
	RoundNumber  int       `json:"roundNumber" gorm:"not null;uniqueIndex:idx_turn_slot"`
	TurnNumber   int       `json:"turnNumber" gorm:"not null;uniqueIndex:idx_turn_slot"` // 1 or 2 within the round
	AgentName    string    `json:"agentName" gorm:"not null"`
	PartnerID    uuid.UUID `json:"partnerId" gorm:"type:uuid;not null"`
	Instructions string    `json:"instructions"` // empty when the gate timed out
	Lyrics       string    `json:"lyrics" gorm:"not null"`
	MusicTrackID uuid.UUID `json:"musicTrackId" gorm:"type:uuid;not null"`
	ThreadID     string    `json:"threadId"`
	CreatedAt    time.Time `json:"createdAt"`
}
