package domain

import (
	"time"

	"github.com/google/uuid"
)

type BattleState string

const (
	BattleStateAwaitingPartner BattleState = "awaiting_partner"
	BattleStatePreparing       BattleState = "preparing"
	BattleStateInProgress      BattleState = "in_progress"
	BattleStateDone            BattleState = "done"
)

// stateOrder encodes the one-way lifecycle. Transitions may only move to a
// state with a higher order.
var stateOrder = map[BattleState]int{
	BattleStateAwaitingPartner: 0,
	BattleStatePreparing:       1,
	BattleStateInProgress:      2,
	BattleStateDone:            3,
}

// CanTransitionTo reports whether moving to the target state keeps the
// lifecycle monotonic. Staying in the same state is allowed.
func (s BattleState) CanTransitionTo(target BattleState) bool {
	return stateOrder[target] >= stateOrder[s]
}

type PlaybackStatus string

const (
	PlaybackIdle      PlaybackStatus = "idle"
	PlaybackPlaying   PlaybackStatus = "playing"
	PlaybackCompleted PlaybackStatus = "completed"
)

const (
	DefaultMaxRounds  = 3
	ExtendedMaxRounds = 6
)

// Battle is the single mutable record driving one match between two agents.
// AgentAName is the first-seated agent: it always opens a round.
type Battle struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ThemeID   uuid.UUID `json:"themeId" gorm:"type:uuid;not null;index"`
	ThemeName string    `json:"themeName" gorm:"not null"`

	AgentAName string `json:"agentAName" gorm:"not null"`
	AgentBName string `json:"agentBName" gorm:"not null"`

	// PartnerAUserID is the creator; their agent side is assigned at random
	// on creation. PartnerBUserID is filled when the second partner joins
	// and steers the remaining agent.
	PartnerAUserID uuid.UUID  `json:"partnerAUserId" gorm:"type:uuid;not null"`
	PartnerBUserID *uuid.UUID `json:"partnerBUserId" gorm:"type:uuid"`
	PartnerAAgent  string     `json:"partnerAAgent" gorm:"not null"`
	PartnerBAgent  string     `json:"partnerBAgent" gorm:"not null"`

	State        BattleState `json:"state" gorm:"not null;default:'awaiting_partner'"`
	MaxRounds    int         `json:"maxRounds" gorm:"not null;default:3"`
	CurrentRound int         `json:"currentRound" gorm:"not null;default:1"`

	// Instruction gate, set only while a turn window is open.
	PendingTurnUserID *uuid.UUID `json:"pendingTurnUserId" gorm:"type:uuid"`
	TurnOpenedAt      *time.Time `json:"turnOpenedAt"`
	TurnDeadline      *time.Time `json:"turnDeadline"`

	// Single-slot mailbox holding a submitted-but-unconsumed instruction.
	PendingInstructions *string    `json:"pendingInstructions"`
	PendingPartnerID    *uuid.UUID `json:"pendingPartnerId" gorm:"type:uuid"`

	// Synchronized playback anchor. All viewers derive the audible position
	// from PlaybackAnchor against their own clock.
	NowPlayingTurnID   *uuid.UUID     `json:"nowPlayingTurnId" gorm:"type:uuid"`
	PlaybackAnchor     *time.Time     `json:"playbackAnchor"`
	PlaybackDurationMs int            `json:"playbackDurationMs"`
	PlaybackStatus     PlaybackStatus `json:"playbackStatus" gorm:"not null;default:'idle'"`

	// Generation session handles, one conversation thread per agent.
	AgentAThreadID string `json:"agentAThreadId"`
	AgentBThreadID string `json:"agentBThreadId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	PartnerA *User `json:"partnerA,omitempty" gorm:"foreignKey:PartnerAUserID"`
	PartnerB *User `json:"partnerB,omitempty" gorm:"foreignKey:PartnerBUserID"`
}

// PartnerForAgent returns the user steering the given agent, or nil if that
// seat is not filled yet.
func (b *Battle) PartnerForAgent(agentName string) *uuid.UUID {
	if b.PartnerAAgent == agentName {
		id := b.PartnerAUserID
		return &id
	}
	if b.PartnerBAgent == agentName {
		return b.PartnerBUserID
	}
	return nil
}

// ThreadForAgent returns the generation thread handle for the given agent.
func (b *Battle) ThreadForAgent(agentName string) string {
	if agentName == b.AgentAName {
		return b.AgentAThreadID
	}
	return b.AgentBThreadID
}

// TransitionTo moves the battle to the target state, rejecting any move
// that would send the lifecycle backward.
func (b *Battle) TransitionTo(target BattleState) error {
	if !b.State.CanTransitionTo(target) {
		return ErrStateRegression
	}
	b.State = target
	return nil
}

// IsPartner reports whether the user occupies one of the two rapping seats.
func (b *Battle) IsPartner(userID uuid.UUID) bool {
	if b.PartnerAUserID == userID {
		return true
	}
	return b.PartnerBUserID != nil && *b.PartnerBUserID == userID
}
