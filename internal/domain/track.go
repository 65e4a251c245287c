package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MusicTrack holds one generated audio asset plus the composition plan it
// was rendered from. Sections is the raw plan section list as returned by
// the music collaborator; DurationMs is the sum of the section durations
// and is authoritative for playback timing.
type MusicTrack struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AgentName  string         `json:"agentName" gorm:"not null"`
	Prompt     string         `json:"prompt"`
	Sections   datatypes.JSON `json:"sections" gorm:"type:jsonb;default:'[]'"`
	AssetRef   string         `json:"assetRef" gorm:"not null"`
	DurationMs int            `json:"durationMs" gorm:"not null"`
	CreatedAt  time.Time      `json:"createdAt"`
}
