package domain

import (
	"time"

	"github.com/google/uuid"
)

// Theme pits two named sides against each other. The sides become the two
// agent labels of any battle created from the theme.
type Theme struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Side1Name   string    `json:"side1Name" gorm:"not null"`
	Side2Name   string    `json:"side2Name" gorm:"not null"`
	Description string    `json:"description"`
	SortOrder   int       `json:"sortOrder" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"createdAt"`
}
