package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShortCodeLength is the fixed length of generated short codes.
const ShortCodeLength = 8

// Link maps a short code to a full URL. Rows are created once per distinct
// full URL and never mutated afterwards.
type Link struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:(gen_random_uuid())" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	FullURL   string    `gorm:"size:2048;not null;uniqueIndex" json:"full_url"`
	ShortCode string    `gorm:"size:16;not null;uniqueIndex" json:"short_code"`
}

func (l *Link) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
