package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScrapeResult is one discovered posting belonging to a ScrapeRequest.
// Rows are only written by the owning request's job run, which replaces
// the full set atomically.
type ScrapeResult struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ScrapeRequestID uuid.UUID  `gorm:"type:uuid;index" json:"scrape_request_id"`
	Title           string     `gorm:"type:varchar(255)" json:"title"`
	Company         *string    `gorm:"type:varchar(255)" json:"company"`
	Location        *string    `gorm:"type:varchar(255)" json:"location"`
	URL             string     `gorm:"type:varchar(2048)" json:"url"`
	PublishedAt     *time.Time `json:"published_at"`
	Payload         string     `gorm:"type:jsonb" json:"payload"` // raw source record
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (r *ScrapeResult) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Payload == "" {
		r.Payload = "{}"
	}
	return nil
}
