package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScrapeStatus tracks one scrape job run. Transitions are one-directional:
// queued -> running -> succeeded | failed.
type ScrapeStatus string

const (
	ScrapeQueued    ScrapeStatus = "queued"
	ScrapeRunning   ScrapeStatus = "running"
	ScrapeSucceeded ScrapeStatus = "succeeded"
	ScrapeFailed    ScrapeStatus = "failed"
)

func (s ScrapeStatus) Terminal() bool {
	return s == ScrapeSucceeded || s == ScrapeFailed
}

type ScrapeRequest struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Keyword      string         `gorm:"type:varchar(120)" json:"keyword"`
	Status       ScrapeStatus   `gorm:"type:varchar(50)" json:"status"`
	ResultsCount int            `gorm:"default:0" json:"results_count"`
	QueuedAt     *time.Time     `json:"queued_at"`
	StartedAt    *time.Time     `json:"started_at"`
	FinishedAt   *time.Time     `json:"finished_at"`
	ETA          string         `gorm:"column:eta;type:varchar(100)" json:"eta"`
	ErrorMessage *string        `gorm:"type:text" json:"error_message"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Results      []ScrapeResult `gorm:"constraint:OnDelete:CASCADE" json:"results,omitempty"`
}

func (r *ScrapeRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.QueuedAt == nil {
		now := time.Now()
		r.QueuedAt = &now
	}
	if r.Status == "" {
		r.Status = ScrapeQueued
	}
	return nil
}
