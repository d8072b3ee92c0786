package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationStatus enumerates the five pipeline stages an application
// moves through. Values match what the SPA and the database store.
type ApplicationStatus string

const (
	StatusApplied          ApplicationStatus = "applied"
	StatusOnlineAssessment ApplicationStatus = "online_assessment"
	StatusInterview        ApplicationStatus = "interview"
	StatusPassed           ApplicationStatus = "passed"
	StatusRejected         ApplicationStatus = "rejected"
)

// ApplicationStatuses returns all statuses in fixed pipeline order.
func ApplicationStatuses() []ApplicationStatus {
	return []ApplicationStatus{
		StatusApplied,
		StatusOnlineAssessment,
		StatusInterview,
		StatusPassed,
		StatusRejected,
	}
}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusOnlineAssessment, StatusInterview, StatusPassed, StatusRejected:
		return true
	}
	return false
}

func (s ApplicationStatus) Label() string {
	switch s {
	case StatusApplied:
		return "Applied"
	case StatusOnlineAssessment:
		return "Online Assessment"
	case StatusInterview:
		return "Interview"
	case StatusPassed:
		return "Passed"
	case StatusRejected:
		return "Rejected"
	}
	return string(s)
}

// Summary is the fixed per-stage description shown on the pipeline board.
func (s ApplicationStatus) Summary() string {
	switch s {
	case StatusApplied:
		return "Awaiting recruiter review"
	case StatusOnlineAssessment:
		return "Assessment in progress"
	case StatusInterview:
		return "Interviews scheduled or ongoing"
	case StatusPassed:
		return "Offers or final approvals"
	case StatusRejected:
		return "Closed and archived"
	}
	return ""
}

type Application struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID         `gorm:"type:uuid;index" json:"user_id"`
	Company        string            `gorm:"type:varchar(255)" json:"company"`
	JobTitle       string            `gorm:"type:varchar(255)" json:"job_title"`
	Location       *string           `gorm:"type:varchar(255)" json:"location"`
	Mode           *string           `gorm:"type:varchar(50)" json:"mode"` // remote, hybrid, onsite
	Source         *string           `gorm:"type:varchar(50)" json:"source"` // scraped, manual
	Status         ApplicationStatus `gorm:"type:varchar(50)" json:"status"`
	JobURL         *string           `gorm:"type:varchar(2048)" json:"job_url"`
	AppliedAt      *time.Time        `json:"applied_at"`
	LastActivityAt *time.Time        `json:"last_activity_at"`
	Notes          *string           `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = StatusApplied
	}
	return nil
}

// ActivityTime is the timestamp reports sort by: last activity when
// present, otherwise the row's update time.
func (a *Application) ActivityTime() time.Time {
	if a.LastActivityAt != nil {
		return *a.LastActivityAt
	}
	return a.UpdatedAt
}
