package dto

import (
	"time"

	"github.com/fernandwill/jobsphere/internal/model"
)

// ApplicationCreateRequest is the POST /api/applications payload.
type ApplicationCreateRequest struct {
	Company        string  `json:"company" validate:"required,max=255"`
	JobTitle       string  `json:"job_title" validate:"required,max=255"`
	Location       *string `json:"location" validate:"omitempty,max=255"`
	Mode           *string `json:"mode" validate:"omitempty,oneof=remote hybrid onsite"`
	Source         *string `json:"source" validate:"omitempty,oneof=scraped manual"`
	Status         *string `json:"status" validate:"omitempty,oneof=applied online_assessment interview passed rejected"`
	JobURL         *string `json:"job_url" validate:"omitempty,url,max=2048"`
	AppliedAt      *string `json:"applied_at"`
	LastActivityAt *string `json:"last_activity_at"`
	Notes          *string `json:"notes"`
}

// ApplicationUpdateRequest is the PATCH payload. Every field is a pointer
// so absent keys can be told apart from explicit nulls or zero values.
type ApplicationUpdateRequest struct {
	Company        *string `json:"company" validate:"omitempty,max=255"`
	JobTitle       *string `json:"job_title" validate:"omitempty,max=255"`
	Location       *string `json:"location" validate:"omitempty,max=255"`
	Mode           *string `json:"mode" validate:"omitempty,oneof=remote hybrid onsite"`
	Source         *string `json:"source" validate:"omitempty,oneof=scraped manual"`
	Status         *string `json:"status" validate:"omitempty,oneof=applied online_assessment interview passed rejected"`
	JobURL         *string `json:"job_url" validate:"omitempty,url,max=2048"`
	AppliedAt      *string `json:"applied_at"`
	LastActivityAt *string `json:"last_activity_at"`
	Notes          *string `json:"notes"`
}

// ApplicationDTO is the wire shape the SPA consumes.
type ApplicationDTO struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Company      string  `json:"company"`
	Location     *string `json:"location"`
	Mode         string  `json:"mode"`
	Status       string  `json:"status"`
	StatusLabel  string  `json:"statusLabel"`
	Source       string  `json:"source"`
	PostedAt     *string `json:"postedAt"`
	LastActivity *string `json:"lastActivity"`
	Notes        *string `json:"notes"`
	URL          *string `json:"url"`
}

func NewApplicationDTO(application model.Application) ApplicationDTO {
	mode := "remote"
	if application.Mode != nil {
		mode = *application.Mode
	}
	source := "manual"
	if application.Source != nil {
		source = *application.Source
	}

	var postedAt *string
	if application.AppliedAt != nil {
		date := application.AppliedAt.Format("2006-01-02")
		postedAt = &date
	}

	var lastActivity *string
	if at := application.ActivityTime(); !at.IsZero() {
		iso := at.Format(time.RFC3339)
		lastActivity = &iso
	}

	return ApplicationDTO{
		ID:           application.ID.String(),
		Title:        application.JobTitle,
		Company:      application.Company,
		Location:     application.Location,
		Mode:         mode,
		Status:       string(application.Status),
		StatusLabel:  application.Status.Label(),
		Source:       source,
		PostedAt:     postedAt,
		LastActivity: lastActivity,
		Notes:        application.Notes,
		URL:          application.JobURL,
	}
}

func NewApplicationDTOs(applications []model.Application) []ApplicationDTO {
	out := make([]ApplicationDTO, 0, len(applications))
	for _, application := range applications {
		out = append(out, NewApplicationDTO(application))
	}
	return out
}
