package usecase

import (
	"errors"
	"time"

	"github.com/fernandwill/jobsphere/internal/dto"
	"github.com/fernandwill/jobsphere/internal/model"
	"github.com/fernandwill/jobsphere/internal/repository"
	"github.com/fernandwill/jobsphere/internal/util"
	"github.com/google/uuid"
)

// ErrForbidden is returned when a user touches an application they do
// not own.
var ErrForbidden = errors.New("forbidden")

type ApplicationUsecase struct {
	applicationRepo *repository.ApplicationRepository
}

func NewApplicationUsecase(applicationRepo *repository.ApplicationRepository) *ApplicationUsecase {
	return &ApplicationUsecase{applicationRepo: applicationRepo}
}

func (uc *ApplicationUsecase) ListByUser(userID uuid.UUID) ([]model.Application, error) {
	return uc.applicationRepo.ListByUser(userID)
}

func (uc *ApplicationUsecase) Create(userID uuid.UUID, req dto.ApplicationCreateRequest) (*model.Application, error) {
	appliedAt, err := parseOptionalTime(req.AppliedAt, "applied_at")
	if err != nil {
		return nil, err
	}
	lastActivityAt, err := parseOptionalTime(req.LastActivityAt, "last_activity_at")
	if err != nil {
		return nil, err
	}
	if lastActivityAt == nil {
		now := time.Now()
		lastActivityAt = &now
	}

	status := model.StatusApplied
	if req.Status != nil {
		status = model.ApplicationStatus(*req.Status)
		if !status.Valid() {
			return nil, invalidStatusError()
		}
	}

	application := &model.Application{
		UserID:         userID,
		Company:        req.Company,
		JobTitle:       req.JobTitle,
		Location:       req.Location,
		Mode:           req.Mode,
		Source:         req.Source,
		Status:         status,
		JobURL:         req.JobURL,
		AppliedAt:      appliedAt,
		LastActivityAt: lastActivityAt,
		Notes:          req.Notes,
	}

	if err := uc.applicationRepo.Create(application); err != nil {
		return nil, err
	}
	return application, nil
}

// Update applies PATCH semantics: only fields present in the request
// change. A status change bumps last_activity_at to now unless the
// caller supplied an explicit value.
func (uc *ApplicationUsecase) Update(userID, id uuid.UUID, req dto.ApplicationUpdateRequest) (*model.Application, error) {
	application, err := uc.applicationRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if application.UserID != userID {
		return nil, ErrForbidden
	}

	if req.Company != nil {
		application.Company = *req.Company
	}
	if req.JobTitle != nil {
		application.JobTitle = *req.JobTitle
	}
	if req.Location != nil {
		application.Location = req.Location
	}
	if req.Mode != nil {
		application.Mode = req.Mode
	}
	if req.Source != nil {
		application.Source = req.Source
	}
	if req.JobURL != nil {
		application.JobURL = req.JobURL
	}
	if req.Notes != nil {
		application.Notes = req.Notes
	}

	if req.AppliedAt != nil {
		appliedAt, err := parseOptionalTime(req.AppliedAt, "applied_at")
		if err != nil {
			return nil, err
		}
		application.AppliedAt = appliedAt
	}

	var explicitActivity *time.Time
	if req.LastActivityAt != nil {
		explicitActivity, err = parseOptionalTime(req.LastActivityAt, "last_activity_at")
		if err != nil {
			return nil, err
		}
		application.LastActivityAt = explicitActivity
	}

	if req.Status != nil {
		newStatus := model.ApplicationStatus(*req.Status)
		if !newStatus.Valid() {
			return nil, invalidStatusError()
		}
		if application.Status != newStatus && explicitActivity == nil {
			now := time.Now()
			application.LastActivityAt = &now
		}
		application.Status = newStatus
	}

	if err := uc.applicationRepo.Update(application); err != nil {
		return nil, err
	}
	return application, nil
}

func invalidStatusError() error {
	return util.NewFormError("The given data was invalid", map[string]string{
		"status": "The status field must be one of: applied, online_assessment, interview, passed, rejected.",
	})
}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func parseOptionalTime(raw *string, field string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, *raw); err == nil {
			return &t, nil
		}
	}
	return nil, util.NewFormError("The given data was invalid", map[string]string{
		field: "The " + field + " field must be a valid date.",
	})
}
