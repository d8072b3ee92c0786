package usecase

import (
	"testing"
	"time"

	"github.com/fernandwill/jobsphere/internal/dto"
	"github.com/fernandwill/jobsphere/internal/model"
	"github.com/fernandwill/jobsphere/internal/repository"
	"github.com/fernandwill/jobsphere/internal/util"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strptr(s string) *string { return &s }

func TestCreateAppliesDefaults(t *testing.T) {
	uc := NewApplicationUsecase(repository.NewApplicationRepository(newTestDB(t)))
	userID := uuid.New()

	application, err := uc.Create(userID, dto.ApplicationCreateRequest{
		Company:  "Acme",
		JobTitle: "Backend Engineer",
	})

	require.NoError(t, err)
	assert.Equal(t, userID, application.UserID)
	assert.Equal(t, model.StatusApplied, application.Status)
	require.NotNil(t, application.LastActivityAt, "last_activity_at defaults to now")
	assert.WithinDuration(t, time.Now(), *application.LastActivityAt, 5*time.Second)
	assert.Nil(t, application.AppliedAt)
	assert.Nil(t, application.Notes)
}

func TestCreateParsesDates(t *testing.T) {
	uc := NewApplicationUsecase(repository.NewApplicationRepository(newTestDB(t)))

	application, err := uc.Create(uuid.New(), dto.ApplicationCreateRequest{
		Company:   "Acme",
		JobTitle:  "Backend Engineer",
		Status:    strptr("interview"),
		AppliedAt: strptr("2025-06-01"),
	})

	require.NoError(t, err)
	assert.Equal(t, model.StatusInterview, application.Status)
	require.NotNil(t, application.AppliedAt)
	assert.Equal(t, 2025, application.AppliedAt.Year())
	assert.Equal(t, time.June, application.AppliedAt.Month())
}

func TestCreateRejectsInvalidDate(t *testing.T) {
	uc := NewApplicationUsecase(repository.NewApplicationRepository(newTestDB(t)))

	_, err := uc.Create(uuid.New(), dto.ApplicationCreateRequest{
		Company:   "Acme",
		JobTitle:  "Backend Engineer",
		AppliedAt: strptr("next tuesday"),
	})

	var formErr *util.FormError
	require.ErrorAs(t, err, &formErr)
	assert.Contains(t, formErr.Errors, "applied_at")
}

func TestCreateRejectsUnknownStatus(t *testing.T) {
	uc := NewApplicationUsecase(repository.NewApplicationRepository(newTestDB(t)))

	_, err := uc.Create(uuid.New(), dto.ApplicationCreateRequest{
		Company:  "Acme",
		JobTitle: "Backend Engineer",
		Status:   strptr("ghosted"),
	})

	var formErr *util.FormError
	require.ErrorAs(t, err, &formErr)
	assert.Contains(t, formErr.Errors, "status")
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	uc := NewApplicationUsecase(repository.NewApplicationRepository(newTestDB(t)))
	userID := uuid.New()

	application, err := uc.Create(userID, dto.ApplicationCreateRequest{
		Company:  "Acme",
		JobTitle: "Backend Engineer",
	})
	require.NoError(t, err)

	_, err = uc.Update(userID, application.ID, dto.ApplicationUpdateRequest{
		Status: strptr("ghosted"),
	})

	var formErr *util.FormError
	require.ErrorAs(t, err, &formErr)
	assert.Contains(t, formErr.Errors, "status")
}

func TestUpdateStatusOnlyBumpsActivity(t *testing.T) {
	db := newTestDB(t)
	uc := NewApplicationUsecase(repository.NewApplicationRepository(db))
	userID := uuid.New()

	notes := "Referred by Dana"
	application, err := uc.Create(userID, dto.ApplicationCreateRequest{
		Company:        "Acme",
		JobTitle:       "Backend Engineer",
		Notes:          &notes,
		LastActivityAt: strptr("2025-01-01 09:00:00"),
	})
	require.NoError(t, err)
	before := *application.LastActivityAt

	updated, err := uc.Update(userID, application.ID, dto.ApplicationUpdateRequest{
		Status: strptr("interview"),
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusInterview, updated.Status)
	require.NotNil(t, updated.LastActivityAt)
	assert.True(t, updated.LastActivityAt.After(before), "status change bumps last_activity_at")
	assert.WithinDuration(t, time.Now(), *updated.LastActivityAt, 5*time.Second)

	// Untouched fields survive the patch.
	assert.Equal(t, "Acme", updated.Company)
	assert.Equal(t, "Backend Engineer", updated.JobTitle)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, notes, *updated.Notes)
}

func TestUpdateStatusWithExplicitActivityKeepsIt(t *testing.T) {
	uc := NewApplicationUsecase(repository.NewApplicationRepository(newTestDB(t)))
	userID := uuid.New()

	application, err := uc.Create(userID, dto.ApplicationCreateRequest{
		Company:  "Acme",
		JobTitle: "Backend Engineer",
	})
	require.NoError(t, err)

	updated, err := uc.Update(userID, application.ID, dto.ApplicationUpdateRequest{
		Status:         strptr("rejected"),
		LastActivityAt: strptr("2025-03-03T10:00:00Z"),
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusRejected, updated.Status)
	require.NotNil(t, updated.LastActivityAt)
	assert.Equal(t, time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC), updated.LastActivityAt.UTC())
}

func TestUpdateSameStatusDoesNotBumpActivity(t *testing.T) {
	uc := NewApplicationUsecase(repository.NewApplicationRepository(newTestDB(t)))
	userID := uuid.New()

	application, err := uc.Create(userID, dto.ApplicationCreateRequest{
		Company:        "Acme",
		JobTitle:       "Backend Engineer",
		LastActivityAt: strptr("2025-01-01 09:00:00"),
	})
	require.NoError(t, err)
	before := *application.LastActivityAt

	updated, err := uc.Update(userID, application.ID, dto.ApplicationUpdateRequest{
		Status: strptr("applied"),
	})
	require.NoError(t, err)

	require.NotNil(t, updated.LastActivityAt)
	assert.True(t, updated.LastActivityAt.Equal(before))
}

func TestUpdateForbiddenForOtherUsers(t *testing.T) {
	uc := NewApplicationUsecase(repository.NewApplicationRepository(newTestDB(t)))

	application, err := uc.Create(uuid.New(), dto.ApplicationCreateRequest{
		Company:  "Acme",
		JobTitle: "Backend Engineer",
	})
	require.NoError(t, err)

	_, err = uc.Update(uuid.New(), application.ID, dto.ApplicationUpdateRequest{
		Company: strptr("Evil Corp"),
	})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateUnknownApplication(t *testing.T) {
	uc := NewApplicationUsecase(repository.NewApplicationRepository(newTestDB(t)))

	_, err := uc.Update(uuid.New(), uuid.New(), dto.ApplicationUpdateRequest{
		Company: strptr("Acme"),
	})

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
