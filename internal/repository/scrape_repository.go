package repository

import (
	"time"

	"github.com/fernandwill/jobsphere/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScrapeRepository struct {
	db *gorm.DB
}

func NewScrapeRepository(db *gorm.DB) *ScrapeRepository {
	return &ScrapeRepository{db}
}

func (r *ScrapeRepository) CreateRequest(request *model.ScrapeRequest) error {
	return r.db.Omit(clause.Associations).Create(request).Error
}

func (r *ScrapeRepository) UpdateRequest(request *model.ScrapeRequest) error {
	return r.db.Omit(clause.Associations).Save(request).Error
}

func (r *ScrapeRepository) FindRequestByID(id uuid.UUID) (*model.ScrapeRequest, error) {
	var request model.ScrapeRequest
	err := r.db.First(&request, "id = ?", id).Error
	return &request, err
}

func (r *ScrapeRepository) FindRequestWithResults(id uuid.UUID) (*model.ScrapeRequest, error) {
	var request model.ScrapeRequest
	err := r.db.
		Preload("Results", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&request, "id = ?", id).Error
	return &request, err
}

// ListRecent returns the latest requests with their results preloaded,
// newest queued first.
func (r *ScrapeRepository) ListRecent(limit int) ([]model.ScrapeRequest, error) {
	var requests []model.ScrapeRequest
	err := r.db.
		Preload("Results", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Order("queued_at DESC").
		Limit(limit).
		Find(&requests).Error
	return requests, err
}

func (r *ScrapeRepository) CountResults(requestID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.ScrapeResult{}).
		Where("scrape_request_id = ?", requestID).
		Count(&count).Error
	return count, err
}

// ReplaceResults swaps the request's result set in one transaction:
// delete existing rows, insert the new ones, persist the request's
// terminal fields. Nothing is visible mid-replacement; any failure rolls
// the whole unit back.
func (r *ScrapeRepository) ReplaceResults(request *model.ScrapeRequest, results []model.ScrapeResult) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scrape_request_id = ?", request.ID).Delete(&model.ScrapeResult{}).Error; err != nil {
			return err
		}

		for i := range results {
			results[i].ScrapeRequestID = request.ID
			if err := tx.Create(&results[i]).Error; err != nil {
				return err
			}
		}

		return tx.Omit(clause.Associations).Save(request).Error
	})
}

// MarkStaleFailed fails any request left queued or running by a previous
// process, so restarts never leave rows stuck in a non-terminal state.
func (r *ScrapeRepository) MarkStaleFailed(message string) (int64, error) {
	now := time.Now()
	res := r.db.Model(&model.ScrapeRequest{}).
		Where("status IN ?", []model.ScrapeStatus{model.ScrapeQueued, model.ScrapeRunning}).
		Updates(map[string]any{
			"status":        model.ScrapeFailed,
			"error_message": message,
			"eta":           "Failed",
			"finished_at":   now,
		})
	return res.RowsAffected, res.Error
}
