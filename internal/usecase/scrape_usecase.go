package usecase

import (
	"context"
	"time"

	"github.com/fernandwill/jobsphere/internal/model"
	"github.com/fernandwill/jobsphere/internal/repository"
	"github.com/fernandwill/jobsphere/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScrapeUsecase owns the scrape job lifecycle. Submit persists a queued
// request and hands its id to the worker; Run drives the request through
// running into succeeded or failed. State lives entirely in the persisted
// row, never in worker memory.
type ScrapeUsecase struct {
	scrapeRepo *repository.ScrapeRepository
	scraper    service.ScraperServiceInterface
	log        *zap.Logger
	jobs       chan uuid.UUID
}

func NewScrapeUsecase(scrapeRepo *repository.ScrapeRepository, scraper service.ScraperServiceInterface, log *zap.Logger) *ScrapeUsecase {
	return &ScrapeUsecase{
		scrapeRepo: scrapeRepo,
		scraper:    scraper,
		log:        log,
		jobs:       make(chan uuid.UUID, 64),
	}
}

// StartWorker launches the background worker that executes queued jobs
// one at a time until the context is cancelled.
func (uc *ScrapeUsecase) StartWorker(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case id := <-uc.jobs:
				if err := uc.Run(ctx, id); err != nil {
					uc.log.Error("scrape job failed",
						zap.String("request_id", id.String()),
						zap.Error(err),
					)
				}
			}
		}
	}()
}

// Submit creates a queued scrape request and dispatches it. The caller
// gets the persisted record back immediately; execution is asynchronous.
func (uc *ScrapeUsecase) Submit(keyword string) (*model.ScrapeRequest, error) {
	request := &model.ScrapeRequest{
		Keyword: keyword,
		Status:  model.ScrapeQueued,
		ETA:     "Under a minute",
	}
	if err := uc.scrapeRepo.CreateRequest(request); err != nil {
		return nil, err
	}

	select {
	case uc.jobs <- request.ID:
	default:
		// Queue full; run directly rather than blocking the request.
		go func() {
			if err := uc.Run(context.Background(), request.ID); err != nil {
				uc.log.Error("scrape job failed",
					zap.String("request_id", request.ID.String()),
					zap.Error(err),
				)
			}
		}()
	}

	return request, nil
}

// Run executes one scrape job: queued -> running -> succeeded|failed.
// Results are replaced atomically; any failure from the fetch or the
// transactional write lands the request in failed with the error message.
func (uc *ScrapeUsecase) Run(ctx context.Context, id uuid.UUID) error {
	request, err := uc.scrapeRepo.FindRequestByID(id)
	if err != nil {
		return err
	}
	startedAt := time.Now()
	request.Status = model.ScrapeRunning
	request.StartedAt = &startedAt
	if err := uc.scrapeRepo.UpdateRequest(request); err != nil {
		return uc.fail(id, err)
	}

	postings, err := uc.scraper.Search(ctx, request.Keyword)
	if err != nil {
		return uc.fail(id, err)
	}

	results := make([]model.ScrapeResult, 0, len(postings))
	for _, posting := range postings {
		results = append(results, newScrapeResult(posting))
	}

	finishedAt := time.Now()
	request.Status = model.ScrapeSucceeded
	request.ResultsCount = len(results)
	request.FinishedAt = &finishedAt
	if len(results) > 0 {
		request.ETA = "Complete"
	} else {
		request.ETA = "No roles found"
	}

	if err := uc.scrapeRepo.ReplaceResults(request, results); err != nil {
		return uc.fail(id, err)
	}

	uc.log.Info("scrape job succeeded",
		zap.String("request_id", id.String()),
		zap.Int("results", len(results)),
	)
	return nil
}

// Recent lists the latest scrape requests with results preloaded.
func (uc *ScrapeUsecase) Recent(limit int) ([]model.ScrapeRequest, error) {
	return uc.scrapeRepo.ListRecent(limit)
}

// Get loads one scrape request with its full result set.
func (uc *ScrapeUsecase) Get(id uuid.UUID) (*model.ScrapeRequest, error) {
	return uc.scrapeRepo.FindRequestWithResults(id)
}

// RecoverStale fails requests left queued or running by a previous
// process. Called once at startup before the worker begins.
func (uc *ScrapeUsecase) RecoverStale() error {
	count, err := uc.scrapeRepo.MarkStaleFailed("interrupted by server restart")
	if err != nil {
		return err
	}
	if count > 0 {
		uc.log.Warn("failed stale scrape requests from previous run", zap.Int64("count", count))
	}
	return nil
}

// fail reloads the request from the store so only the failure fields
// change, then records the terminal failed state.
func (uc *ScrapeUsecase) fail(id uuid.UUID, cause error) error {
	request, err := uc.scrapeRepo.FindRequestByID(id)
	if err != nil {
		uc.log.Error("could not load scrape request to mark failed",
			zap.String("request_id", id.String()),
			zap.Error(err),
		)
		return cause
	}

	finishedAt := time.Now()
	message := cause.Error()
	request.Status = model.ScrapeFailed
	request.FinishedAt = &finishedAt
	request.ErrorMessage = &message
	request.ETA = "Failed"

	if err := uc.scrapeRepo.UpdateRequest(request); err != nil {
		uc.log.Error("could not mark scrape request failed",
			zap.String("request_id", id.String()),
			zap.Error(err),
		)
	}
	return cause
}

func newScrapeResult(posting service.Posting) model.ScrapeResult {
	title := posting.Title
	if title == "" {
		title = "Unknown role"
	}
	payload := posting.Payload
	if payload == "" {
		payload = "{}"
	}

	result := model.ScrapeResult{
		Title:       title,
		URL:         posting.URL,
		PublishedAt: posting.PublishedAt,
		Payload:     payload,
	}
	if posting.Company != "" {
		company := posting.Company
		result.Company = &company
	}
	if posting.Location != "" {
		location := posting.Location
		result.Location = &location
	}
	return result
}
