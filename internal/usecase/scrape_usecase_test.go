package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fernandwill/jobsphere/internal/model"
	"github.com/fernandwill/jobsphere/internal/repository"
	"github.com/fernandwill/jobsphere/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Application{},
		&model.ScrapeRequest{},
		&model.ScrapeResult{},
	))
	return db
}

type stubScraper struct {
	postings []service.Posting
	err      error
}

func (s *stubScraper) Search(ctx context.Context, keyword string) ([]service.Posting, error) {
	return s.postings, s.err
}

func testPostings(n int) []service.Posting {
	now := time.Now()
	postings := make([]service.Posting, 0, n)
	for i := 0; i < n; i++ {
		published := now.AddDate(0, 0, -i)
		postings = append(postings, service.Posting{
			Title:       "Fintech Engineer",
			Company:     "Stripe",
			Location:    "Remote",
			URL:         "https://example.com/" + uuid.NewString(),
			PublishedAt: &published,
			Payload:     `{"source":"remotive"}`,
		})
	}
	return postings
}

func TestSubmitCreatesQueuedRequest(t *testing.T) {
	repo := repository.NewScrapeRepository(newTestDB(t))
	uc := NewScrapeUsecase(repo, &stubScraper{}, zap.NewNop())

	request, err := uc.Submit("fintech")

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, request.ID)
	assert.Equal(t, model.ScrapeQueued, request.Status)
	assert.Equal(t, "Under a minute", request.ETA)
	assert.NotNil(t, request.QueuedAt)
	assert.Equal(t, 0, request.ResultsCount)
}

func TestRunSucceedsWithFetchedRecords(t *testing.T) {
	repo := repository.NewScrapeRepository(newTestDB(t))
	uc := NewScrapeUsecase(repo, &stubScraper{postings: testPostings(3)}, zap.NewNop())

	request, err := uc.Submit("fintech")
	require.NoError(t, err)
	require.NoError(t, uc.Run(context.Background(), request.ID))

	loaded, err := repo.FindRequestWithResults(request.ID)
	require.NoError(t, err)

	assert.Equal(t, model.ScrapeSucceeded, loaded.Status)
	assert.Equal(t, 3, loaded.ResultsCount)
	assert.Len(t, loaded.Results, 3)
	assert.Equal(t, "Complete", loaded.ETA)
	assert.NotNil(t, loaded.StartedAt)
	assert.NotNil(t, loaded.FinishedAt)
	assert.Nil(t, loaded.ErrorMessage)
}

func TestRunWithNoRecords(t *testing.T) {
	repo := repository.NewScrapeRepository(newTestDB(t))
	uc := NewScrapeUsecase(repo, &stubScraper{}, zap.NewNop())

	request, err := uc.Submit("fintech")
	require.NoError(t, err)
	require.NoError(t, uc.Run(context.Background(), request.ID))

	loaded, err := repo.FindRequestByID(request.ID)
	require.NoError(t, err)

	assert.Equal(t, model.ScrapeSucceeded, loaded.Status)
	assert.Equal(t, 0, loaded.ResultsCount)
	assert.Equal(t, "No roles found", loaded.ETA)
}

func TestRunFailsWhenFetchErrors(t *testing.T) {
	repo := repository.NewScrapeRepository(newTestDB(t))
	uc := NewScrapeUsecase(repo, &stubScraper{err: errors.New("fetch exploded")}, zap.NewNop())

	request, err := uc.Submit("fintech")
	require.NoError(t, err)
	require.Error(t, uc.Run(context.Background(), request.ID))

	loaded, err := repo.FindRequestByID(request.ID)
	require.NoError(t, err)

	assert.Equal(t, model.ScrapeFailed, loaded.Status)
	require.NotNil(t, loaded.ErrorMessage)
	assert.Equal(t, "fetch exploded", *loaded.ErrorMessage)
	assert.Equal(t, 0, loaded.ResultsCount, "results_count stays unchanged on failure")
	assert.Equal(t, "Failed", loaded.ETA)
	assert.NotNil(t, loaded.FinishedAt)

	count, err := repo.CountResults(request.ID)
	require.NoError(t, err)
	assert.Zero(t, count, "no result rows are created on failure")
}

func TestRunReplacesPriorResults(t *testing.T) {
	repo := repository.NewScrapeRepository(newTestDB(t))
	scraper := &stubScraper{postings: testPostings(3)}
	uc := NewScrapeUsecase(repo, scraper, zap.NewNop())

	request, err := uc.Submit("fintech")
	require.NoError(t, err)
	require.NoError(t, uc.Run(context.Background(), request.ID))

	first, err := repo.FindRequestWithResults(request.ID)
	require.NoError(t, err)
	require.Len(t, first.Results, 3)

	oldIDs := map[uuid.UUID]bool{}
	for _, result := range first.Results {
		oldIDs[result.ID] = true
	}

	scraper.postings = testPostings(2)
	require.NoError(t, uc.Run(context.Background(), request.ID))

	second, err := repo.FindRequestWithResults(request.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, second.ResultsCount)
	require.Len(t, second.Results, 2, "no duplicate or residual rows")
	for _, result := range second.Results {
		assert.False(t, oldIDs[result.ID], "old result rows must be gone")
	}
}

func TestRunDefaultsMissingPostingFields(t *testing.T) {
	repo := repository.NewScrapeRepository(newTestDB(t))
	scraper := &stubScraper{postings: []service.Posting{{URL: "https://example.com/bare"}}}
	uc := NewScrapeUsecase(repo, scraper, zap.NewNop())

	request, err := uc.Submit("fintech")
	require.NoError(t, err)
	require.NoError(t, uc.Run(context.Background(), request.ID))

	loaded, err := repo.FindRequestWithResults(request.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Results, 1)

	result := loaded.Results[0]
	assert.Equal(t, "Unknown role", result.Title)
	assert.Equal(t, "{}", result.Payload)
	assert.Nil(t, result.Company)
	assert.Nil(t, result.Location)
}

func TestWorkerExecutesSubmittedJobs(t *testing.T) {
	repo := repository.NewScrapeRepository(newTestDB(t))
	uc := NewScrapeUsecase(repo, &stubScraper{postings: testPostings(2)}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	uc.StartWorker(ctx)

	request, err := uc.Submit("fintech")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		loaded, err := repo.FindRequestByID(request.ID)
		return err == nil && loaded.Status.Terminal()
	}, 5*time.Second, 10*time.Millisecond)

	loaded, err := repo.FindRequestByID(request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ScrapeSucceeded, loaded.Status)
	assert.Equal(t, 2, loaded.ResultsCount)
}

func TestRecoverStaleFailsNonTerminalRequests(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewScrapeRepository(db)
	uc := NewScrapeUsecase(repo, &stubScraper{}, zap.NewNop())

	queued := &model.ScrapeRequest{Keyword: "one", Status: model.ScrapeQueued}
	running := &model.ScrapeRequest{Keyword: "two", Status: model.ScrapeRunning}
	done := &model.ScrapeRequest{Keyword: "three", Status: model.ScrapeSucceeded, ETA: "Complete"}
	for _, request := range []*model.ScrapeRequest{queued, running, done} {
		require.NoError(t, repo.CreateRequest(request))
	}

	require.NoError(t, uc.RecoverStale())

	for _, id := range []uuid.UUID{queued.ID, running.ID} {
		loaded, err := repo.FindRequestByID(id)
		require.NoError(t, err)
		assert.Equal(t, model.ScrapeFailed, loaded.Status)
		require.NotNil(t, loaded.ErrorMessage)
		assert.Equal(t, "interrupted by server restart", *loaded.ErrorMessage)
		assert.Equal(t, "Failed", loaded.ETA)
	}

	doneLoaded, err := repo.FindRequestByID(done.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ScrapeSucceeded, doneLoaded.Status)
}
