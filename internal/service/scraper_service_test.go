package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

var scraperTestNow = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

func newTestScraper(baseURL string) *ScraperService {
	return &ScraperService{
		client: resty.New().SetBaseURL(baseURL).SetTimeout(2 * time.Second),
		log:    zap.NewNop(),
		now:    func() time.Time { return scraperTestNow },
	}
}

func TestSearchEmptyKeywordReturnsNothing(t *testing.T) {
	s := newTestScraper("http://127.0.0.1:0")

	postings, err := s.Search(context.Background(), "   ")

	require.NoError(t, err)
	assert.Empty(t, postings)
}

func TestSearchMapsExternalResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fintech", r.URL.Query().Get("search"))
		fmt.Fprint(w, `{"jobs":[
			{"title":"Fintech Analyst","company_name":"Stripe","candidate_required_location":"USA","url":"https://example.com/1","publication_date":"2025-06-10T08:00:00"},
			{"title":"No URL Role","company_name":"Ghost","url":""},
			{"company_name":"Acme","url":"https://example.com/3"}
		]}`)
	}))
	defer srv.Close()

	postings, err := newTestScraper(srv.URL).Search(context.Background(), "fintech")

	require.NoError(t, err)
	require.Len(t, postings, 2, "records without a URL are dropped")

	assert.Equal(t, "Fintech Analyst", postings[0].Title)
	assert.Equal(t, "Stripe", postings[0].Company)
	assert.Equal(t, "USA", postings[0].Location)
	require.NotNil(t, postings[0].PublishedAt)
	assert.Equal(t, "Stripe", gjson.Get(postings[0].Payload, "company_name").String())

	// Missing fields fall back to defaults.
	assert.Equal(t, "Unknown role", postings[1].Title)
	assert.Equal(t, "Remote", postings[1].Location)
}

func TestSearchCapsAtTwentyFiveResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var jobs []string
		for i := 0; i < 40; i++ {
			jobs = append(jobs, fmt.Sprintf(`{"title":"Role %d","url":"https://example.com/%d"}`, i, i))
		}
		fmt.Fprintf(w, `{"jobs":[%s]}`, strings.Join(jobs, ","))
	}))
	defer srv.Close()

	postings, err := newTestScraper(srv.URL).Search(context.Background(), "fintech")

	require.NoError(t, err)
	assert.Len(t, postings, 25)
}

func TestSearchFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	postings, err := newTestScraper(srv.URL).Search(context.Background(), "fintech")

	require.NoError(t, err, "external failures never propagate")
	assertSyntheticDataset(t, postings)
}

func TestSearchFallsBackOnNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	postings, err := newTestScraper(srv.URL).Search(context.Background(), "fintech")

	require.NoError(t, err)
	assertSyntheticDataset(t, postings)
}

func TestSearchFallsBackOnMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>not json</html>`)
	}))
	defer srv.Close()

	postings, err := newTestScraper(srv.URL).Search(context.Background(), "fintech")

	require.NoError(t, err)
	assertSyntheticDataset(t, postings)
}

func assertSyntheticDataset(t *testing.T, postings []Posting) {
	t.Helper()

	require.Len(t, postings, 5)
	for i, posting := range postings {
		assert.NotEmpty(t, posting.URL)
		assert.Contains(t, posting.Title, "Fintech")
		assert.Equal(t, fmt.Sprintf("Fintech Specialist %d", i+1), posting.Title)
		assert.Equal(t, "Fintech Labs", posting.Company)
		require.NotNil(t, posting.PublishedAt)

		confidence := gjson.Get(posting.Payload, "confidence").Float()
		assert.InDelta(t, 0.35+float64(i+1)*0.1, confidence, 0.001)
		assert.Equal(t, "synthetic", gjson.Get(posting.Payload, "source").String())
	}

	// Locations alternate starting with Hybrid - NYC.
	assert.Equal(t, "Hybrid - NYC", postings[0].Location)
	assert.Equal(t, "Remote", postings[1].Location)

	// Published dates descend starting from yesterday.
	assert.Equal(t, scraperTestNow.AddDate(0, 0, -1), *postings[0].PublishedAt)
	for i := 0; i < len(postings)-1; i++ {
		assert.True(t, postings[i].PublishedAt.After(*postings[i+1].PublishedAt))
	}
}
