package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/fernandwill/jobsphere/internal/cache"
	"github.com/fernandwill/jobsphere/internal/config"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Posting is one discovered job posting as returned by the fetch adapter.
type Posting struct {
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"published_at"`
	Payload     string     `json:"payload"`
}

type ScraperServiceInterface interface {
	Search(ctx context.Context, keyword string) ([]Posting, error)
}

const (
	externalResultCap = 25
	fallbackCount     = 5
	requestTimeout    = 15 * time.Second
)

// ScraperService fetches postings from the external job board. External
// failures never escape: any error on the remote path is absorbed into a
// deterministic synthetic dataset derived from the keyword.
type ScraperService struct {
	client *resty.Client
	cache  *cache.Cache
	log    *zap.Logger
	now    func() time.Time
}

func NewScraperService(scrapeCache *cache.Cache, log *zap.Logger) *ScraperService {
	client := resty.New().
		SetBaseURL(config.LoadScraperConfig().BaseURL).
		SetTimeout(requestTimeout)

	return &ScraperService{
		client: client,
		cache:  scrapeCache,
		log:    log,
		now:    time.Now,
	}
}

// Search returns up to 25 postings matching the keyword. An empty keyword
// (after trimming) yields zero results. The error return exists only for
// the interface contract; this implementation always returns nil.
func (s *ScraperService) Search(ctx context.Context, keyword string) ([]Posting, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, nil
	}

	var cached []Posting
	if s.cache.GetJSON(ctx, keyword, &cached) {
		return cached, nil
	}

	postings, err := s.fetchExternal(ctx, keyword)
	if err != nil {
		s.log.Warn("scrape request failed, falling back to synthetic dataset",
			zap.String("keyword", keyword),
			zap.Error(err),
		)
		return s.fallback(keyword), nil
	}

	if err := s.cache.SetJSON(ctx, keyword, postings); err != nil {
		s.log.Warn("failed to cache scrape results", zap.String("keyword", keyword), zap.Error(err))
	}

	return postings, nil
}

func (s *ScraperService) fetchExternal(ctx context.Context, keyword string) ([]Posting, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("search", keyword).
		Get("")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("job board responded with status %d", resp.StatusCode())
	}

	body := string(resp.Body())
	if !gjson.Valid(body) {
		return nil, fmt.Errorf("job board returned malformed JSON")
	}

	var postings []Posting
	for _, job := range gjson.Get(body, "jobs").Array() {
		if len(postings) == externalResultCap {
			break
		}

		url := job.Get("url").String()
		if url == "" {
			continue
		}

		title := job.Get("title").String()
		if title == "" {
			title = "Unknown role"
		}
		company := job.Get("company_name").String()
		if company == "" {
			company = "Unknown company"
		}
		location := job.Get("candidate_required_location").String()
		if location == "" {
			location = "Remote"
		}

		postings = append(postings, Posting{
			Title:       title,
			Company:     company,
			Location:    location,
			URL:         url,
			PublishedAt: parsePublishedAt(job.Get("publication_date").String()),
			Payload:     job.Raw,
		})
	}

	return postings, nil
}

func parsePublishedAt(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// fallback synthesizes five placeholder postings from the keyword with
// descending publication dates starting from yesterday.
func (s *ScraperService) fallback(keyword string) []Posting {
	now := s.now()
	postings := make([]Posting, 0, fallbackCount)

	for i := 1; i <= fallbackCount; i++ {
		location := "Hybrid - NYC"
		if i%2 == 0 {
			location = "Remote"
		}
		publishedAt := now.AddDate(0, 0, -i)

		postings = append(postings, Posting{
			Title:       fmt.Sprintf("%s Specialist %d", ucfirst(keyword), i),
			Company:     fmt.Sprintf("%s Labs", ucfirst(keyword)),
			Location:    location,
			URL:         fmt.Sprintf("https://jobs.example.com/%s/%d", strings.ToLower(keyword), i),
			PublishedAt: &publishedAt,
			Payload:     fmt.Sprintf(`{"source":"synthetic","confidence":%.2f}`, 0.35+float64(i)*0.1),
		})
	}

	return postings
}

func ucfirst(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
