package dto

import (
	"encoding/json"
	"time"

	"github.com/fernandwill/jobsphere/internal/model"
	"github.com/fernandwill/jobsphere/internal/util"
)

// ScrapeCreateRequest is the POST /api/scrapes payload.
type ScrapeCreateRequest struct {
	Keyword string `json:"keyword" validate:"required,max=120"`
}

type ScrapeResultDTO struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Company     *string         `json:"company"`
	Location    *string         `json:"location"`
	URL         string          `json:"url"`
	PublishedAt *string         `json:"publishedAt"`
	Payload     json.RawMessage `json:"payload"`
}

type ScrapeRequestDTO struct {
	ID         string            `json:"id"`
	Keyword    string            `json:"keyword"`
	Company    string            `json:"company"`
	Status     string            `json:"status"`
	RoleCount  int               `json:"roleCount"`
	QueuedAt   *string           `json:"queuedAt"`
	StartedAt  *string           `json:"startedAt"`
	FinishedAt *string           `json:"finishedAt"`
	ETA        string            `json:"eta"`
	Error      *string           `json:"error"`
	Results    []ScrapeResultDTO `json:"results"`
}

func NewScrapeResultDTO(result model.ScrapeResult) ScrapeResultDTO {
	payload := result.Payload
	if payload == "" {
		payload = "{}"
	}

	return ScrapeResultDTO{
		ID:          result.ID.String(),
		Title:       result.Title,
		Company:     result.Company,
		Location:    result.Location,
		URL:         result.URL,
		PublishedAt: isoTime(result.PublishedAt),
		Payload:     json.RawMessage(payload),
	}
}

// NewScrapeRequestDTO maps a request to its wire shape. resultLimit caps
// the embedded results; negative means all, 0 omits them entirely.
func NewScrapeRequestDTO(request model.ScrapeRequest, resultLimit int) ScrapeRequestDTO {
	eta := request.ETA
	if eta == "" {
		eta = "Pending"
	}

	out := ScrapeRequestDTO{
		ID:         request.ID.String(),
		Keyword:    request.Keyword,
		Company:    util.Headline(request.Keyword),
		Status:     string(request.Status),
		RoleCount:  request.ResultsCount,
		QueuedAt:   isoTime(request.QueuedAt),
		StartedAt:  isoTime(request.StartedAt),
		FinishedAt: isoTime(request.FinishedAt),
		ETA:        eta,
		Error:      request.ErrorMessage,
	}

	if resultLimit != 0 {
		results := request.Results
		if resultLimit > 0 && len(results) > resultLimit {
			results = results[:resultLimit]
		}
		out.Results = make([]ScrapeResultDTO, 0, len(results))
		for _, result := range results {
			out.Results = append(out.Results, NewScrapeResultDTO(result))
		}
	}

	return out
}

func isoTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	iso := t.Format(time.RFC3339)
	return &iso
}
