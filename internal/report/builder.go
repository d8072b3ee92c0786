// Package report derives the dashboard's read-only views from a snapshot
// of one user's applications. Builders are pure: the input slice is never
// mutated and repeated calls return identical results.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/fernandwill/jobsphere/internal/model"
	"github.com/fernandwill/jobsphere/internal/util"
)

type StageJob struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Company   string `json:"company"`
	Status    string `json:"status"`
	AppliedAt string `json:"applied_at"`
}

type Stage struct {
	Stage   string     `json:"stage"`
	Label   string     `json:"label"`
	Summary string     `json:"summary"`
	Count   int        `json:"count"`
	Jobs    []StageJob `json:"jobs"`
}

type ActivityItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

type TimelineItem struct {
	ID        string  `json:"id"`
	Timestamp *string `json:"timestamp"`
	Summary   string  `json:"summary"`
	Status    string  `json:"status"`
	Company   string  `json:"company"`
	Details   *string `json:"details"`
}

type Counts struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
}

const stageJobLimit = 4

type Builder struct {
	applications []model.Application
	now          func() time.Time
}

func NewBuilder(applications []model.Application) *Builder {
	return &Builder{applications: applications, now: time.Now}
}

// Pipeline groups applications into the five fixed stages. Each stage
// carries its total count and at most the four most recently active jobs.
func (b *Builder) Pipeline() []Stage {
	now := b.now()
	stages := make([]Stage, 0, len(model.ApplicationStatuses()))

	for _, status := range model.ApplicationStatuses() {
		var items []model.Application
		for _, app := range b.applications {
			if app.Status == status {
				items = append(items, app)
			}
		}
		sortByActivityDesc(items)

		jobs := make([]StageJob, 0, stageJobLimit)
		for _, app := range items {
			if len(jobs) == stageJobLimit {
				break
			}
			appliedAt := app.AppliedAt
			if appliedAt == nil {
				created := app.CreatedAt
				appliedAt = &created
			}
			jobs = append(jobs, StageJob{
				ID:        app.ID.String(),
				Role:      app.JobTitle,
				Company:   app.Company,
				Status:    status.Label(),
				AppliedAt: util.HumanTime(appliedAt, now),
			})
		}

		stages = append(stages, Stage{
			Stage:   string(status),
			Label:   status.Label(),
			Summary: status.Summary(),
			Count:   len(items),
			Jobs:    jobs,
		})
	}

	return stages
}

// Activity returns the most recently active applications as a humanized
// feed. The description falls back to a status line when notes are empty.
func (b *Builder) Activity(limit int) []ActivityItem {
	now := b.now()
	sorted := b.sortedByActivity()
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	items := make([]ActivityItem, 0, len(sorted))
	for _, app := range sorted {
		description := fmt.Sprintf("%s status updated to %s", app.Company, app.Status.Label())
		if app.Notes != nil && *app.Notes != "" {
			description = *app.Notes
		}

		timestamp := app.LastActivityAt
		if timestamp == nil {
			updated := app.UpdatedAt
			timestamp = &updated
		}

		items = append(items, ActivityItem{
			Title:       app.JobTitle,
			Description: description,
			Timestamp:   util.HumanTime(timestamp, now),
		})
	}
	return items
}

// Timeline is the richer variant of Activity used by the dashboard meta
// block: ISO timestamps and raw status values instead of humanized text.
func (b *Builder) Timeline(limit int) []TimelineItem {
	sorted := b.sortedByActivity()
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	items := make([]TimelineItem, 0, len(sorted))
	for _, app := range sorted {
		var timestamp *string
		if at := app.ActivityTime(); !at.IsZero() {
			iso := at.Format(time.RFC3339)
			timestamp = &iso
		}

		items = append(items, TimelineItem{
			ID:        app.ID.String(),
			Timestamp: timestamp,
			Summary:   fmt.Sprintf("%s — %s", app.Company, app.JobTitle),
			Status:    string(app.Status),
			Company:   app.Company,
			Details:   app.Notes,
		})
	}
	return items
}

// Counts tallies applications per status, zero-filled for empty stages.
func (b *Builder) Counts() Counts {
	byStatus := make(map[string]int, len(model.ApplicationStatuses()))
	for _, status := range model.ApplicationStatuses() {
		byStatus[string(status)] = 0
	}
	for _, app := range b.applications {
		byStatus[string(app.Status)]++
	}
	return Counts{
		Total:    len(b.applications),
		ByStatus: byStatus,
	}
}

func (b *Builder) sortedByActivity() []model.Application {
	sorted := make([]model.Application, len(b.applications))
	copy(sorted, b.applications)
	sortByActivityDesc(sorted)
	return sorted
}

func sortByActivityDesc(apps []model.Application) {
	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].ActivityTime().After(apps[j].ActivityTime())
	})
}
