package reporting

import (
	"errors"
	"fmt"
	"time"

	"github.com/robotica-events/robojudge/internal/models"
	"github.com/robotica-events/robojudge/internal/store"
)

const defaultTimestampFormat = "2006-01-02 15:04:05"

var ErrUnknownCategory = errors.New("unknown category filter")

// Reporter aggregates the evaluation ledger for dashboards and exports.
type Reporter struct {
	store           store.EventStore
	timestampFormat string
}

func NewReporter(eventStore store.EventStore, timestampFormat string) *Reporter {
	if timestampFormat == "" {
		timestampFormat = defaultTimestampFormat
	}
	return &Reporter{
		store:           eventStore,
		timestampFormat: timestampFormat,
	}
}

type CategorySummary struct {
	Count int64   `json:"count"`
	Avg   float64 `json:"avg"`
	Max   float64 `json:"max"`
	Min   float64 `json:"min"`
}

// CategoryStats returns {count, avg, max, min} of total score for every
// fixed category. Categories without evaluations report all zeroes.
func (r *Reporter) CategoryStats() (map[models.Category]CategorySummary, error) {
	rows, err := r.store.FetchCategoryStats()
	if err != nil {
		return nil, err
	}

	stats := make(map[models.Category]CategorySummary, len(models.Categories))
	for _, c := range models.Categories {
		stats[c] = CategorySummary{}
	}
	for _, row := range rows {
		c := models.Category(row.Category)
		if !c.Valid() {
			continue
		}
		stats[c] = CategorySummary{
			Count: row.Count,
			Avg:   row.Avg,
			Max:   row.Max,
			Min:   row.Min,
		}
	}

	return stats, nil
}

// Evaluations lists ledger entries, optionally filtered to one category.
// Filter "all" (or empty) means no filter.
func (r *Reporter) Evaluations(filter string) ([]models.Evaluation, error) {
	if filter == "" || filter == "all" {
		return r.store.ListEvaluations("")
	}

	category := models.Category(filter)
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, filter)
	}
	return r.store.ListEvaluations(category)
}

type CategoryBreakdown struct {
	Participants int64 `json:"participants"`
	Staff        int64 `json:"staff"`
	Evaluations  int64 `json:"evaluations"`
}

type AdminDashboard struct {
	TotalParticipants int64                                 `json:"total_participants"`
	TotalStaff        int64                                 `json:"total_staff"`
	TotalEvaluations  int64                                 `json:"total_evaluations"`
	Categories        map[models.Category]CategoryBreakdown `json:"categories"`
}

func (r *Reporter) FetchAdminDashboard() (*AdminDashboard, error) {
	totals, err := r.store.FetchRegistryCounts()
	if err != nil {
		return nil, err
	}

	dashboard := &AdminDashboard{
		TotalParticipants: totals.Participants,
		TotalStaff:        totals.Staff,
		TotalEvaluations:  totals.Evaluations,
		Categories:        make(map[models.Category]CategoryBreakdown, len(models.Categories)),
	}

	for _, c := range models.Categories {
		counts, err := r.store.FetchCategoryCounts(c)
		if err != nil {
			return nil, err
		}
		dashboard.Categories[c] = CategoryBreakdown{
			Participants: counts.Participants,
			Staff:        counts.Staff,
			Evaluations:  counts.Evaluations,
		}
	}

	return dashboard, nil
}

type StaffDashboard struct {
	Category               models.Category     `json:"category"`
	TotalEvaluated         int                 `json:"total_evaluated"`
	ParticipantsInCategory int64               `json:"participants_in_category"`
	Evaluations            []models.Evaluation `json:"evaluations"`
}

func (r *Reporter) FetchStaffDashboard(principal models.Principal) (*StaffDashboard, error) {
	evals, err := r.store.ListEvaluationsByStaff(principal.ID)
	if err != nil {
		return nil, err
	}

	counts, err := r.store.FetchCategoryCounts(principal.Category)
	if err != nil {
		return nil, err
	}

	return &StaffDashboard{
		Category:               principal.Category,
		TotalEvaluated:         len(evals),
		ParticipantsInCategory: counts.Participants,
		Evaluations:            evals,
	}, nil
}

func (r *Reporter) formatTimestamp(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(r.timestampFormat)
}
