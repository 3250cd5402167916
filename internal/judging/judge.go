package judging

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/robotica-events/robojudge/internal/metrics"
	"github.com/robotica-events/robojudge/internal/models"
	"github.com/robotica-events/robojudge/internal/store"
)

// Each criterion is scored on a 10-point scale by convention; the cap is not
// enforced numerically here.
const pointsPerCriterion = 10

var (
	ErrNotFound         = errors.New("participant not found")
	ErrAlreadyEvaluated = errors.New("participant already evaluated in this category")
	ErrNoCriteria       = errors.New("no criteria submitted")
	ErrNotStaff         = errors.New("only staff accounts may evaluate")
)

// CategoryMismatchError names both tracks so the caller can display them.
type CategoryMismatchError struct {
	ParticipantCategory models.Category
	StaffCategory       models.Category
}

func (e *CategoryMismatchError) Error() string {
	return fmt.Sprintf(
		"participant belongs to %s, not your assigned %s",
		e.ParticipantCategory.Label(),
		e.StaffCategory.Label(),
	)
}

// Judge owns the evaluation ledger rules: one evaluation per
// (participant, category), submitted only by staff of that category.
type Judge struct {
	store store.EventStore
}

func NewJudge(eventStore store.EventStore) *Judge {
	return &Judge{store: eventStore}
}

type Submission struct {
	ExternalID string             `json:"participant_id"`
	Criteria   map[string]float64 `json:"criteria"`
	Comments   string             `json:"comments"`
}

// Submit records one evaluation or nothing. The pre-insert existence check
// gives friendly rejections; the UNIQUE (participant_id, category) index
// settles concurrent submissions, surfacing the loser as ErrAlreadyEvaluated.
func (j *Judge) Submit(principal models.Principal, sub Submission) (*models.Evaluation, error) {
	if !principal.IsStaff() {
		return nil, ErrNotStaff
	}
	if len(sub.Criteria) == 0 {
		return nil, ErrNoCriteria
	}

	var total float64
	for _, points := range sub.Criteria {
		total += points
	}
	maxScore := float64(len(sub.Criteria) * pointsPerCriterion)

	participant, err := j.store.GetParticipantByExternalID(sub.ExternalID)
	if err != nil {
		return nil, err
	}
	if participant == nil {
		return nil, ErrNotFound
	}

	if participant.Category != principal.Category {
		return nil, &CategoryMismatchError{
			ParticipantCategory: participant.Category,
			StaffCategory:       principal.Category,
		}
	}

	existing, err := j.store.GetEvaluation(sub.ExternalID, principal.Category)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyEvaluated
	}

	blob, err := json.Marshal(sub.Criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to encode criteria: %w", err)
	}

	eval := &models.Evaluation{
		ParticipantID: sub.ExternalID,
		StaffID:       principal.ID,
		Category:      principal.Category,
		Score:         total,
		MaxScore:      maxScore,
		Criteria:      string(blob),
		Comments:      sub.Comments,
		EvaluatedAt:   time.Now().UTC().Unix(),
	}

	if err := j.store.CreateEvaluation(eval); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrAlreadyEvaluated
		}
		return nil, err
	}

	metrics.EvaluationsTotal.WithLabelValues(string(eval.Category)).Inc()
	metrics.EvaluationScoreHistogram.WithLabelValues(string(eval.Category)).Observe(total)

	logger.Info.Printf(
		"Evaluation recorded: participant=%s staff=%d category=%s score=%.1f/%.0f",
		eval.ParticipantID, eval.StaffID, eval.Category, eval.Score, eval.MaxScore,
	)

	return eval, nil
}

// ProbeResult mirrors what the scanner screen needs before a submission.
type ProbeResult struct {
	Exists              bool            `json:"exists"`
	WrongCategory       bool            `json:"wrong_category,omitempty"`
	ParticipantCategory string          `json:"participant_category,omitempty"`
	StaffCategory       string          `json:"staff_category,omitempty"`
	Name                string          `json:"name,omitempty"`
	Affiliation         string          `json:"affiliation,omitempty"`
	Phone               string          `json:"phone,omitempty"`
	Category            models.Category `json:"category,omitempty"`
	AlreadyEvaluated    bool            `json:"already_evaluated"`
}

// Probe reports whether the identifier can be evaluated by this staff
// member. Read-only.
func (j *Judge) Probe(principal models.Principal, externalID string) (*ProbeResult, error) {
	if !principal.IsStaff() {
		return nil, ErrNotStaff
	}

	participant, err := j.store.GetParticipantByExternalID(externalID)
	if err != nil {
		return nil, err
	}
	if participant == nil {
		return &ProbeResult{Exists: false}, nil
	}

	if participant.Category != principal.Category {
		return &ProbeResult{
			Exists:              true,
			WrongCategory:       true,
			ParticipantCategory: participant.Category.Label(),
			StaffCategory:       principal.Category.Label(),
		}, nil
	}

	existing, err := j.store.GetEvaluation(externalID, principal.Category)
	if err != nil {
		return nil, err
	}

	return &ProbeResult{
		Exists:           true,
		Name:             participant.Name,
		Affiliation:      participant.Affiliation,
		Phone:            participant.Phone,
		Category:         participant.Category,
		AlreadyEvaluated: existing != nil,
	}, nil
}
