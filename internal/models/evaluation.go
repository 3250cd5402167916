package models

import "encoding/json"

// Evaluation is one ledger entry. At most one may exist per
// (participant external id, category) pair, no matter which staff member
// submitted it; the UNIQUE index on the evaluations table is the
// authoritative guard.
type Evaluation struct {
	ID            int64    `db:"id" json:"id"`
	ParticipantID string   `db:"participant_id" json:"participant_id"`
	StaffID       int64    `db:"staff_id" json:"staff_id"`
	Category      Category `db:"category" json:"category"`
	Score         float64  `db:"score" json:"score"`
	MaxScore      float64  `db:"max_score" json:"max_score"`
	Criteria      string   `db:"criteria" json:"criteria"` // JSON blob, name -> points
	Comments      string   `db:"comments" json:"comments"`
	EvaluatedAt   int64    `db:"evaluated_at" json:"evaluated_at"`
}

// CriteriaScores decodes the stored per-criterion blob.
func (e *Evaluation) CriteriaScores() (map[string]float64, error) {
	scores := make(map[string]float64)
	if e.Criteria == "" {
		return scores, nil
	}
	if err := json.Unmarshal([]byte(e.Criteria), &scores); err != nil {
		return nil, err
	}
	return scores, nil
}
