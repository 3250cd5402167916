package store

import "errors"

type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeSQLite   DatabaseType = "sqlite"
)

// ErrDuplicate is returned when an insert trips a unique constraint:
// a participant external id already registered, a staff email taken, or a
// second evaluation for the same (participant, category) pair.
var ErrDuplicate = errors.New("duplicate record")

// CategoryStat is one row of the per-category score aggregation.
type CategoryStat struct {
	Category string  `db:"category"`
	Count    int64   `db:"count"`
	Avg      float64 `db:"avg_score"`
	Max      float64 `db:"max_score"`
	Min      float64 `db:"min_score"`
}

// RegistryCounts bundles the table totals shown on dashboards.
type RegistryCounts struct {
	Participants int64 `db:"participants"`
	Staff        int64 `db:"staff"`
	Evaluations  int64 `db:"evaluations"`
}
