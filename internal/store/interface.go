package store

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/robotica-events/robojudge/internal/models"
)

type EventStore interface {
	Close() error
	ApplyMigrations(dir string) error
	Ping() error

	CountAdmins() (int64, error)
	CreateAdmin(admin *models.Admin) error
	GetAdminByEmail(email string) (*models.Admin, error)

	CreateStaff(staff *models.Staff) error
	GetStaffByEmail(email string) (*models.Staff, error)
	GetStaffByID(id int64) (*models.Staff, error)
	ListStaff() ([]models.Staff, error)
	DeleteStaff(id int64) error

	CreateParticipants(ps []*models.Participant) (inserted, duplicates int, err error)
	GetParticipantByExternalID(externalID string) (*models.Participant, error)
	ListParticipants() ([]models.Participant, error)
	DeleteParticipant(id int64) error

	CreateEvaluation(e *models.Evaluation) error
	GetEvaluation(participantID string, category models.Category) (*models.Evaluation, error)
	ListEvaluations(category models.Category) ([]models.Evaluation, error)
	ListEvaluationsByStaff(staffID int64) ([]models.Evaluation, error)

	FetchCategoryStats() ([]CategoryStat, error)
	FetchRegistryCounts() (*RegistryCounts, error)
	FetchCategoryCounts(category models.Category) (*RegistryCounts, error)
}

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB *sqlx.DB
	// Converter rewrites ? placeholders for the target dialect
	Converter func(string) string
	// IsDuplicate reports whether a driver error is a unique-constraint hit
	IsDuplicate func(error) bool
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

func (s *BaseStore) Ping() error {
	return s.DB.Ping()
}

// ApplyMigrations applies SQL migrations from a directory, translating dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(fmt.Sprintf("%s/%s", dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

func (s *BaseStore) CountAdmins() (int64, error) {
	var count int64
	if err := s.DB.Get(&count, "SELECT COUNT(*) FROM admins"); err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}

func (s *BaseStore) CreateAdmin(admin *models.Admin) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO admins (email, password_hash)
		VALUES (:email, :password_hash)
	`, admin)
	if err != nil {
		if s.IsDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

func (s *BaseStore) GetAdminByEmail(email string) (*models.Admin, error) {
	var admin models.Admin
	query := s.Converter(`
		SELECT id, email, password_hash
		FROM admins
		WHERE email = ?
	`)

	err := s.DB.Get(&admin, query, email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &admin, nil
}

func (s *BaseStore) CreateStaff(staff *models.Staff) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO staff (name, email, password_hash, category, created_at)
		VALUES (:name, :email, :password_hash, :category, :created_at)
	`, staff)
	if err != nil {
		if s.IsDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create staff: %w", err)
	}
	return nil
}

func (s *BaseStore) GetStaffByEmail(email string) (*models.Staff, error) {
	var staff models.Staff
	query := s.Converter(`
		SELECT id, name, email, password_hash, category, created_at
		FROM staff
		WHERE email = ?
	`)

	err := s.DB.Get(&staff, query, email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staff by email: %w", err)
	}
	return &staff, nil
}

func (s *BaseStore) GetStaffByID(id int64) (*models.Staff, error) {
	var staff models.Staff
	query := s.Converter(`
		SELECT id, name, email, password_hash, category, created_at
		FROM staff
		WHERE id = ?
	`)

	err := s.DB.Get(&staff, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	return &staff, nil
}

func (s *BaseStore) ListStaff() ([]models.Staff, error) {
	var staff []models.Staff
	err := s.DB.Select(&staff, `
		SELECT id, name, email, password_hash, category, created_at
		FROM staff
		ORDER BY category, name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}

func (s *BaseStore) DeleteStaff(id int64) error {
	query := s.Converter(`DELETE FROM staff WHERE id = ?`)
	if _, err := s.DB.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete staff: %w", err)
	}
	return nil
}

const insertParticipantSQL = `
	INSERT INTO participants (external_id, name, affiliation, phone, category, qr_code)
	VALUES (:external_id, :name, :affiliation, :phone, :category, :qr_code)
`

// CreateParticipants inserts a batch inside one transaction. When the batch
// insert trips a constraint the transaction is rolled back and the rows are
// retried one by one, so a single bad row does not discard its batch.
func (s *BaseStore) CreateParticipants(ps []*models.Participant) (int, int, error) {
	if len(ps) == 0 {
		return 0, 0, nil
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin batch: %w", err)
	}

	batchOK := true
	for _, p := range ps {
		if _, err := tx.NamedExec(insertParticipantSQL, p); err != nil {
			batchOK = false
			break
		}
	}

	if batchOK {
		if err := tx.Commit(); err != nil {
			return 0, 0, fmt.Errorf("failed to commit batch: %w", err)
		}
		return len(ps), 0, nil
	}

	if err := tx.Rollback(); err != nil {
		return 0, 0, fmt.Errorf("failed to roll back batch: %w", err)
	}

	var inserted, duplicates int
	for _, p := range ps {
		_, err := s.DB.NamedExec(insertParticipantSQL, p)
		switch {
		case err == nil:
			inserted++
		case s.IsDuplicate(err):
			duplicates++
		default:
			logger.Error.Printf("Failed to insert participant %s: %v", p.ExternalID, err)
		}
	}
	return inserted, duplicates, nil
}

func (s *BaseStore) GetParticipantByExternalID(externalID string) (*models.Participant, error) {
	var p models.Participant
	query := s.Converter(`
		SELECT id, external_id, name, affiliation, phone, category, qr_code
		FROM participants
		WHERE external_id = ?
	`)

	err := s.DB.Get(&p, query, externalID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return &p, nil
}

func (s *BaseStore) ListParticipants() ([]models.Participant, error) {
	var ps []models.Participant
	err := s.DB.Select(&ps, `
		SELECT id, external_id, name, affiliation, phone, category, qr_code
		FROM participants
		ORDER BY external_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return ps, nil
}

func (s *BaseStore) DeleteParticipant(id int64) error {
	query := s.Converter(`DELETE FROM participants WHERE id = ?`)
	if _, err := s.DB.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	return nil
}

func (s *BaseStore) CreateEvaluation(e *models.Evaluation) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO evaluations (participant_id, staff_id, category, score, max_score, criteria, comments, evaluated_at)
		VALUES (:participant_id, :staff_id, :category, :score, :max_score, :criteria, :comments, :evaluated_at)
	`, e)
	if err != nil {
		if s.IsDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create evaluation: %w", err)
	}
	return nil
}

func (s *BaseStore) GetEvaluation(participantID string, category models.Category) (*models.Evaluation, error) {
	var e models.Evaluation
	query := s.Converter(`
		SELECT id, participant_id, staff_id, category, score, max_score, criteria, comments, evaluated_at
		FROM evaluations
		WHERE participant_id = ?
		AND category = ?
	`)

	err := s.DB.Get(&e, query, participantID, category)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	return &e, nil
}

func (s *BaseStore) ListEvaluations(category models.Category) ([]models.Evaluation, error) {
	var evals []models.Evaluation
	var err error

	if category == "" {
		err = s.DB.Select(&evals, `
			SELECT id, participant_id, staff_id, category, score, max_score, criteria, comments, evaluated_at
			FROM evaluations
			ORDER BY id
		`)
	} else {
		query := s.Converter(`
			SELECT id, participant_id, staff_id, category, score, max_score, criteria, comments, evaluated_at
			FROM evaluations
			WHERE category = ?
			ORDER BY id
		`)
		err = s.DB.Select(&evals, query, category)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}

	return evals, nil
}

func (s *BaseStore) ListEvaluationsByStaff(staffID int64) ([]models.Evaluation, error) {
	var evals []models.Evaluation
	query := s.Converter(`
		SELECT id, participant_id, staff_id, category, score, max_score, criteria, comments, evaluated_at
		FROM evaluations
		WHERE staff_id = ?
		ORDER BY id
	`)

	if err := s.DB.Select(&evals, query, staffID); err != nil {
		return nil, fmt.Errorf("failed to list staff evaluations: %w", err)
	}
	return evals, nil
}

func (s *BaseStore) FetchCategoryStats() ([]CategoryStat, error) {
	var stats []CategoryStat
	err := s.DB.Select(&stats, `
		SELECT
			category,
			COUNT(*) as count,
			AVG(score) as avg_score,
			MAX(score) as max_score,
			MIN(score) as min_score
		FROM evaluations
		GROUP BY category
		ORDER BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category stats: %w", err)
	}
	return stats, nil
}

func (s *BaseStore) FetchRegistryCounts() (*RegistryCounts, error) {
	var counts RegistryCounts
	err := s.DB.Get(&counts, `
		SELECT
			(SELECT COUNT(*) FROM participants) as participants,
			(SELECT COUNT(*) FROM staff) as staff,
			(SELECT COUNT(*) FROM evaluations) as evaluations
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch registry counts: %w", err)
	}
	return &counts, nil
}

func (s *BaseStore) FetchCategoryCounts(category models.Category) (*RegistryCounts, error) {
	var counts RegistryCounts
	query := s.Converter(`
		SELECT
			(SELECT COUNT(*) FROM participants WHERE category = ?) as participants,
			(SELECT COUNT(*) FROM staff WHERE category = ?) as staff,
			(SELECT COUNT(*) FROM evaluations WHERE category = ?) as evaluations
	`)

	err := s.DB.Get(&counts, query, category, category, category)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category counts: %w", err)
	}
	return &counts, nil
}
