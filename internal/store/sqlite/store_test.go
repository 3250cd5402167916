// internal/store/sqlite/store_test.go
package sqlite

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotica-events/robojudge/internal/models"
	"github.com/robotica-events/robojudge/internal/store"
)

// setupTestDB creates a throwaway SQLite database with the schema applied
func setupTestDB(t *testing.T) (*SQLiteStore, func()) {
	dbPath := filepath.Join(t.TempDir(), "robojudge.db")
	s, err := NewSQLiteStore(dbPath, "../../../migrations")
	require.NoError(t, err, "Failed to create store")

	cleanup := func() {
		err := s.Close()
		require.NoError(t, err, "Failed to close database")
	}

	return s, cleanup
}

func TestMain(m *testing.M) {
	log.Println("Starting SQLite store tests...")
	code := m.Run()
	log.Println("Finished SQLite store tests")
	os.Exit(code)
}

func TestAdminBootstrapRoundtrip(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	count, err := s.CountAdmins()
	require.NoError(t, err)
	assert.Zero(t, count)

	admin := &models.Admin{Email: "admin@robotica.com", PasswordHash: "$2a$10$fake"}
	require.NoError(t, s.CreateAdmin(admin))

	count, err = s.CountAdmins()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := s.GetAdminByEmail("admin@robotica.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "$2a$10$fake", got.PasswordHash)

	missing, err := s.GetAdminByEmail("other@robotica.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = s.CreateAdmin(&models.Admin{Email: "admin@robotica.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestStaffCRUD(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	staff := &models.Staff{
		Name:         "Alice Judge",
		Email:        "alice@robotica.com",
		PasswordHash: "$2a$10$fake",
		Category:     models.CategoryRoboRace,
		CreatedAt:    1700000000,
	}
	require.NoError(t, s.CreateStaff(staff))

	err := s.CreateStaff(&models.Staff{
		Name:         "Alice Clone",
		Email:        "alice@robotica.com",
		PasswordHash: "x",
		Category:     models.CategoryRoboSumo,
		CreatedAt:    1700000001,
	})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	got, err := s.GetStaffByEmail("alice@robotica.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.CategoryRoboRace, got.Category)

	byID, err := s.GetStaffByID(got.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "Alice Judge", byID.Name)

	list, err := s.ListStaff()
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.DeleteStaff(got.ID))
	gone, err := s.GetStaffByID(got.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestCreateParticipantsBatch(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	batch := []*models.Participant{
		{ExternalID: "S001", Name: "Jane Doe", Category: models.CategoryRoboRace},
		{ExternalID: "S002", Name: "John Roe"},
	}

	inserted, duplicates, err := s.CreateParticipants(batch)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	assert.Zero(t, duplicates)

	t.Run("duplicate inside batch does not discard the rest", func(t *testing.T) {
		next := []*models.Participant{
			{ExternalID: "S003", Name: "Grace Hopper"},
			{ExternalID: "S001", Name: "Jane Again"},
			{ExternalID: "S004", Name: "Alan Turing"},
		}
		inserted, duplicates, err := s.CreateParticipants(next)
		require.NoError(t, err)
		assert.Equal(t, 2, inserted)
		assert.Equal(t, 1, duplicates)

		list, err := s.ListParticipants()
		require.NoError(t, err)
		assert.Len(t, list, 4)

		jane, err := s.GetParticipantByExternalID("S001")
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", jane.Name, "original record untouched")
	})

	t.Run("list is ordered by external id", func(t *testing.T) {
		list, err := s.ListParticipants()
		require.NoError(t, err)
		ids := make([]string, len(list))
		for i, p := range list {
			ids[i] = p.ExternalID
		}
		assert.Equal(t, []string{"S001", "S002", "S003", "S004"}, ids)
	})

	t.Run("delete participant", func(t *testing.T) {
		p, err := s.GetParticipantByExternalID("S004")
		require.NoError(t, err)
		require.NoError(t, s.DeleteParticipant(p.ID))

		gone, err := s.GetParticipantByExternalID("S004")
		require.NoError(t, err)
		assert.Nil(t, gone)
	})
}

func TestEvaluationConstraintAndStats(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	evals := []models.Evaluation{
		{ParticipantID: "S001", StaffID: 1, Category: models.CategoryRoboRace, Score: 15, MaxScore: 20, EvaluatedAt: 1700000000},
		{ParticipantID: "S002", StaffID: 1, Category: models.CategoryRoboRace, Score: 5, MaxScore: 20, EvaluatedAt: 1700000100},
		{ParticipantID: "S001", StaffID: 2, Category: models.CategoryRoboSumo, Score: 18, MaxScore: 20, EvaluatedAt: 1700000200},
	}
	for i := range evals {
		require.NoError(t, s.CreateEvaluation(&evals[i]))
	}

	t.Run("same participant same category rejected", func(t *testing.T) {
		err := s.CreateEvaluation(&models.Evaluation{
			ParticipantID: "S001",
			StaffID:       3,
			Category:      models.CategoryRoboRace,
			Score:         1,
			MaxScore:      10,
			EvaluatedAt:   1700000300,
		})
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})

	t.Run("same participant different category allowed", func(t *testing.T) {
		err := s.CreateEvaluation(&models.Evaluation{
			ParticipantID: "S002",
			StaffID:       2,
			Category:      models.CategoryRoboSumo,
			Score:         7,
			MaxScore:      10,
			EvaluatedAt:   1700000400,
		})
		assert.NoError(t, err)
	})

	t.Run("stats group by category", func(t *testing.T) {
		stats, err := s.FetchCategoryStats()
		require.NoError(t, err)
		require.Len(t, stats, 2)

		race := stats[0]
		assert.Equal(t, "robo_race", race.Category)
		assert.Equal(t, int64(2), race.Count)
		assert.Equal(t, 10.0, race.Avg)
		assert.Equal(t, 15.0, race.Max)
		assert.Equal(t, 5.0, race.Min)
	})

	t.Run("filtered and staff listings", func(t *testing.T) {
		sumo, err := s.ListEvaluations(models.CategoryRoboSumo)
		require.NoError(t, err)
		assert.Len(t, sumo, 2)

		all, err := s.ListEvaluations("")
		require.NoError(t, err)
		assert.Len(t, all, 4)

		mine, err := s.ListEvaluationsByStaff(1)
		require.NoError(t, err)
		assert.Len(t, mine, 2)
	})

	t.Run("registry counts", func(t *testing.T) {
		counts, err := s.FetchRegistryCounts()
		require.NoError(t, err)
		assert.Equal(t, int64(4), counts.Evaluations)
		assert.Zero(t, counts.Participants)

		race, err := s.FetchCategoryCounts(models.CategoryRoboRace)
		require.NoError(t, err)
		assert.Equal(t, int64(2), race.Evaluations)
	})
}
