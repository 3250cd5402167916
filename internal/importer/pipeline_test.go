package importer

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/robotica-events/robojudge/internal/models"
	"github.com/robotica-events/robojudge/internal/store/sqlite"
)

func setupTestStore(t *testing.T) (*sqlite.SQLiteStore, func()) {
	dbPath := filepath.Join(t.TempDir(), "robojudge.db")
	s, err := sqlite.NewSQLiteStore(dbPath, "../../migrations")
	require.NoError(t, err, "Failed to create store")

	cleanup := func() {
		require.NoError(t, s.Close(), "Failed to close database")
	}
	return s, cleanup
}

func buildWorkbook(t *testing.T, rows [][]interface{}) io.Reader {
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

var headerRow = []interface{}{"Student ID", "Name", "College", "Phone", "Category"}

func TestImportXLSX(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	workbook := buildWorkbook(t, [][]interface{}{
		headerRow,
		{"S001", "Jane Doe", "MIT", "555-1234", "Robo Race"},
		{"", "", "", "", ""},
		{"S002", "John Roe", "", "", "SUMO"},
		{"none", "Placeholder", "", "", ""},
		{"S001", "Jane Again", "", "", ""},
		{"S003", "Grace Hopper", "Navy", "", "line follower"},
	})

	pipeline := NewPipeline(s, 0, 64)
	report, err := pipeline.ImportXLSX(workbook)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Added)
	assert.Equal(t, 2, report.Skipped, "empty row and placeholder id")
	assert.Equal(t, 1, report.Duplicates, "repeated S001 within the upload")
	assert.Equal(t, 0, report.Errors)

	jane, err := s.GetParticipantByExternalID("S001")
	require.NoError(t, err)
	require.NotNil(t, jane)
	assert.Equal(t, "Jane Doe", jane.Name, "first occurrence wins")
	assert.Equal(t, "MIT", jane.Affiliation)
	assert.Equal(t, "555-1234", jane.Phone)
	assert.Equal(t, models.CategoryRoboRace, jane.Category)
	assert.NotEmpty(t, jane.QRCode)

	grace, err := s.GetParticipantByExternalID("S003")
	require.NoError(t, err)
	require.NotNil(t, grace)
	assert.Empty(t, grace.Category, "unrecognized category stays unset")
}

func TestImportXLSXIdempotent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	rows := [][]interface{}{
		headerRow,
		{"S001", "Jane Doe", "MIT", "555-1234", "Robo Race"},
		{"S002", "John Roe", "", "", "robo_sumo"},
	}

	pipeline := NewPipeline(s, 0, 64)

	first, err := pipeline.ImportXLSX(buildWorkbook(t, rows))
	require.NoError(t, err)
	assert.Equal(t, 2, first.Added)
	assert.Equal(t, 0, first.Duplicates)

	second, err := pipeline.ImportXLSX(buildWorkbook(t, rows))
	require.NoError(t, err)
	assert.Equal(t, 0, second.Added, "re-importing the same file adds nothing")
	assert.Equal(t, 2, second.Duplicates)

	participants, err := s.ListParticipants()
	require.NoError(t, err)
	assert.Len(t, participants, 2)
}

func TestImportXLSXBatching(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	rows := [][]interface{}{headerRow}
	for _, id := range []string{"S001", "S002", "S003", "S004", "S005"} {
		rows = append(rows, []interface{}{id, "Robot " + id, "", "", "working model"})
	}

	// batch size smaller than the row count forces mid-run flushes
	pipeline := NewPipeline(s, 2, 64)
	report, err := pipeline.ImportXLSX(buildWorkbook(t, rows))
	require.NoError(t, err)

	assert.Equal(t, 5, report.Added)
	assert.Equal(t, 0, report.Errors)

	participants, err := s.ListParticipants()
	require.NoError(t, err)
	assert.Len(t, participants, 5)
	for _, p := range participants {
		assert.Equal(t, models.CategoryWorkingModel, p.Category)
	}
}

func TestImportXLSXQROverflowCountsError(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	// beyond what a level-L QR code can hold, so encoding fails
	huge := strings.Repeat("A", 5000)
	workbook := buildWorkbook(t, [][]interface{}{
		headerRow,
		{huge, "Overflow Bot"},
		{"S001", "Jane Doe", "MIT", "", "Robo Race"},
	})

	pipeline := NewPipeline(s, 0, 64)
	report, err := pipeline.ImportXLSX(workbook)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Errors, "unencodable identifier counted as error")
	assert.Equal(t, 1, report.Added, "following row still imports")
	assert.Equal(t, 0, report.Skipped)

	jane, err := s.GetParticipantByExternalID("S001")
	require.NoError(t, err)
	assert.NotNil(t, jane)
}

func TestImportXLSXOversizedIdentifierSkipped(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	longID := strings.Repeat("x", 60)
	workbook := buildWorkbook(t, [][]interface{}{
		headerRow,
		{longID, "Long Bot"},
		{"S001", "Jane Doe"},
	})

	pipeline := NewPipeline(s, 0, 64)
	report, err := pipeline.ImportXLSX(workbook)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Skipped, "identifier over 50 chars fails validation")
	assert.Equal(t, 1, report.Added)
	assert.Equal(t, 0, report.Errors)

	gone, err := s.GetParticipantByExternalID(longID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

// flakyStore fails a fixed number of batch inserts before recovering.
type flakyStore struct {
	*sqlite.SQLiteStore
	failures int
}

func (f *flakyStore) CreateParticipants(ps []*models.Participant) (int, int, error) {
	if f.failures > 0 {
		f.failures--
		return 0, 0, errors.New("storage offline")
	}
	return f.SQLiteStore.CreateParticipants(ps)
}

func TestImportXLSXFlushFailure(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	rows := [][]interface{}{headerRow}
	for _, id := range []string{"S001", "S002", "S003", "S004"} {
		rows = append(rows, []interface{}{id, "Robot " + id})
	}

	flaky := &flakyStore{SQLiteStore: s, failures: 1}
	pipeline := NewPipeline(flaky, 2, 64)
	report, err := pipeline.ImportXLSX(buildWorkbook(t, rows))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Errors, "failed flush costs only its own rows")
	assert.Equal(t, 2, report.Added, "next flush still lands")

	participants, err := s.ListParticipants()
	require.NoError(t, err)
	assert.Len(t, participants, 2)
}

func TestImportXLSXEmptyWorkbook(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	pipeline := NewPipeline(s, 0, 64)
	report, err := pipeline.ImportXLSX(buildWorkbook(t, [][]interface{}{headerRow}))
	require.NoError(t, err)

	assert.Equal(t, &Report{}, report)
}
