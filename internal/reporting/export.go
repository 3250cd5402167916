package reporting

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

var exportHeaders = []interface{}{
	"Student ID", "Staff ID", "Category", "Score", "Max Score", "Comments", "Evaluated At",
}

// ExportXLSX renders the filtered ledger as a spreadsheet: one header row,
// one row per evaluation, categories as human labels.
func (r *Reporter) ExportXLSX(filter string) ([]byte, error) {
	evals, err := r.Evaluations(filter)
	if err != nil {
		return nil, err
	}

	if filter == "" {
		filter = "all"
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("Evaluations_%s", filter)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, e := range evals {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		row := []interface{}{
			e.ParticipantID,
			e.StaffID,
			e.Category.Label(),
			e.Score,
			e.MaxScore,
			e.Comments,
			r.formatTimestamp(e.EvaluatedAt),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
