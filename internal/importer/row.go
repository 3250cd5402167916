package importer

import (
	"strings"

	"github.com/robotica-events/robojudge/internal/models"
)

// placeholderIDs are junk identifiers that show up when a header row gets
// re-uploaded as data or a spreadsheet exports empty cells as text.
var placeholderIDs = map[string]bool{
	"none":       true,
	"null":       true,
	"nan":        true,
	"":           true,
	"id":         true,
	"student id": true,
}

type rowData struct {
	ExternalID  string
	Name        string
	Affiliation string
	Phone       string
	Category    models.Category
}

func rowEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseRow validates and normalizes one data row. Layout is positional:
// identifier, name, affiliation, phone, category; only the first two are
// required. Returns nil when the row should be skipped.
func parseRow(cells []string) *rowData {
	cell := func(i int) string {
		if i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}

	id := cell(0)
	name := cell(1)
	if id == "" || name == "" {
		return nil
	}
	if placeholderIDs[strings.ToLower(id)] {
		return nil
	}

	data := &rowData{
		ExternalID:  id,
		Name:        name,
		Affiliation: cell(2),
		Phone:       cell(3),
	}

	if category, ok := models.ParseCategory(cell(4)); ok {
		data.Category = category
	}

	return data
}
