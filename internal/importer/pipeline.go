package importer

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/robotica-events/robojudge/internal/metrics"
	"github.com/robotica-events/robojudge/internal/models"
	"github.com/robotica-events/robojudge/internal/store"
)

const (
	DefaultBatchSize = 25
	DefaultQRSize    = 256
)

// Report summarizes one import run. Every data row of the upload lands in
// exactly one counter, so nothing is silently dropped.
type Report struct {
	Added      int `json:"added"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
	Errors     int `json:"errors"`
}

// Pipeline bulk-loads participant rows from a spreadsheet into the registry.
// Rows are persisted in batches, so an interrupted import keeps the batches
// already flushed.
type Pipeline struct {
	store     store.EventStore
	batchSize int
	qrSize    int
}

func NewPipeline(eventStore store.EventStore, batchSize, qrSize int) *Pipeline {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if qrSize <= 0 {
		qrSize = DefaultQRSize
	}
	return &Pipeline{
		store:     eventStore,
		batchSize: batchSize,
		qrSize:    qrSize,
	}
}

// ImportXLSX reads the first worksheet, skipping the header row. Row-level
// garbage is counted and skipped, never fatal; only an unreadable workbook
// aborts the run.
func (p *Pipeline) ImportXLSX(r io.Reader) (*Report, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	defer rows.Close()

	report := &Report{}
	seen := make(map[string]bool)
	var batch []*models.Participant

	rowNum := 0
	for rows.Next() {
		rowNum++
		if rowNum == 1 {
			continue
		}

		cells, err := rows.Columns()
		if err != nil {
			logger.Error.Printf("Failed to read row %d: %v", rowNum, err)
			report.Errors++
			continue
		}

		p.processRow(cells, seen, &batch, report)

		if len(batch) >= p.batchSize {
			p.flush(&batch, report)
		}
	}

	p.flush(&batch, report)

	metrics.ImportRowsTotal.WithLabelValues("added").Add(float64(report.Added))
	metrics.ImportRowsTotal.WithLabelValues("skipped").Add(float64(report.Skipped))
	metrics.ImportRowsTotal.WithLabelValues("duplicate").Add(float64(report.Duplicates))
	metrics.ImportRowsTotal.WithLabelValues("error").Add(float64(report.Errors))

	logger.Info.Printf(
		"Import finished: %d added, %d skipped, %d duplicates, %d errors",
		report.Added, report.Skipped, report.Duplicates, report.Errors,
	)

	return report, nil
}

func (p *Pipeline) processRow(cells []string, seen map[string]bool, batch *[]*models.Participant, report *Report) {
	if rowEmpty(cells) {
		report.Skipped++
		return
	}

	data := parseRow(cells)
	if data == nil {
		report.Skipped++
		return
	}

	if seen[data.ExternalID] {
		report.Duplicates++
		return
	}

	existing, err := p.store.GetParticipantByExternalID(data.ExternalID)
	if err != nil {
		logger.Error.Printf("Registry lookup failed for %s: %v", data.ExternalID, err)
		report.Errors++
		return
	}
	if existing != nil {
		report.Duplicates++
		return
	}

	qr, err := EncodeQR(data.ExternalID, p.qrSize)
	if err != nil {
		logger.Error.Printf("QR generation failed for %s: %v", data.ExternalID, err)
		report.Errors++
		return
	}

	participant := &models.Participant{
		ExternalID:  data.ExternalID,
		Name:        data.Name,
		Affiliation: data.Affiliation,
		Phone:       data.Phone,
		Category:    data.Category,
		QRCode:      qr,
	}
	if err := participant.Validate(); err != nil {
		logger.Debug.Printf("Rejecting participant %s: %v", data.ExternalID, err)
		report.Skipped++
		return
	}

	seen[data.ExternalID] = true
	*batch = append(*batch, participant)
}

// flush persists the pending batch. A storage failure costs only the rows of
// this batch; the pipeline keeps going.
func (p *Pipeline) flush(batch *[]*models.Participant, report *Report) {
	if len(*batch) == 0 {
		return
	}

	inserted, duplicates, err := p.store.CreateParticipants(*batch)
	if err != nil {
		logger.Error.Printf("Failed to flush %d participants: %v", len(*batch), err)
		report.Errors += len(*batch)
	} else {
		report.Added += inserted
		report.Duplicates += duplicates
		report.Errors += len(*batch) - inserted - duplicates
	}

	*batch = (*batch)[:0]
}
