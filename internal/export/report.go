// Package export renders an employee's bills as an xlsx expense report.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/billed-app/billed-server/internal/bills"
)

const sheetName = "Notes de frais"

var headers = []string{"Type", "Nom", "Date", "Montant", "TVA", "Pct", "Statut", "Justificatif"}

// ReportWriter builds xlsx expense reports.
type ReportWriter struct {
	logger *zap.Logger
}

// NewReportWriter creates a new report writer
func NewReportWriter(logger *zap.Logger) *ReportWriter {
	return &ReportWriter{logger: logger}
}

// Build renders the rows into a workbook. Rows are written in the order
// given; callers sort beforehand.
func (w *ReportWriter) Build(email string, rows []bills.Row) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		w.logger.Warn("Failed to drop default sheet", zap.Error(err))
	}

	w.setCell(f, "A1", fmt.Sprintf("Notes de frais — %s", email))

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 3)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell name: %w", err)
		}
		w.setCell(f, cell, header)
	}

	var total float64
	for i, row := range rows {
		line := i + 4
		w.setCell(f, fmt.Sprintf("A%d", line), row.Type)
		w.setCell(f, fmt.Sprintf("B%d", line), row.Name)
		w.setCell(f, fmt.Sprintf("C%d", line), row.Date)
		w.setCell(f, fmt.Sprintf("D%d", line), row.Amount)
		w.setCell(f, fmt.Sprintf("E%d", line), row.VAT)
		w.setCell(f, fmt.Sprintf("F%d", line), row.Pct)
		w.setCell(f, fmt.Sprintf("G%d", line), row.Status)
		w.setCell(f, fmt.Sprintf("H%d", line), row.FileName)
		total += row.Amount
	}

	totalLine := len(rows) + 5
	w.setCell(f, fmt.Sprintf("C%d", totalLine), "Total")
	w.setCell(f, fmt.Sprintf("D%d", totalLine), total)

	w.logger.Debug("Expense report built",
		zap.String("email", email),
		zap.Int("rows", len(rows)))

	return f, nil
}

func (w *ReportWriter) setCell(f *excelize.File, cell string, value interface{}) {
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		w.logger.Warn("Failed to set cell value",
			zap.String("cell", cell),
			zap.Error(err))
	}
}
