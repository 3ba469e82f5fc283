// Package export renders reports as Excel workbooks.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"hatchops/internal/model"
)

const (
	rowsSheet   = "Daily"
	totalsSheet = "Totals"
	dateLayout  = "2006-01-02"
)

var dailyHeader = []any{
	"Date", "Mortality M", "Mortality F", "Mortality Total",
	"Culling M", "Culling F", "Culling Total", "Feed (kg)", "Eggs Collected", "Hatching Eggs",
}

// PerformanceWorkbook writes one sheet of daily rows and one sheet of totals.
func PerformanceWorkbook(p *model.BatchPerformance) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", rowsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(totalsSheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(rowsSheet, "A1", &dailyHeader); err != nil {
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(dailyHeader), 1)
	if err := f.SetCellStyle(rowsSheet, "A1", last, bold); err != nil {
		return nil, err
	}
	for i, r := range p.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{
			r.Date.Format(dateLayout),
			r.Mortality.Male, r.Mortality.Female, r.Mortality.Total,
			r.Culling.Male, r.Culling.Female, r.Culling.Total,
			r.FeedKg, r.EggsCollected, r.HatchingEggs,
		}
		if err := f.SetSheetRow(rowsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(rowsSheet, "A", "J", 16); err != nil {
		return nil, err
	}

	t := p.Totals
	totals := [][]any{
		{"Batch", p.Batch.BatchNo},
		{"From", p.From.Format(dateLayout)},
		{"To", p.To.Format(dateLayout)},
		{"Assigned", t.Assigned.Total},
		{"Mortality", t.Mortality.Total},
		{"Culling", t.Culling.Total},
		{"Mortality %", t.MortalityPercent},
		{"Feed (kg)", t.FeedKg},
		{"Feed per bird (kg)", t.FeedPerBirdKg},
		{"Eggs Collected", t.EggsCollected},
		{"Hatching Eggs", t.HatchingEggs},
		{"Hatching %", t.HatchingPercent},
	}
	for i := range totals {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(totalsSheet, cell, &totals[i]); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(totalsSheet, "A1", fmt.Sprintf("A%d", len(totals)), bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(totalsSheet, "A", "A", 22); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f.WriteToBuffer()
}

// PerformanceFileName names the workbook of one batch over a range.
func PerformanceFileName(p *model.BatchPerformance) string {
	return fmt.Sprintf("performance_%s_%s_%s.xlsx", p.Batch.BatchNo, p.From.Format("20060102"), p.To.Format("20060102"))
}
