package service

import (
	"errors"
	"fmt"
	"io"
	"time"

	"invoice-converter/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName       = "invoice_data_extracted"
	SpreadsheetMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// maxCellChars is the longest text a spreadsheet cell stores.
const maxCellChars = excelize.TotalCellChars

// ErrSpreadsheetWrite wraps every failure to serialize a batch.
var ErrSpreadsheetWrite = errors.New("failed to write spreadsheet")

// SpreadsheetFileName is the download name for a batch created at t.
func SpreadsheetFileName(t time.Time) string {
	return fmt.Sprintf("amazon_invoices_extracted_%s.xlsx", t.Format("20060102_150405"))
}

// RecordWriter serializes a batch of records into a downloadable file.
type RecordWriter interface {
	Write(records []models.InvoiceRecord) ([]byte, error)
}

// SpreadsheetWriter serializes records into a single-sheet xlsx workbook.
type SpreadsheetWriter struct{}

func NewSpreadsheetWriter() *SpreadsheetWriter {
	return &SpreadsheetWriter{}
}

// Write returns the workbook bytes: a header row followed by one row per
// record, every cell stored as text.
func (w *SpreadsheetWriter) Write(records []models.InvoiceRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpreadsheetWrite, err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpreadsheetWrite, err)
	}

	for i, col := range models.Columns {
		if err := sw.SetColWidth(i+1, i+1, col.Width); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSpreadsheetWrite, err)
		}
	}

	if err := sw.SetRow("A1", toCells(models.HeaderLabels())); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrSpreadsheetWrite, err)
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSpreadsheetWrite, err)
		}
		if err := sw.SetRow(cell, toCells(record.Values())); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrSpreadsheetWrite, i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpreadsheetWrite, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpreadsheetWrite, err)
	}
	return buf.Bytes(), nil
}

// toCells stores every value as a string cell so that order numbers and
// amounts are never reinterpreted as numbers.
func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = excelize.Cell{Value: sanitizeCell(v)}
	}
	return cells
}

// ReadSpreadsheet returns the rows of the converter sheet, header first.
// Trailing empty cells are restored so every row has one cell per column.
func ReadSpreadsheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		for len(row) < len(models.Columns) {
			row = append(row, "")
		}
		rows[i] = row
	}
	return rows, nil
}
