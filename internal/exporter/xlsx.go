package exporter

import (
	"fmt"
	"io"
	"marksentry/internal/model"

	"github.com/xuri/excelize/v2"
)

// Columns is the fixed header of the exported sheet.
var Columns = []string{"Student ID", "Marks", "Section"}

// ContentType is the media type sent with downloads.
const ContentType = "application/octet-stream"

// Encoder writes records to an xlsx workbook with one named sheet.
type Encoder struct {
	sheetName string
}

func New(sheetName string) *Encoder {
	return &Encoder{sheetName: sheetName}
}

func (e *Encoder) SheetName() string {
	return e.sheetName
}

// Encode writes the workbook to w. An empty record list yields the header row only.
func (e *Encoder) Encode(w io.Writer, records []model.StudentRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), e.sheetName); err != nil {
		return fmt.Errorf("failed to name sheet %q: %w", e.sheetName, err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(e.sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		row := []interface{}{rec.RollNumber, rec.Marks, string(rec.Section)}
		if err := f.SetSheetRow(e.sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Sheet is the content of the first sheet of a workbook.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Read parses a workbook produced by Encode.
func Read(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	name := f.GetSheetName(0)
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}

	sheet := &Sheet{Name: name, Rows: [][]string{}}
	if len(rows) > 0 {
		sheet.Header = rows[0]
		sheet.Rows = rows[1:]
	}
	return sheet, nil
}
