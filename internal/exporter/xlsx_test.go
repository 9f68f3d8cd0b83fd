package exporter

import (
	"bytes"
	"marksentry/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, records []model.StudentRecord) *Sheet {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, New("Student Marks").Encode(&buf, records))

	sheet, err := Read(&buf)
	require.NoError(t, err)
	return sheet
}

func TestEncodeEmptyWritesHeaderOnly(t *testing.T) {
	sheet := encode(t, nil)

	assert.Equal(t, "Student Marks", sheet.Name)
	assert.Equal(t, []string{"Student ID", "Marks", "Section"}, sheet.Header)
	assert.Empty(t, sheet.Rows)
}

func TestEncodeRowsInOrder(t *testing.T) {
	records := []model.StudentRecord{
		{RollNumber: "X-001", Marks: "50", Section: model.SectionB},
		{RollNumber: "X-002", Marks: "90", Section: model.SectionA},
	}

	sheet := encode(t, records)

	assert.Equal(t, Columns, sheet.Header)
	assert.Equal(t, [][]string{
		{"X-001", "50", "B"},
		{"X-002", "90", "A"},
	}, sheet.Rows)
}

func TestEncodeKeepsMarksVerbatim(t *testing.T) {
	records := []model.StudentRecord{
		{RollNumber: "23011556-007", Marks: "007.50", Section: model.SectionA},
		{RollNumber: "23011556-007", Marks: "-3", Section: model.SectionA},
	}

	sheet := encode(t, records)

	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "007.50", sheet.Rows[0][1])
	assert.Equal(t, "-3", sheet.Rows[1][1])
}

func TestEncodeDoesNotTouchInput(t *testing.T) {
	records := []model.StudentRecord{
		{RollNumber: "X-001", Marks: "50", Section: model.SectionB},
	}

	first := encode(t, records)
	second := encode(t, records)

	assert.Equal(t, first, second)
	assert.Len(t, records, 1)
}

func TestEncodeInvalidSheetName(t *testing.T) {
	var buf bytes.Buffer
	err := New("marks/2024").Encode(&buf, nil)
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}
