// Package exporter writes student records to an xlsx workbook.
//
// The workbook holds a single sheet whose first row is the header
// "Student ID", "Marks", "Section", followed by one row per record in the
// order the records were entered. All cells are written as text so marks are
// exported exactly as typed.
package exporter
