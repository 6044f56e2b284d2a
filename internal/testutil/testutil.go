// Package testutil builds spreadsheet fixtures for tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook saves rows (first row = header) to dir/name as an .xlsx file
// and returns its path.
func WriteWorkbook(t *testing.T, dir, name string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for i, row := range rows {
		r := row
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &r); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	return path
}

// Roster writes a names-plus-category workbook used across packages:
// column A = Nome, column B = Classificação.
func Roster(t *testing.T, dir string) string {
	t.Helper()
	return WriteWorkbook(t, dir, "roster.xlsx", [][]any{
		{"Nome", "Classificação"},
		{"Alice", "VIP"},
		{"Bob", "Regular"},
		{"Carol", "VIP"},
		{"Dave", "Regular"},
		{"Eve", ""},
	})
}

// ReadRows returns every row of the active sheet of the workbook at path.
func ReadRows(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	return rows
}

// WriteFile writes raw bytes to dir/name and returns its path.
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}
