package sheet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheets map[string][][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
			first = false
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatalf("new sheet: %v", err)
			}
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "log.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestOpenSelectsCanonicalSheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Sheet1": {{"wrong"}},
		"출력":     {{"1", "kim"}},
	})

	r, err := Open(path, "출력")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	if r.Sheet() != "출력" {
		t.Fatalf("expected canonical sheet, got %s", r.Sheet())
	}
	row, ok := r.Next()
	if !ok {
		t.Fatal("expected a row")
	}
	if row[0] != "1" || row[1] != "kim" {
		t.Fatalf("unexpected row: %v", row)
	}
}

func TestOpenFallsBackToFirstSheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Daily": {{"a"}, {"b"}},
	})

	r, err := Open(path, "출력")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	if r.Sheet() != "Daily" {
		t.Fatalf("expected fallback to first sheet, got %s", r.Sheet())
	}

	count := 0
	for {
		if _, ok := r.Next(); !ok {
			break
		}
		count++
	}
	if err := r.Err(); err != nil {
		t.Fatalf("iteration error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows, got %d", count)
	}
}

func TestOpenUnreadableWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.xlsx")
	if err := os.WriteFile(path, []byte("not a workbook"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := Open(path, ""); !errors.Is(err, ErrUnreadableWorkbook) {
		t.Fatalf("expected ErrUnreadableWorkbook, got %v", err)
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.xlsx"), ""); !errors.Is(err, ErrUnreadableWorkbook) {
		t.Fatalf("expected ErrUnreadableWorkbook for missing file, got %v", err)
	}
}
