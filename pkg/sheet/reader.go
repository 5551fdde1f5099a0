package sheet

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ErrUnreadableWorkbook marks files that cannot be opened as a workbook
// or contain no sheets at all.
var ErrUnreadableWorkbook = errors.New("unreadable workbook")

// Reader yields the rows of one worksheet as raw cell values. It is a
// forward-only, single-pass iterator over the selected sheet.
type Reader struct {
	file  *excelize.File
	rows  *excelize.Rows
	sheet string
	err   error
}

// Open opens the workbook at path and selects the sheet named
// canonicalName when present, falling back to the first sheet.
// Cell values are returned raw (date cells keep their serial form).
func Open(path, canonicalName string) (*Reader, error) {
	file, err := excelize.OpenFile(path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		_ = file.Close()
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadableWorkbook)
	}

	selected := sheets[0]
	if canonicalName != "" {
		for _, name := range sheets {
			if name == canonicalName {
				selected = name
				break
			}
		}
	}

	rows, err := file.Rows(selected)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}

	return &Reader{file: file, rows: rows, sheet: selected}, nil
}

// Sheet reports the name of the selected worksheet.
func (r *Reader) Sheet() string {
	return r.sheet
}

// Next returns the next row, or false when the sheet is exhausted or a
// read error occurred (check Err after the loop). Trailing blank cells
// are not padded; callers index defensively.
func (r *Reader) Next() ([]string, bool) {
	if r.err != nil || !r.rows.Next() {
		return nil, false
	}
	cols, err := r.rows.Columns(excelize.Options{RawCellValue: true})
	if err != nil {
		r.err = err
		return nil, false
	}
	return cols, true
}

func (r *Reader) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.rows.Error()
}

func (r *Reader) Close() error {
	if err := r.rows.Close(); err != nil {
		_ = r.file.Close()
		return err
	}
	return r.file.Close()
}
