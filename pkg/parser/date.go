package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// UnknownDate is the sentinel produced when neither the file name nor
// the sheet header yields a usable date. It is surfaced, not fatal; the
// caller decides whether to reject the file.
const UnknownDate = "Unknown"

// Spreadsheet date serials count days from 1899-12-30; serial 25569 is
// 1970-01-01 UTC.
const serialEpochOffset = 25569

var fileNameDate = regexp.MustCompile(`(\d{8})`)

// resolveDate picks the log date, preferring the file name over sheet
// content: upload file names are maintained by hand and have proven
// more reliable than the header cell.
func resolveDate(fileName string, rows [][]string) string {
	if m := fileNameDate.FindStringSubmatch(fileName); m != nil {
		d := m[1]
		return d[0:4] + "-" + d[4:6] + "-" + d[6:8]
	}

	raw := strings.TrimSpace(cellAt(rows, dateHeaderRow, dateHeaderCol))
	if raw == "" {
		return UnknownDate
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		secs := int64((serial - serialEpochOffset) * 86400)
		return time.Unix(secs, 0).UTC().Format("2006-01-02")
	}
	return raw
}
