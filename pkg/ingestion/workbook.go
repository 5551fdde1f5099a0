package ingestion

import (
	"github.com/wardstats/platform/pkg/parser"
	"github.com/wardstats/platform/pkg/sheet"
)

// FileParser turns one workbook file into a parse result.
type FileParser interface {
	ParseFile(path, originalName string) (*parser.Result, error)
}

type workbookParser struct {
	parser    *parser.Parser
	sheetName string
}

// NewWorkbookParser builds the production FileParser: excelize-backed
// sheet reading feeding the duty-log parser. sheetName is the canonical
// sheet to select, with fallback to the first sheet.
func NewWorkbookParser(professors []string, sheetName string) FileParser {
	return &workbookParser{
		parser:    parser.New(professors),
		sheetName: sheetName,
	}
}

func (w *workbookParser) ParseFile(path, originalName string) (*parser.Result, error) {
	reader, err := sheet.Open(path, w.sheetName)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	result := w.parser.Parse(reader, originalName)
	if err := reader.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
