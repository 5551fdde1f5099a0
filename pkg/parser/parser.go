// Package parser turns one daily duty-log worksheet into typed summary,
// per-professor, and per-case records.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/wardstats/platform/pkg/diagnosis"
)

// Fixed cell positions of the duty-log sheet layout. The sheet is a
// positional convention, not a negotiated format; shifts in the
// template are an external-data problem.
const (
	dateHeaderRow = 1
	dateHeaderCol = 11

	summaryPatientRow = 7 // admission, discharge, current, first visit, re-visit
	summarySurgeryRow = 9 // general, local, emergency, main dept, other dept, total

	colPatient    = 2
	colCharge     = 7
	colDiagnosis  = 8
	colCaseName   = 10
	colAnesthesia = 11
)

// RowSource yields sheet rows in order, one pass only.
type RowSource interface {
	Next() ([]string, bool)
}

// DailyStats is the per-date summary block of one sheet.
type DailyStats struct {
	Date                string
	AdmissionCount      int
	DischargeCount      int
	CurrentPatientCount int
	FirstVisitCount     int
	ReVisitCount        int
	GeneralCount        int
	LocalCount          int
	EmergencyCount      int
	MainDeptCount       int
	OtherDeptCount      int
	TotalSurgeryCount   int
	ERFirstCount        int
	ERSutureCount       int
}

// ProfessorTally accumulates one professor's activity for the date.
type ProfessorTally struct {
	General   int
	Local     int
	BPB       int
	MAC       int
	SNB       int
	FNB       int
	Spinal    int
	Admission int
	Discharge int
}

// SurgeryTotal is the sum of all anesthesia-type counters.
func (t ProfessorTally) SurgeryTotal() int {
	return t.General + t.Local + t.MAC + t.BPB + t.SNB + t.FNB + t.Spinal
}

// Case is one surgical case row, the finest-grained unit extracted.
type Case struct {
	Date          string
	Professor     string
	PatientName   string
	CaseName      string
	Anesthesia    string
	DiagnosisCode string
}

// Result is everything extracted from one sheet.
type Result struct {
	Stats      DailyStats
	Professors map[string]*ProfessorTally
	Cases      []Case
}

// Parser scans duty-log sheets against an injected professor roster.
type Parser struct {
	professors []string
}

func New(professors []string) *Parser {
	return &Parser{professors: professors}
}

var (
	sequenceCell     = regexp.MustCompile(`^\d+$`)
	anesthesiaPrefix = regexp.MustCompile(`^[A-Z]\.\s*`)
)

// Anesthesia keywords in match-priority order; the first hit wins.
var anesthesiaKinds = []struct {
	keyword string
	bump    func(*ProfessorTally)
}{
	{"GENERAL", func(t *ProfessorTally) { t.General++ }},
	{"LOCAL", func(t *ProfessorTally) { t.Local++ }},
	{"MAC", func(t *ProfessorTally) { t.MAC++ }},
	{"BPB", func(t *ProfessorTally) { t.BPB++ }},
	{"SNB", func(t *ProfessorTally) { t.SNB++ }},
	{"FNB", func(t *ProfessorTally) { t.FNB++ }},
	{"SPINAL", func(t *ProfessorTally) { t.Spinal++ }},
}

// Parse consumes the row source of one sheet and produces the daily
// summary, the per-professor tallies, and the case list. fileName is the
// original upload name, used as the preferred date source.
func (p *Parser) Parse(src RowSource, fileName string) *Result {
	var rows [][]string
	for {
		row, ok := src.Next()
		if !ok {
			break
		}
		rows = append(rows, row)
	}

	result := &Result{
		Professors: make(map[string]*ProfessorTally, len(p.professors)),
	}
	for _, name := range p.professors {
		result.Professors[name] = &ProfessorTally{}
	}

	result.Stats = DailyStats{
		Date:                resolveDate(fileName, rows),
		AdmissionCount:      intAt(rows, summaryPatientRow, 1),
		DischargeCount:      intAt(rows, summaryPatientRow, 3),
		CurrentPatientCount: intAt(rows, summaryPatientRow, 5),
		FirstVisitCount:     intAt(rows, summaryPatientRow, 7),
		ReVisitCount:        intAt(rows, summaryPatientRow, 9),
		GeneralCount:        intAt(rows, summarySurgeryRow, 1),
		LocalCount:          intAt(rows, summarySurgeryRow, 3),
		EmergencyCount:      intAt(rows, summarySurgeryRow, 5),
		MainDeptCount:       intAt(rows, summarySurgeryRow, 7),
		OtherDeptCount:      intAt(rows, summarySurgeryRow, 9),
		TotalSurgeryCount:   intAt(rows, summarySurgeryRow, 11),
	}

	p.scanSections(rows, result)
	applySummaryFallback(&result.Stats, result.Professors)

	return result
}

func (p *Parser) scanSections(rows [][]string, result *Result) {
	section := SectionNone
	date := result.Stats.Date

	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		firstCell := strings.TrimSpace(row[0])
		section = nextSection(section, firstCell)

		// Data rows carry a numeric sequence number in the first cell;
		// anything else (headers, blanks, stray text) is skipped.
		if !sequenceCell.MatchString(firstCell) {
			continue
		}

		switch section {
		case SectionAdmission, SectionDischarge:
			for _, prof := range p.matchProfessors(cell(row, colCharge)) {
				if section == SectionAdmission {
					result.Professors[prof].Admission++
				} else {
					result.Professors[prof].Discharge++
				}
			}
		case SectionOp, SectionEmergencyOp:
			p.extractOpRow(row, date, result)
		case SectionER:
			result.Stats.ERFirstCount++
			if rowHasPrimaryClosure(row) {
				result.Stats.ERSutureCount++
			}
		}
	}
}

func (p *Parser) extractOpRow(row []string, date string, result *Result) {
	for _, prof := range p.matchProfessors(cell(row, colCharge)) {
		tally := result.Professors[prof]

		raw := strings.TrimSpace(cell(row, colAnesthesia))
		if raw == "" {
			raw = "Unknown"
		}
		anesthesia := anesthesiaPrefix.ReplaceAllString(raw, "")
		upper := strings.ToUpper(anesthesia)
		for _, kind := range anesthesiaKinds {
			if strings.Contains(upper, kind.keyword) {
				kind.bump(tally)
				break
			}
		}

		caseName := strings.TrimSpace(cell(row, colCaseName))
		if caseName == "" {
			continue
		}
		patient := strings.TrimSpace(cell(row, colPatient))
		if patient == "" {
			patient = "Unknown"
		}
		result.Cases = append(result.Cases, Case{
			Date:          date,
			Professor:     prof,
			PatientName:   patient,
			CaseName:      caseName,
			Anesthesia:    anesthesia,
			DiagnosisCode: diagnosis.Normalize(cell(row, colDiagnosis)),
		})
	}
}

// matchProfessors returns every roster professor whose name appears in
// the charge cell. A shared case lists several names in one cell.
func (p *Parser) matchProfessors(charge string) []string {
	if charge == "" {
		return nil
	}
	var matched []string
	for _, prof := range p.professors {
		if strings.Contains(charge, prof) {
			matched = append(matched, prof)
		}
	}
	return matched
}

// Sheets from some shifts omit the summary block entirely. Any summary
// count left at zero is recomputed from the per-professor tallies.
func applySummaryFallback(stats *DailyStats, professors map[string]*ProfessorTally) {
	var admission, discharge, general, local, surgeries int
	for _, t := range professors {
		admission += t.Admission
		discharge += t.Discharge
		general += t.General
		local += t.Local
		surgeries += t.SurgeryTotal()
	}

	if stats.AdmissionCount == 0 {
		stats.AdmissionCount = admission
	}
	if stats.DischargeCount == 0 {
		stats.DischargeCount = discharge
	}
	if stats.GeneralCount == 0 {
		stats.GeneralCount = general
	}
	if stats.LocalCount == 0 {
		stats.LocalCount = local
	}
	if stats.TotalSurgeryCount == 0 {
		stats.TotalSurgeryCount = surgeries
	}
}

func rowHasPrimaryClosure(row []string) bool {
	// The suture note drifts between columns depending on who filled
	// the sheet in, so a small range is checked.
	for _, idx := range []int{9, 10, 11} {
		if strings.Contains(strings.ToLower(cell(row, idx)), "primary closure") {
			return true
		}
	}
	return false
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func cellAt(rows [][]string, r, c int) string {
	if r < 0 || r >= len(rows) {
		return ""
	}
	return cell(rows[r], c)
}

func intAt(rows [][]string, r, c int) int {
	raw := strings.TrimSpace(cellAt(rows, r, c))
	if raw == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f > 0 {
		return int(f)
	}
	return 0
}
