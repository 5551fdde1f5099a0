package report

import "testing"

func exportFixture() *ExportData {
	return &ExportData{
		Month: "2026-02",
		Professors: []ProfessorSummary{
			{
				ProfessorName:  "김의현",
				TotalGeneral:   4,
				TotalLocal:     2,
				TotalBPB:       1,
				TotalMAC:       1,
				TotalSpinal:    1,
				TotalAdmission: 7,
				TotalDischarge: 5,
			},
			{ProfessorName: "박지원"},
		},
		Cases: []CaseAggregate{
			{ProfessorName: "김의현", CaseName: "ORIF", TotalCount: 3},
			{ProfessorName: "김의현", CaseName: "Skin graft", TotalCount: 1},
		},
		Outpatient: OutpatientSummary{TotalFirst: 120, TotalRe: 340, TotalERFirst: 12, TotalERSuture: 4},
	}
}

func TestBuildWorkbookSheets(t *testing.T) {
	wb, err := BuildWorkbook(exportFixture())
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "2월" || sheets[1] != "퇴원 환자 수" {
		t.Fatalf("unexpected sheet list: %v", sheets)
	}
}

func TestBuildWorkbookSummaryLayout(t *testing.T) {
	wb, err := BuildWorkbook(exportFixture())
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	defer wb.Close()

	title, err := wb.GetCellValue("2월", "A1")
	if err != nil || title != "2월" {
		t.Fatalf("unexpected title cell: %q, %v", title, err)
	}

	header, _ := wb.GetCellValue("2월", "A3")
	if header != "김의현 교수님" {
		t.Fatalf("unexpected professor header: %q", header)
	}
	caseMark, _ := wb.GetCellValue("2월", "K3")
	if caseMark != "CASE" {
		t.Fatalf("unexpected CASE marker: %q", caseMark)
	}

	// Summary row: General, Local, then the pooled regional/etc. total.
	etcLabel, _ := wb.GetCellValue("2월", "E4")
	etcValue, _ := wb.GetCellValue("2월", "F4")
	if etcLabel != "etc." || etcValue != "3" {
		t.Fatalf("unexpected etc. cell: %q=%q", etcLabel, etcValue)
	}

	firstCase, _ := wb.GetCellValue("2월", "A5")
	if firstCase != "ORIF" {
		t.Fatalf("unexpected first case row: %q", firstCase)
	}
}

func TestBuildWorkbookDischargeSheet(t *testing.T) {
	wb, err := BuildWorkbook(exportFixture())
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	defer wb.Close()

	title, _ := wb.GetCellValue("퇴원 환자 수", "A1")
	if title != "2026 퇴원 (퇴원 + 전출)" {
		t.Fatalf("unexpected discharge title: %q", title)
	}
	name, _ := wb.GetCellValue("퇴원 환자 수", "A3")
	total, _ := wb.GetCellValue("퇴원 환자 수", "B3")
	if name != "김의현" || total != "5" {
		t.Fatalf("unexpected discharge row: %q=%q", name, total)
	}
	first, _ := wb.GetCellValue("퇴원 환자 수", "B8")
	if first != "120" {
		t.Fatalf("unexpected outpatient first-visit total: %q", first)
	}
}

func TestMonthSheetName(t *testing.T) {
	cases := map[string]string{
		"2026-02": "2월",
		"2026-11": "11월",
		"bogus":   "bogus",
	}
	for in, want := range cases {
		if got := monthSheetName(in); got != want {
			t.Fatalf("monthSheetName(%q) = %q, want %q", in, got, want)
		}
	}
}
