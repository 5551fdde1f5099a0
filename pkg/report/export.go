package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// BuildWorkbook renders one month's export data as an xlsx workbook
// with a per-professor summary sheet and a discharge/outpatient sheet.
func BuildWorkbook(data *ExportData) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeSummarySheet(f, data); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeDischargeSheet(f, data); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// monthSheetName turns "2026-02" into the Korean sheet title "2월".
func monthSheetName(month string) string {
	parts := strings.SplitN(month, "-", 2)
	if len(parts) != 2 {
		return month
	}
	return strings.TrimPrefix(parts[1], "0") + "월"
}

func writeSummarySheet(f *excelize.File, data *ExportData) error {
	sheet := monthSheetName(data.Month)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "A", 25); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "J", 12); err != nil {
		return err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return err
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	row := 1
	if err := f.SetCellValue(sheet, cell("A", row), sheet); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell("A", row), cell("A", row), titleStyle); err != nil {
		return err
	}
	row += 2

	casesByProfessor := make(map[string][]CaseAggregate, len(data.Professors))
	for _, c := range data.Cases {
		casesByProfessor[c.ProfessorName] = append(casesByProfessor[c.ProfessorName], c)
	}

	for _, prof := range data.Professors {
		header := []interface{}{
			prof.ProfessorName + " 교수님",
			nil, nil, nil, nil, nil, nil, nil, nil, nil,
			"CASE",
		}
		if err := f.SetSheetRow(sheet, cell("A", row), &header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell("A", row), cell("K", row), boldStyle); err != nil {
			return err
		}
		row++

		etc := prof.TotalMAC + prof.TotalBPB + prof.TotalSNB + prof.TotalFNB + prof.TotalSpinal
		summary := []interface{}{
			"General", prof.TotalGeneral,
			"Local", prof.TotalLocal,
			"etc.", etc,
			"입원 환자", prof.TotalAdmission,
			"외래 환자", 0,
		}
		if err := f.SetSheetRow(sheet, cell("A", row), &summary); err != nil {
			return err
		}
		row++

		for _, c := range casesByProfessor[prof.ProfessorName] {
			line := []interface{}{c.CaseName, c.TotalCount}
			if err := f.SetSheetRow(sheet, cell("A", row), &line); err != nil {
				return err
			}
			row++
		}
		row++
	}
	return nil
}

func writeDischargeSheet(f *excelize.File, data *ExportData) error {
	const sheet = "퇴원 환자 수"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	year := strings.SplitN(data.Month, "-", 2)[0]
	rows := [][]interface{}{
		{year + " 퇴원 (퇴원 + 전출)"},
		{"담당교수", "합계", "기준", "점수"},
	}
	for _, prof := range data.Professors {
		rows = append(rows, []interface{}{prof.ProfessorName, prof.TotalDischarge, "300명 미만", "0점"})
	}
	rows = append(rows,
		[]interface{}{},
		[]interface{}{year + " 외래 환자 수"},
		[]interface{}{"구분", "합계", "기준", "점수"},
		[]interface{}{"초진", data.Outpatient.TotalFirst, "2500명 미만", "0점"},
		[]interface{}{"재진", data.Outpatient.TotalRe, "2500~3500명", "2점"},
	)

	for i := range rows {
		r := i + 1
		if len(rows[i]) == 0 {
			continue
		}
		if err := f.SetSheetRow(sheet, cell("A", r), &rows[i]); err != nil {
			return err
		}
	}
	// Bold the table headers.
	if err := f.SetCellStyle(sheet, "A2", "D2", boldStyle); err != nil {
		return err
	}
	return nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
