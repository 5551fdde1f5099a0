package report

import (
	"context"

	"github.com/wardstats/platform/pkg/ingestion"
	"gorm.io/gorm"
)

// Store is the persistence surface of the reporting package.
type Store interface {
	RecentLogs(ctx context.Context, limit int) ([]LogSummary, error)
	LogsPage(ctx context.Context, page, pageSize int) ([]ingestion.DailyLog, error)
	LogsCount(ctx context.Context) (int64, error)
	Dashboard(ctx context.Context, months []string) (*Dashboard, error)
	MonthlyReport(ctx context.Context, month string) (*MonthlyReport, error)
	Cases(ctx context.Context, month, professor string) ([]CaseRow, error)
	DeleteByDate(ctx context.Context, date string) error
	SetCaseClassifications(ctx context.Context, key CaseKey, counts map[string]int) (map[string]int, error)
	SetCaseChecked(ctx context.Context, key CaseKey, checked bool) error
	ExportData(ctx context.Context, month string) (*ExportData, error)
}

// Repository is the gorm-backed Store. The professor roster fixes the
// display order of aggregates and fills zero rows for professors with
// no data in a month.
type Repository struct {
	db         *gorm.DB
	professors []string
}

func NewRepository(db *gorm.DB, professors []string) *Repository {
	return &Repository{db: db, professors: professors}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&CaseClassification{})
}

func (r *Repository) RecentLogs(ctx context.Context, limit int) ([]LogSummary, error) {
	var rows []LogSummary
	err := r.db.WithContext(ctx).
		Model(&ingestion.DailyLog{}).
		Select("date, total_surgery_count, admission_count, discharge_count, er_first_count").
		Order("date DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *Repository) LogsPage(ctx context.Context, page, pageSize int) ([]ingestion.DailyLog, error) {
	var rows []ingestion.DailyLog
	err := r.db.WithContext(ctx).
		Order("date DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	return rows, err
}

func (r *Repository) LogsCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&ingestion.DailyLog{}).Count(&n).Error
	return n, err
}

const professorSumColumns = `
	professor_name,
	SUM(general_count)   AS total_general,
	SUM(local_count)     AS total_local,
	SUM(bpb_count)       AS total_bpb,
	SUM(mac_count)       AS total_mac,
	SUM(snb_count)       AS total_snb,
	SUM(fnb_count)       AS total_fnb,
	SUM(spinal_count)    AS total_spinal,
	SUM(admission_count) AS total_admission,
	SUM(discharge_count) AS total_discharge`

const outpatientSumColumns = `
	COALESCE(SUM(first_visit_count), 0) AS total_first,
	COALESCE(SUM(re_visit_count), 0)    AS total_re,
	COALESCE(SUM(er_first_count), 0)    AS total_er_first,
	COALESCE(SUM(er_suture_count), 0)   AS total_er_suture`

func (r *Repository) Dashboard(ctx context.Context, months []string) (*Dashboard, error) {
	type monthlyProfessorSummary struct {
		Month string
		ProfessorSummary
	}
	var professorRows []monthlyProfessorSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT substring(date from 1 for 7) AS month,`+professorSumColumns+`
		FROM professor_stats
		WHERE substring(date from 1 for 7) IN ?
		GROUP BY 1, professor_name`, months).Scan(&professorRows).Error
	if err != nil {
		return nil, err
	}

	type monthlyOutpatientSummary struct {
		Month string
		OutpatientSummary
	}
	var outpatientRows []monthlyOutpatientSummary
	err = r.db.WithContext(ctx).Raw(`
		SELECT substring(date from 1 for 7) AS month,`+outpatientSumColumns+`
		FROM daily_logs
		WHERE substring(date from 1 for 7) IN ?
		GROUP BY 1`, months).Scan(&outpatientRows).Error
	if err != nil {
		return nil, err
	}

	professorsByMonth := make(map[string]map[string]ProfessorSummary, len(months))
	for _, row := range professorRows {
		byName, ok := professorsByMonth[row.Month]
		if !ok {
			byName = make(map[string]ProfessorSummary)
			professorsByMonth[row.Month] = byName
		}
		byName[row.ProfessorName] = row.ProfessorSummary
	}
	outpatientByMonth := make(map[string]OutpatientSummary, len(outpatientRows))
	for _, row := range outpatientRows {
		outpatientByMonth[row.Month] = row.OutpatientSummary
	}

	reports := make(map[string]MonthlyReport, len(months))
	for _, month := range months {
		reports[month] = MonthlyReport{
			Professors: r.rosterOrder(professorsByMonth[month]),
			Outpatient: outpatientByMonth[month],
		}
	}

	recent, err := r.RecentLogs(ctx, 30)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Reports: reports, RecentLogs: recent}, nil
}

func (r *Repository) MonthlyReport(ctx context.Context, month string) (*MonthlyReport, error) {
	var professorRows []ProfessorSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT`+professorSumColumns+`
		FROM professor_stats
		WHERE date LIKE ?
		GROUP BY professor_name`, month+"-%").Scan(&professorRows).Error
	if err != nil {
		return nil, err
	}

	byName := make(map[string]ProfessorSummary, len(professorRows))
	for _, row := range professorRows {
		byName[row.ProfessorName] = row
	}

	var outpatient OutpatientSummary
	err = r.db.WithContext(ctx).Raw(`
		SELECT`+outpatientSumColumns+`
		FROM daily_logs
		WHERE date LIKE ?`, month+"-%").Scan(&outpatient).Error
	if err != nil {
		return nil, err
	}

	return &MonthlyReport{Professors: r.rosterOrder(byName), Outpatient: outpatient}, nil
}

func (r *Repository) Cases(ctx context.Context, month, professor string) ([]CaseRow, error) {
	var rows []CaseRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT date, patient_name, case_name, anesthesia, SUM(count) AS total_count
		FROM professor_cases
		WHERE date LIKE ? AND professor_name = ?
		GROUP BY date, patient_name, case_name, anesthesia
		ORDER BY date ASC, patient_name ASC`, month+"-%", professor).Scan(&rows).Error
	return rows, err
}

// DeleteByDate removes the ingested snapshot of one date. Manual
// classifications survive so a corrected re-upload keeps them.
func (r *Repository) DeleteByDate(ctx context.Context, date string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("date = ?", date).Delete(&ingestion.DailyLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("date = ?", date).Delete(&ingestion.ProfessorStat{}).Error; err != nil {
			return err
		}
		return tx.Where("date = ?", date).Delete(&ingestion.ProfessorCase{}).Error
	})
}

// SetCaseClassifications replaces the manual diagnosis codes of one
// case. The case must already exist; an empty map clears the manual
// override and the parsed code applies again.
func (r *Repository) SetCaseClassifications(ctx context.Context, key CaseKey, counts map[string]int) (map[string]int, error) {
	normalized, err := normalizeCodeCounts(counts)
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		err := tx.Model(&ingestion.ProfessorCase{}).
			Where("date = ? AND professor_name = ? AND patient_name = ? AND case_name = ? AND anesthesia = ?",
				key.Date, key.ProfessorName, key.PatientName, key.CaseName, key.Anesthesia).
			Count(&n).Error
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrCaseNotFound
		}

		err = tx.Where("date = ? AND professor_name = ? AND patient_name = ? AND case_name = ? AND anesthesia = ?",
			key.Date, key.ProfessorName, key.PatientName, key.CaseName, key.Anesthesia).
			Delete(&CaseClassification{}).Error
		if err != nil {
			return err
		}

		for _, code := range sortedCodes(normalized) {
			row := CaseClassification{
				Date:          key.Date,
				ProfessorName: key.ProfessorName,
				PatientName:   key.PatientName,
				CaseName:      key.CaseName,
				Anesthesia:    key.Anesthesia,
				DiagnosisCode: code,
				CaseCount:     normalized[code],
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return normalized, nil
}

func (r *Repository) SetCaseChecked(ctx context.Context, key CaseKey, checked bool) error {
	res := r.db.WithContext(ctx).
		Model(&ingestion.ProfessorCase{}).
		Where("date = ? AND professor_name = ? AND patient_name = ? AND case_name = ? AND anesthesia = ?",
			key.Date, key.ProfessorName, key.PatientName, key.CaseName, key.Anesthesia).
		Update("is_checked", checked)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCaseNotFound
	}
	return nil
}

func (r *Repository) ExportData(ctx context.Context, month string) (*ExportData, error) {
	monthly, err := r.MonthlyReport(ctx, month)
	if err != nil {
		return nil, err
	}

	var cases []CaseAggregate
	err = r.db.WithContext(ctx).Raw(`
		SELECT professor_name, case_name, SUM(count) AS total_count
		FROM professor_cases
		WHERE date LIKE ?
		GROUP BY professor_name, case_name
		ORDER BY professor_name ASC, case_name ASC`, month+"-%").Scan(&cases).Error
	if err != nil {
		return nil, err
	}

	return &ExportData{
		Month:      month,
		Professors: monthly.Professors,
		Cases:      cases,
		Outpatient: monthly.Outpatient,
	}, nil
}

func (r *Repository) rosterOrder(byName map[string]ProfessorSummary) []ProfessorSummary {
	out := make([]ProfessorSummary, 0, len(r.professors))
	for _, name := range r.professors {
		summary := byName[name]
		summary.ProfessorName = name
		out = append(out, summary)
	}
	return out
}
