package ingestion

import (
	"sort"
	"time"

	"github.com/wardstats/platform/pkg/parser"
	"gorm.io/datatypes"
)

const (
	StatusAccepted = "accepted"
	StatusIngested = "ingested"
	StatusFailed   = "failed"
)

// DailyLog is the per-date summary row, exactly one per calendar date.
type DailyLog struct {
	ID                  uint   `json:"-" gorm:"primaryKey"`
	Date                string `json:"date" gorm:"column:date;uniqueIndex"`
	AdmissionCount      int    `json:"admission_count" gorm:"column:admission_count"`
	DischargeCount      int    `json:"discharge_count" gorm:"column:discharge_count"`
	CurrentPatientCount int    `json:"current_patient_count" gorm:"column:current_patient_count"`
	FirstVisitCount     int    `json:"first_visit_count" gorm:"column:first_visit_count"`
	ReVisitCount        int    `json:"re_visit_count" gorm:"column:re_visit_count"`
	GeneralCount        int    `json:"general_count" gorm:"column:general_count"`
	LocalCount          int    `json:"local_count" gorm:"column:local_count"`
	EmergencyCount      int    `json:"emergency_count" gorm:"column:emergency_count"`
	MainDeptCount       int    `json:"main_dept_count" gorm:"column:main_dept_count"`
	OtherDeptCount      int    `json:"other_dept_count" gorm:"column:other_dept_count"`
	TotalSurgeryCount   int    `json:"total_surgery_count" gorm:"column:total_surgery_count"`
	ERFirstCount        int    `json:"er_first_count" gorm:"column:er_first_count"`
	ERSutureCount       int    `json:"er_suture_count" gorm:"column:er_suture_count"`
}

func (DailyLog) TableName() string {
	return "daily_logs"
}

// ProfessorStat is the per-(date, professor) anesthesia and patient-flow
// tally, written wholesale on each ingestion of the date.
type ProfessorStat struct {
	ID             uint   `json:"-" gorm:"primaryKey"`
	Date           string `json:"date" gorm:"column:date;uniqueIndex:idx_professor_stats_day"`
	ProfessorName  string `json:"professor_name" gorm:"column:professor_name;uniqueIndex:idx_professor_stats_day"`
	GeneralCount   int    `json:"general_count" gorm:"column:general_count"`
	LocalCount     int    `json:"local_count" gorm:"column:local_count"`
	BPBCount       int    `json:"bpb_count" gorm:"column:bpb_count"`
	MACCount       int    `json:"mac_count" gorm:"column:mac_count"`
	SNBCount       int    `json:"snb_count" gorm:"column:snb_count"`
	FNBCount       int    `json:"fnb_count" gorm:"column:fnb_count"`
	SpinalCount    int    `json:"spinal_count" gorm:"column:spinal_count"`
	AdmissionCount int    `json:"admission_count" gorm:"column:admission_count"`
	DischargeCount int    `json:"discharge_count" gorm:"column:discharge_count"`
}

func (ProfessorStat) TableName() string {
	return "professor_stats"
}

// ProfessorCase is one surgical case, keyed by its natural key. Count
// tracks how many times the same case appeared on the sheet.
type ProfessorCase struct {
	ID            uint   `json:"-" gorm:"primaryKey"`
	Date          string `json:"date" gorm:"column:date;uniqueIndex:idx_professor_cases_key"`
	ProfessorName string `json:"professor_name" gorm:"column:professor_name;uniqueIndex:idx_professor_cases_key"`
	PatientName   string `json:"patient_name" gorm:"column:patient_name;uniqueIndex:idx_professor_cases_key"`
	CaseName      string `json:"case_name" gorm:"column:case_name;uniqueIndex:idx_professor_cases_key"`
	Anesthesia    string `json:"anesthesia" gorm:"column:anesthesia;uniqueIndex:idx_professor_cases_key"`
	DiagnosisCode string `json:"diagnosis_code" gorm:"column:diagnosis_code"`
	Count         int    `json:"count" gorm:"column:count;default:1"`
	IsChecked     bool   `json:"is_checked" gorm:"column:is_checked;default:false"`
}

func (ProfessorCase) TableName() string {
	return "professor_cases"
}

// UploadRecord is the audit trail for one uploaded file.
type UploadRecord struct {
	ID        string            `json:"id" gorm:"primaryKey;column:id"`
	FileName  string            `json:"file_name" gorm:"column:file_name"`
	Date      string            `json:"date" gorm:"column:date"`
	Status    string            `json:"status" gorm:"column:status"`
	Error     string            `json:"error,omitempty" gorm:"column:error"`
	Summary   datatypes.JSONMap `json:"summary" gorm:"column:summary"`
	CreatedAt time.Time         `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time         `json:"updated_at" gorm:"column:updated_at"`
}

func (UploadRecord) TableName() string {
	return "upload_records"
}

func newDailyLog(stats parser.DailyStats) *DailyLog {
	return &DailyLog{
		Date:                stats.Date,
		AdmissionCount:      stats.AdmissionCount,
		DischargeCount:      stats.DischargeCount,
		CurrentPatientCount: stats.CurrentPatientCount,
		FirstVisitCount:     stats.FirstVisitCount,
		ReVisitCount:        stats.ReVisitCount,
		GeneralCount:        stats.GeneralCount,
		LocalCount:          stats.LocalCount,
		EmergencyCount:      stats.EmergencyCount,
		MainDeptCount:       stats.MainDeptCount,
		OtherDeptCount:      stats.OtherDeptCount,
		TotalSurgeryCount:   stats.TotalSurgeryCount,
		ERFirstCount:        stats.ERFirstCount,
		ERSutureCount:       stats.ERSutureCount,
	}
}

func newProfessorStats(date string, tallies map[string]*parser.ProfessorTally) []ProfessorStat {
	names := make([]string, 0, len(tallies))
	for name := range tallies {
		names = append(names, name)
	}
	sort.Strings(names)

	stats := make([]ProfessorStat, 0, len(names))
	for _, name := range names {
		t := tallies[name]
		stats = append(stats, ProfessorStat{
			Date:           date,
			ProfessorName:  name,
			GeneralCount:   t.General,
			LocalCount:     t.Local,
			BPBCount:       t.BPB,
			MACCount:       t.MAC,
			SNBCount:       t.SNB,
			FNBCount:       t.FNB,
			SpinalCount:    t.Spinal,
			AdmissionCount: t.Admission,
			DischargeCount: t.Discharge,
		})
	}
	return stats
}

func newProfessorCases(date string, cases []parser.Case) []ProfessorCase {
	out := make([]ProfessorCase, 0, len(cases))
	for _, c := range cases {
		out = append(out, ProfessorCase{
			Date:          date,
			ProfessorName: c.Professor,
			PatientName:   c.PatientName,
			CaseName:      c.CaseName,
			Anesthesia:    c.Anesthesia,
			DiagnosisCode: c.DiagnosisCode,
			Count:         1,
		})
	}
	return out
}
