package report

// CaseClassification is a manual diagnosis-code assignment for one
// surgical case. A case may carry several codes, one row per code,
// each with its own count. Manual rows take precedence over the code
// parsed from the sheet when category scores are computed.
type CaseClassification struct {
	ID            uint   `json:"-" gorm:"primaryKey"`
	Date          string `json:"date" gorm:"column:date;uniqueIndex:idx_case_classifications_key"`
	ProfessorName string `json:"professor_name" gorm:"column:professor_name;uniqueIndex:idx_case_classifications_key"`
	PatientName   string `json:"patient_name" gorm:"column:patient_name;uniqueIndex:idx_case_classifications_key"`
	CaseName      string `json:"case_name" gorm:"column:case_name;uniqueIndex:idx_case_classifications_key"`
	Anesthesia    string `json:"anesthesia" gorm:"column:anesthesia;uniqueIndex:idx_case_classifications_key"`
	DiagnosisCode string `json:"diagnosis_code" gorm:"column:diagnosis_code;uniqueIndex:idx_case_classifications_key"`
	CaseCount     int    `json:"case_count" gorm:"column:case_count;default:1"`
}

func (CaseClassification) TableName() string {
	return "case_classifications"
}

// CaseKey is the natural key shared by professor_cases and
// case_classifications rows.
type CaseKey struct {
	Date          string `json:"date"`
	ProfessorName string `json:"professor_name"`
	PatientName   string `json:"patient_name"`
	CaseName      string `json:"case_name"`
	Anesthesia    string `json:"anesthesia"`
}

// LogSummary is the trimmed daily_logs row shown on the dashboard.
type LogSummary struct {
	Date              string `json:"date"`
	TotalSurgeryCount int    `json:"total_surgery_count"`
	AdmissionCount    int    `json:"admission_count"`
	DischargeCount    int    `json:"discharge_count"`
	ERFirstCount      int    `json:"er_first_count" gorm:"column:er_first_count"`
}

// ProfessorSummary aggregates one professor's anesthesia and
// patient-flow counts over a month.
type ProfessorSummary struct {
	ProfessorName  string `json:"professor_name"`
	TotalGeneral   int    `json:"total_general"`
	TotalLocal     int    `json:"total_local"`
	TotalBPB       int    `json:"total_bpb" gorm:"column:total_bpb"`
	TotalMAC       int    `json:"total_mac" gorm:"column:total_mac"`
	TotalSNB       int    `json:"total_snb" gorm:"column:total_snb"`
	TotalFNB       int    `json:"total_fnb" gorm:"column:total_fnb"`
	TotalSpinal    int    `json:"total_spinal"`
	TotalAdmission int    `json:"total_admission"`
	TotalDischarge int    `json:"total_discharge"`
}

// OutpatientSummary aggregates the clinic and ER counters of daily_logs
// over a month.
type OutpatientSummary struct {
	TotalFirst    int `json:"total_first"`
	TotalRe       int `json:"total_re"`
	TotalERFirst  int `json:"total_er_first" gorm:"column:total_er_first"`
	TotalERSuture int `json:"total_er_suture" gorm:"column:total_er_suture"`
}

// MonthlyReport is the per-month aggregate for the report view. The
// professor slice follows the roster order and includes zero rows for
// professors with no data in the month.
type MonthlyReport struct {
	Professors []ProfessorSummary `json:"professors"`
	Outpatient OutpatientSummary  `json:"outpatient"`
}

// Dashboard bundles several monthly reports with the recent log list.
type Dashboard struct {
	Reports    map[string]MonthlyReport `json:"reports"`
	RecentLogs []LogSummary             `json:"recentLogs"`
}

// CaseRow is one aggregated case line in the per-professor detail view.
type CaseRow struct {
	Date        string `json:"date"`
	PatientName string `json:"patient_name"`
	CaseName    string `json:"case_name"`
	Anesthesia  string `json:"anesthesia"`
	TotalCount  int    `json:"total_count"`
}

// CaseAggregate is a (professor, case name) total used by the exporter.
type CaseAggregate struct {
	ProfessorName string `json:"professor_name"`
	CaseName      string `json:"case_name"`
	TotalCount    int    `json:"total_count"`
}

// ExportData is everything the workbook builder needs for one month.
type ExportData struct {
	Month      string             `json:"month"`
	Professors []ProfessorSummary `json:"professors"`
	Cases      []CaseAggregate    `json:"cases"`
	Outpatient OutpatientSummary  `json:"outpatient"`
}
