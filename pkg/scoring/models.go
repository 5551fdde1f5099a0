package scoring

// Threshold is one clinical category's scoring configuration: the two
// activity bands and the points each awards. Seeded from the catalog at
// startup, adjusted only through administration.
type Threshold struct {
	ID            uint    `json:"-" gorm:"primaryKey"`
	CategoryKey   string  `json:"category_key" gorm:"column:category_key;uniqueIndex"`
	CategoryLabel string  `json:"category_label" gorm:"column:category_label"`
	MinForTier1   float64 `json:"min_for_tier1" gorm:"column:min_for_tier1"`
	MaxForTier1   float64 `json:"max_for_tier1" gorm:"column:max_for_tier1"`
	MinForTier2   float64 `json:"min_for_tier2" gorm:"column:min_for_tier2"`
	PointTier1    float64 `json:"point_tier1" gorm:"column:point_tier1"`
	PointTier2    float64 `json:"point_tier2" gorm:"column:point_tier2"`
	DisplayOrder  int     `json:"display_order" gorm:"column:display_order"`
	Active        bool    `json:"active" gorm:"column:active;default:true"`
}

func (Threshold) TableName() string {
	return "category_score_thresholds"
}

// DiagnosisCategory maps one diagnosis letter to its category key.
type DiagnosisCategory struct {
	DiagnosisCode string `json:"diagnosis_code" gorm:"primaryKey;column:diagnosis_code"`
	CategoryKey   string `json:"category_key" gorm:"column:category_key"`
}

func (DiagnosisCategory) TableName() string {
	return "diagnosis_category_map"
}

// CategoryMonthCount is one (category, month) case-count aggregate.
type CategoryMonthCount struct {
	CategoryKey string
	Month       string
	Total       int
}

// MonthCaseTotal is one month's overall case volume and how much of it
// lacks a usable diagnosis code.
type MonthCaseTotal struct {
	Month        string
	TotalCases   int
	MissingCases int
}

// ThresholdBand is the threshold portion echoed on each report row.
type ThresholdBand struct {
	MinForTier1 float64 `json:"min_for_tier1"`
	MaxForTier1 float64 `json:"max_for_tier1"`
	MinForTier2 float64 `json:"min_for_tier2"`
	PointTier1  float64 `json:"point_tier1"`
	PointTier2  float64 `json:"point_tier2"`
}

// Row is one scored category.
type Row struct {
	CategoryKey   string        `json:"category_key"`
	CategoryLabel string        `json:"category_label"`
	MonthlyCounts []int         `json:"monthly_counts"`
	RawSum        int           `json:"raw_sum"`
	AdjustedSum   float64       `json:"adjusted_sum"`
	Threshold     ThresholdBand `json:"threshold"`
	Score         float64       `json:"score"`
	Met           bool          `json:"is_met"`
}

// Totals aggregates the whole report.
type Totals struct {
	MonthlyRawTotals []int   `json:"monthly_raw_totals"`
	TotalRawSum      int     `json:"total_raw_sum"`
	TotalAdjustedSum float64 `json:"total_adjusted_sum"`
	MetCount         int     `json:"met_count"`
	UnmetCount       int     `json:"unmet_count"`
}

// Report is the complete scored result for a month range.
type Report struct {
	Months     []string `json:"months"`
	Multiplier float64  `json:"multiplier"`
	Rows       []Row    `json:"rows"`
	Warnings   []string `json:"warnings"`
	Totals     Totals   `json:"totals"`
}
