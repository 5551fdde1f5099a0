package scoring

import (
	"context"

	"github.com/wardstats/platform/pkg/catalog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the read surface the score engine runs against. Repository
// is the PostgreSQL implementation; tests use an in-memory fake.
type Store interface {
	ActiveThresholds(ctx context.Context) ([]Threshold, error)
	AllThresholds(ctx context.Context) ([]Threshold, error)
	// CategoryMonthSums sums case counts per (category, month) across
	// the given months, resolving each case's category through the
	// diagnosis map. Manual classifications take precedence over the
	// code parsed from the sheet.
	CategoryMonthSums(ctx context.Context, months []string) ([]CategoryMonthCount, error)
	// MonthCaseTotals reports per month the total case volume and the
	// share without a usable diagnosis code.
	MonthCaseTotals(ctx context.Context, months []string) ([]MonthCaseTotal, error)
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&Threshold{}, &DiagnosisCategory{})
}

// Seed upserts the catalog's thresholds and diagnosis map, keeping any
// administrative edits to the active flag.
func (r *Repository) Seed(ctx context.Context, cat catalog.Catalog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range cat.Categories {
			row := Threshold{
				CategoryKey:   c.Key,
				CategoryLabel: c.Label,
				MinForTier1:   c.MinForTier1,
				MaxForTier1:   c.MaxForTier1,
				MinForTier2:   c.MinForTier2,
				PointTier1:    c.PointTier1,
				PointTier2:    c.PointTier2,
				DisplayOrder:  c.DisplayOrder,
				Active:        true,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "category_key"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"category_label", "min_for_tier1", "max_for_tier1",
					"min_for_tier2", "point_tier1", "point_tier2", "display_order",
				}),
			}).Create(&row).Error
			if err != nil {
				return err
			}
		}

		for code, key := range cat.DiagnosisMap {
			row := DiagnosisCategory{DiagnosisCode: code, CategoryKey: key}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "diagnosis_code"}},
				DoUpdates: clause.AssignmentColumns([]string{"category_key"}),
			}).Create(&row).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) ActiveThresholds(ctx context.Context) ([]Threshold, error) {
	var rows []Threshold
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("display_order ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) AllThresholds(ctx context.Context) ([]Threshold, error) {
	var rows []Threshold
	err := r.db.WithContext(ctx).Order("display_order ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) CategoryMonthSums(ctx context.Context, months []string) ([]CategoryMonthCount, error) {
	var auto []CategoryMonthCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT substring(pc.date from 1 for 7) AS month,
		       dcm.category_key AS category_key,
		       SUM(pc.count) AS total
		FROM professor_cases pc
		JOIN diagnosis_category_map dcm
		  ON UPPER(SUBSTRING(TRIM(COALESCE(pc.diagnosis_code, '')) FROM 1 FOR 1)) = dcm.diagnosis_code
		WHERE substring(pc.date from 1 for 7) IN ?
		  AND NOT EXISTS (
		    SELECT 1 FROM case_classifications cc
		    WHERE cc.date = pc.date
		      AND cc.professor_name = pc.professor_name
		      AND cc.patient_name = pc.patient_name
		      AND cc.case_name = pc.case_name
		      AND COALESCE(cc.anesthesia, '') = COALESCE(pc.anesthesia, '')
		  )
		GROUP BY 1, 2`, months).Scan(&auto).Error
	if err != nil {
		return nil, err
	}

	var manual []CategoryMonthCount
	err = r.db.WithContext(ctx).Raw(`
		SELECT substring(cc.date from 1 for 7) AS month,
		       dcm.category_key AS category_key,
		       SUM(cc.case_count) AS total
		FROM case_classifications cc
		JOIN diagnosis_category_map dcm
		  ON UPPER(TRIM(cc.diagnosis_code)) = dcm.diagnosis_code
		WHERE substring(cc.date from 1 for 7) IN ?
		GROUP BY 1, 2`, months).Scan(&manual).Error
	if err != nil {
		return nil, err
	}

	return append(auto, manual...), nil
}

func (r *Repository) MonthCaseTotals(ctx context.Context, months []string) ([]MonthCaseTotal, error) {
	var rows []MonthCaseTotal
	err := r.db.WithContext(ctx).Raw(`
		SELECT substring(date from 1 for 7) AS month,
		       SUM(count) AS total_cases,
		       SUM(CASE
		         WHEN diagnosis_code IS NULL
		           OR TRIM(diagnosis_code) = ''
		           OR UPPER(TRIM(diagnosis_code)) = 'UNKNOWN'
		           OR TRIM(diagnosis_code) = '-'
		           OR UPPER(SUBSTRING(TRIM(diagnosis_code) FROM 1 FOR 1)) NOT BETWEEN 'A' AND 'K'
		         THEN count ELSE 0
		       END) AS missing_cases
		FROM professor_cases
		WHERE substring(date from 1 for 7) IN ?
		GROUP BY 1`, months).Scan(&rows).Error
	return rows, err
}
