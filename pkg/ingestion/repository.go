package ingestion

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUploadNotFound = errors.New("upload record not found")

// Store is the aggregate-store surface the service writes through. The
// core logic is written once against it; Repository is the PostgreSQL
// implementation.
type Store interface {
	// ReplaceDay atomically removes every row for the date and inserts
	// the new snapshot. Cases are upserted so duplicate natural keys
	// within the upload accumulate their count.
	ReplaceDay(ctx context.Context, date string, daily *DailyLog, stats []ProfessorStat, cases []ProfessorCase) error

	CreateUpload(ctx context.Context, rec *UploadRecord) error
	UpdateUpload(ctx context.Context, id, date, status, errMsg string, summary datatypes.JSONMap) error
	GetUpload(ctx context.Context, id string) (*UploadRecord, error)
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&DailyLog{}, &ProfessorStat{}, &ProfessorCase{}, &UploadRecord{})
}

func (r *Repository) ReplaceDay(ctx context.Context, date string, daily *DailyLog, stats []ProfessorStat, cases []ProfessorCase) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("date = ?", date).Delete(&DailyLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("date = ?", date).Delete(&ProfessorStat{}).Error; err != nil {
			return err
		}
		if err := tx.Where("date = ?", date).Delete(&ProfessorCase{}).Error; err != nil {
			return err
		}

		if err := tx.Create(daily).Error; err != nil {
			return err
		}
		if len(stats) > 0 {
			if err := tx.Create(&stats).Error; err != nil {
				return err
			}
		}

		for i := range cases {
			if err := upsertCase(tx, cases[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// upsertCase applies mergeCase under a row lock. The day's rows were
// just deleted, so a conflict here means the same case appeared more
// than once on the sheet being ingested.
func upsertCase(tx *gorm.DB, incoming ProfessorCase) error {
	var existing ProfessorCase
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("date = ? AND professor_name = ? AND patient_name = ? AND case_name = ? AND anesthesia = ?",
			incoming.Date, incoming.ProfessorName, incoming.PatientName, incoming.CaseName, incoming.Anesthesia).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&incoming).Error
	}
	if err != nil {
		return err
	}

	merged := mergeCase(existing, incoming)
	return tx.Model(&ProfessorCase{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"count":          merged.Count,
			"diagnosis_code": merged.DiagnosisCode,
		}).Error
}

func (r *Repository) CreateUpload(ctx context.Context, rec *UploadRecord) error {
	rec.CreatedAt = time.Now().UTC()
	rec.UpdatedAt = rec.CreatedAt
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *Repository) UpdateUpload(ctx context.Context, id, date, status, errMsg string, summary datatypes.JSONMap) error {
	updates := map[string]interface{}{
		"date":       date,
		"status":     status,
		"error":      errMsg,
		"updated_at": time.Now().UTC(),
	}
	if summary != nil {
		updates["summary"] = summary
	}
	return r.db.WithContext(ctx).Model(&UploadRecord{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *Repository) GetUpload(ctx context.Context, id string) (*UploadRecord, error) {
	var rec UploadRecord
	result := r.db.WithContext(ctx).First(&rec, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrUploadNotFound
	}
	return &rec, result.Error
}
