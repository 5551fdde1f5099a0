package ingestion

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/wardstats/platform/pkg/common/logger"
	"github.com/wardstats/platform/pkg/parser"
	"gorm.io/datatypes"
)

// Upload is one file handed over by the upload layer: the stored temp
// path plus the name the user uploaded it under.
type Upload struct {
	Path         string
	OriginalName string
}

// Result reports one successfully ingested file.
type Result struct {
	Date     string `json:"date"`
	FileName string `json:"fileName"`
	UploadID string `json:"upload_id,omitempty"`
}

// FileError reports one failed file within a batch.
type FileError struct {
	FileName string `json:"fileName"`
	Error    string `json:"error"`
}

// BatchResult summarizes a multi-file ingestion.
type BatchResult struct {
	SuccessCount int         `json:"successCount"`
	FailCount    int         `json:"failCount"`
	Results      []Result    `json:"results"`
	Errors       []FileError `json:"errors"`
}

// EventPublisher publishes ingestion events to the event bus.
// *kafka.Producer satisfies it; nil disables publishing.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error
}

// CacheInvalidator drops cached read models touching a month.
type CacheInvalidator interface {
	InvalidateMonth(ctx context.Context, month string) error
}

type Service struct {
	files       FileParser
	store       Store
	producer    EventPublisher
	invalidator CacheInvalidator
}

type Option func(*Service)

func WithEventPublisher(p EventPublisher) Option {
	return func(s *Service) { s.producer = p }
}

func WithCacheInvalidator(c CacheInvalidator) Option {
	return func(s *Service) { s.invalidator = c }
}

func NewService(files FileParser, store Store, opts ...Option) *Service {
	svc := &Service{files: files, store: store}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Ingest processes one file end to end: parse, replace the day's rows
// in a single transaction, then clean up. The temp file is removed no
// matter how processing ends; a failed transaction leaves the prior
// snapshot for the date fully intact.
func (s *Service) Ingest(ctx context.Context, up Upload) (*Result, error) {
	defer func() {
		if err := os.Remove(up.Path); err != nil && !os.IsNotExist(err) {
			logger.Log.WithError(err).WithField("path", up.Path).Warn("failed to remove upload temp file")
		}
	}()

	uploadID := uuid.New().String()
	_ = s.store.CreateUpload(ctx, &UploadRecord{
		ID:       uploadID,
		FileName: up.OriginalName,
		Status:   StatusAccepted,
	})

	parsed, err := s.files.ParseFile(up.Path, up.OriginalName)
	if err != nil {
		wrapped := ParseError{cause: err}
		_ = s.store.UpdateUpload(ctx, uploadID, "", StatusFailed, wrapped.Error(), nil)
		return nil, wrapped
	}

	date := parsed.Stats.Date
	if date == parser.UnknownDate {
		_ = s.store.UpdateUpload(ctx, uploadID, "", StatusFailed, ErrUnresolvedDate.Error(), nil)
		return nil, ErrUnresolvedDate
	}

	daily := newDailyLog(parsed.Stats)
	stats := newProfessorStats(date, parsed.Professors)
	cases := newProfessorCases(date, parsed.Cases)

	if err := s.store.ReplaceDay(ctx, date, daily, stats, cases); err != nil {
		wrapped := PersistenceError{cause: err}
		_ = s.store.UpdateUpload(ctx, uploadID, date, StatusFailed, wrapped.Error(), nil)
		return nil, wrapped
	}

	_ = s.store.UpdateUpload(ctx, uploadID, date, StatusIngested, "", uploadSummary(daily, len(cases)))
	s.afterCommit(ctx, uploadID, up.OriginalName, date, daily, len(cases))

	return &Result{Date: date, FileName: up.OriginalName, UploadID: uploadID}, nil
}

// afterCommit handles the best-effort side effects of a committed
// ingestion: cache invalidation for the affected month and the bus
// event. Neither failure affects the already-committed result.
func (s *Service) afterCommit(ctx context.Context, uploadID, fileName, date string, daily *DailyLog, caseCount int) {
	if s.invalidator != nil && len(date) >= 7 {
		if err := s.invalidator.InvalidateMonth(ctx, date[:7]); err != nil {
			logger.Log.WithError(err).WithField("month", date[:7]).Warn("score cache invalidation failed")
		}
	}

	if s.producer != nil {
		err := s.producer.PublishEvent(ctx, "ingestion.completed", "duty-log", map[string]interface{}{
			"upload_id":     uploadID,
			"file_name":     fileName,
			"date":          date,
			"case_count":    caseCount,
			"surgery_total": daily.TotalSurgeryCount,
		})
		if err != nil {
			logger.Log.WithError(err).Warn("failed to publish ingestion event")
		}
	}
}

// IngestBatch processes files sequentially with per-file isolation: a
// failure is recorded and the remaining files still run.
func (s *Service) IngestBatch(ctx context.Context, uploads []Upload) BatchResult {
	batch := BatchResult{}
	for _, up := range uploads {
		result, err := s.Ingest(ctx, up)
		if err != nil {
			logger.Log.WithError(err).WithField("file", up.OriginalName).Error("file ingestion failed")
			batch.FailCount++
			batch.Errors = append(batch.Errors, FileError{FileName: up.OriginalName, Error: err.Error()})
			continue
		}
		batch.SuccessCount++
		batch.Results = append(batch.Results, *result)
	}
	return batch
}

// Status looks up one upload audit record.
func (s *Service) Status(ctx context.Context, id string) (*UploadRecord, error) {
	return s.store.GetUpload(ctx, id)
}

// uploadSummary builds the JSON summary stored on the audit record.
func uploadSummary(daily *DailyLog, caseCount int) datatypes.JSONMap {
	return datatypes.JSONMap{
		"admission_count":     daily.AdmissionCount,
		"discharge_count":     daily.DischargeCount,
		"total_surgery_count": daily.TotalSurgeryCount,
		"er_first_count":      daily.ERFirstCount,
		"case_count":          caseCount,
	}
}
