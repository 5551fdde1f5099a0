package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wardstats/platform/pkg/common/logger"
	"github.com/wardstats/platform/pkg/parser"
	"gorm.io/datatypes"
)

func init() {
	logger.Init()
}

type fakeParser struct {
	result *parser.Result
	err    error
}

func (f *fakeParser) ParseFile(path, originalName string) (*parser.Result, error) {
	return f.result, f.err
}

type replaceCall struct {
	date  string
	daily *DailyLog
	stats []ProfessorStat
	cases []ProfessorCase
}

type fakeStore struct {
	replaceErr error
	replaces   []replaceCall
	uploads    map[string]*UploadRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{uploads: make(map[string]*UploadRecord)}
}

func (f *fakeStore) ReplaceDay(ctx context.Context, date string, daily *DailyLog, stats []ProfessorStat, cases []ProfessorCase) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replaces = append(f.replaces, replaceCall{date: date, daily: daily, stats: stats, cases: cases})
	return nil
}

func (f *fakeStore) CreateUpload(ctx context.Context, rec *UploadRecord) error {
	f.uploads[rec.ID] = rec
	return nil
}

func (f *fakeStore) UpdateUpload(ctx context.Context, id, date, status, errMsg string, summary datatypes.JSONMap) error {
	if rec, ok := f.uploads[id]; ok {
		rec.Date = date
		rec.Status = status
		rec.Error = errMsg
		if summary != nil {
			rec.Summary = summary
		}
	}
	return nil
}

func (f *fakeStore) GetUpload(ctx context.Context, id string) (*UploadRecord, error) {
	rec, ok := f.uploads[id]
	if !ok {
		return nil, ErrUploadNotFound
	}
	return rec, nil
}

func tempUploadFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload.xlsx")
	if err := os.WriteFile(path, []byte("placeholder"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func parsedResult(date string) *parser.Result {
	return &parser.Result{
		Stats: parser.DailyStats{Date: date, AdmissionCount: 2},
		Professors: map[string]*parser.ProfessorTally{
			"Kim": {General: 1},
			"Lee": {},
		},
		Cases: []parser.Case{
			{Date: date, Professor: "Kim", PatientName: "Hong", CaseName: "Excision", Anesthesia: "General", DiagnosisCode: "B"},
		},
	}
}

func TestIngestHappyPath(t *testing.T) {
	store := newFakeStore()
	svc := NewService(&fakeParser{result: parsedResult("2026-04-15")}, store)
	path := tempUploadFile(t)

	result, err := svc.Ingest(context.Background(), Upload{Path: path, OriginalName: "log_20260415.xlsx"})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Date != "2026-04-15" || result.FileName != "log_20260415.xlsx" {
		t.Fatalf("unexpected result: %+v", result)
	}

	if len(store.replaces) != 1 {
		t.Fatalf("expected 1 ReplaceDay call, got %d", len(store.replaces))
	}
	call := store.replaces[0]
	if call.date != "2026-04-15" {
		t.Fatalf("unexpected date: %s", call.date)
	}
	// Zero-valued roster professors are written too.
	if len(call.stats) != 2 {
		t.Fatalf("expected 2 professor rows, got %d", len(call.stats))
	}
	if len(call.cases) != 1 || call.cases[0].Count != 1 {
		t.Fatalf("unexpected cases: %+v", call.cases)
	}

	// Temp file removed after success.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected temp file to be removed")
	}

	rec, err := store.GetUpload(context.Background(), result.UploadID)
	if err != nil {
		t.Fatalf("upload record: %v", err)
	}
	if rec.Status != StatusIngested {
		t.Fatalf("expected ingested status, got %s", rec.Status)
	}
}

func TestIngestParseFailure(t *testing.T) {
	store := newFakeStore()
	svc := NewService(&fakeParser{err: errors.New("corrupt workbook")}, store)
	path := tempUploadFile(t)

	_, err := svc.Ingest(context.Background(), Upload{Path: path, OriginalName: "bad.xlsx"})
	if !IsParseError(err) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if len(store.replaces) != 0 {
		t.Fatal("store must not be touched on parse failure")
	}
	// Cleanup runs regardless of outcome.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected temp file to be removed after parse failure")
	}
}

func TestIngestUnresolvedDate(t *testing.T) {
	store := newFakeStore()
	svc := NewService(&fakeParser{result: parsedResult(parser.UnknownDate)}, store)

	_, err := svc.Ingest(context.Background(), Upload{Path: tempUploadFile(t), OriginalName: "nodate.xlsx"})
	if !errors.Is(err, ErrUnresolvedDate) {
		t.Fatalf("expected ErrUnresolvedDate, got %v", err)
	}
	if len(store.replaces) != 0 {
		t.Fatal("store must not be touched for unresolved dates")
	}
}

func TestIngestPersistenceFailure(t *testing.T) {
	store := newFakeStore()
	store.replaceErr = errors.New("connection reset")
	svc := NewService(&fakeParser{result: parsedResult("2026-04-15")}, store)
	path := tempUploadFile(t)

	_, err := svc.Ingest(context.Background(), Upload{Path: path, OriginalName: "log.xlsx"})
	if !IsPersistenceError(err) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected temp file to be removed after persistence failure")
	}
}

func TestIngestBatchIsolatesFailures(t *testing.T) {
	store := newFakeStore()
	// First file fails to parse, second succeeds: the batch continues.
	failing := &switchingParser{
		responses: []parseResponse{
			{err: errors.New("corrupt workbook")},
			{result: parsedResult("2026-04-16")},
		},
	}
	svc := NewService(failing, store)

	batch := svc.IngestBatch(context.Background(), []Upload{
		{Path: tempUploadFile(t), OriginalName: "bad.xlsx"},
		{Path: tempUploadFile(t), OriginalName: "good.xlsx"},
	})

	if batch.SuccessCount != 1 || batch.FailCount != 1 {
		t.Fatalf("unexpected batch counts: %+v", batch)
	}
	if len(batch.Errors) != 1 || batch.Errors[0].FileName != "bad.xlsx" {
		t.Fatalf("unexpected batch errors: %+v", batch.Errors)
	}
	if len(store.replaces) != 1 || store.replaces[0].date != "2026-04-16" {
		t.Fatalf("expected only the good file written: %+v", store.replaces)
	}
}

type parseResponse struct {
	result *parser.Result
	err    error
}

type switchingParser struct {
	responses []parseResponse
	calls     int
}

func (s *switchingParser) ParseFile(path, originalName string) (*parser.Result, error) {
	resp := s.responses[s.calls]
	s.calls++
	return resp.result, resp.err
}

type recordingInvalidator struct {
	months []string
}

func (r *recordingInvalidator) InvalidateMonth(ctx context.Context, month string) error {
	r.months = append(r.months, month)
	return nil
}

func TestIngestInvalidatesMonthCache(t *testing.T) {
	store := newFakeStore()
	inv := &recordingInvalidator{}
	svc := NewService(&fakeParser{result: parsedResult("2026-04-15")}, store, WithCacheInvalidator(inv))

	if _, err := svc.Ingest(context.Background(), Upload{Path: tempUploadFile(t), OriginalName: "log.xlsx"}); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if len(inv.months) != 1 || inv.months[0] != "2026-04" {
		t.Fatalf("expected invalidation for 2026-04, got %v", inv.months)
	}
}
