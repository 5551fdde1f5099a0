package scoring

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
)

type fakeStore struct {
	thresholds []Threshold
	sums       []CategoryMonthCount
	totals     []MonthCaseTotal
}

func (f *fakeStore) ActiveThresholds(ctx context.Context) ([]Threshold, error) {
	return f.thresholds, nil
}

func (f *fakeStore) AllThresholds(ctx context.Context) ([]Threshold, error) {
	return f.thresholds, nil
}

func (f *fakeStore) CategoryMonthSums(ctx context.Context, months []string) ([]CategoryMonthCount, error) {
	return f.sums, nil
}

func (f *fakeStore) MonthCaseTotals(ctx context.Context, months []string) ([]MonthCaseTotal, error) {
	return f.totals, nil
}

func tumorThreshold() Threshold {
	return Threshold{
		CategoryKey:   "headneck_tumor",
		CategoryLabel: "B. Head/neck tumor",
		MinForTier1:   0,
		MaxForTier1:   100,
		MinForTier2:   100,
		PointTier1:    0.1,
		PointTier2:    0.2,
		DisplayOrder:  1,
		Active:        true,
	}
}

func TestScoreRejectsInvalidRanges(t *testing.T) {
	svc := NewService(&fakeStore{thresholds: []Threshold{tumorThreshold()}})
	ctx := context.Background()

	cases := []struct {
		start, end string
		multiplier float64
	}{
		{"2026-03", "2026-01", 1},
		{"2025-13", "2026-01", 1},
		{"2026/01", "2026-02", 1},
		{"2026-01", "2026-02", 0},
		{"2026-01", "2026-02", -2},
		{"2026-01", "2026-02", math.NaN()},
		{"2026-01", "2026-02", math.Inf(1)},
	}
	for _, tc := range cases {
		_, err := svc.Score(ctx, tc.start, tc.end, tc.multiplier)
		if !IsRangeError(err) {
			t.Fatalf("Score(%s, %s, %v): expected RangeError, got %v", tc.start, tc.end, tc.multiplier, err)
		}
	}
}

func TestScoreRequiresActiveThresholds(t *testing.T) {
	svc := NewService(&fakeStore{})
	_, err := svc.Score(context.Background(), "2026-01", "2026-02", 1)
	if !errors.Is(err, ErrNoActiveThresholds) {
		t.Fatalf("expected ErrNoActiveThresholds, got %v", err)
	}
}

func TestScoreTierBoundaryPrefersTier2(t *testing.T) {
	store := &fakeStore{
		thresholds: []Threshold{tumorThreshold()},
		sums: []CategoryMonthCount{
			{CategoryKey: "headneck_tumor", Month: "2026-01", Total: 100},
		},
	}
	svc := NewService(store)

	report, err := svc.Score(context.Background(), "2026-01", "2026-01", 1)
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	row := report.Rows[0]
	if row.AdjustedSum != 100 {
		t.Fatalf("unexpected adjusted sum: %v", row.AdjustedSum)
	}
	// 100 satisfies both bands; tier 2 wins.
	if row.Score != 0.2 {
		t.Fatalf("expected tier2 point 0.2, got %v", row.Score)
	}
	if !row.Met {
		t.Fatal("expected met flag at tier2")
	}
}

func TestScoreBelowAndWithinTier1(t *testing.T) {
	threshold := tumorThreshold()
	threshold.MinForTier1 = 10
	store := &fakeStore{
		thresholds: []Threshold{threshold},
		sums: []CategoryMonthCount{
			{CategoryKey: "headneck_tumor", Month: "2026-01", Total: 5},
		},
	}
	svc := NewService(store)

	// 5 is below tier1's minimum: zero points.
	report, err := svc.Score(context.Background(), "2026-01", "2026-01", 1)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if report.Rows[0].Score != 0 {
		t.Fatalf("expected zero score below tier1, got %v", report.Rows[0].Score)
	}

	// The multiplier lifts it into tier1's band.
	report, err = svc.Score(context.Background(), "2026-01", "2026-01", 4)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	row := report.Rows[0]
	if row.AdjustedSum != 20 || row.Score != 0.1 || row.Met {
		t.Fatalf("expected tier1 scoring, got %+v", row)
	}
}

func TestScoreAggregatesAcrossMonths(t *testing.T) {
	second := tumorThreshold()
	second.CategoryKey = "cosmetic"
	second.CategoryLabel = "K. Cosmetic"
	second.DisplayOrder = 2

	store := &fakeStore{
		thresholds: []Threshold{tumorThreshold(), second},
		sums: []CategoryMonthCount{
			{CategoryKey: "headneck_tumor", Month: "2025-12", Total: 30},
			{CategoryKey: "headneck_tumor", Month: "2026-01", Total: 20},
			// Manual and auto sums for the same cell accumulate.
			{CategoryKey: "headneck_tumor", Month: "2026-01", Total: 5},
			{CategoryKey: "cosmetic", Month: "2026-01", Total: 60},
		},
	}
	svc := NewService(store)

	report, err := svc.Score(context.Background(), "2025-12", "2026-01", 2)
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	if !reflect.DeepEqual(report.Months, []string{"2025-12", "2026-01"}) {
		t.Fatalf("unexpected months: %v", report.Months)
	}

	tumor := report.Rows[0]
	if !reflect.DeepEqual(tumor.MonthlyCounts, []int{30, 25}) {
		t.Fatalf("unexpected tumor monthly counts: %v", tumor.MonthlyCounts)
	}
	if tumor.RawSum != 55 || tumor.AdjustedSum != 110 {
		t.Fatalf("unexpected tumor sums: %+v", tumor)
	}
	if tumor.Score != 0.2 {
		t.Fatalf("expected tier2 for tumor, got %v", tumor.Score)
	}

	cosmetic := report.Rows[1]
	if cosmetic.RawSum != 60 || cosmetic.AdjustedSum != 120 || cosmetic.Score != 0.2 {
		t.Fatalf("unexpected cosmetic row: %+v", cosmetic)
	}

	totals := report.Totals
	if !reflect.DeepEqual(totals.MonthlyRawTotals, []int{30, 85}) {
		t.Fatalf("unexpected monthly totals: %v", totals.MonthlyRawTotals)
	}
	if totals.TotalRawSum != 115 || totals.TotalAdjustedSum != 230 {
		t.Fatalf("unexpected grand totals: %+v", totals)
	}
	if totals.MetCount != 2 || totals.UnmetCount != 0 {
		t.Fatalf("unexpected met counts: %+v", totals)
	}
}

func TestScoreWarnings(t *testing.T) {
	store := &fakeStore{
		thresholds: []Threshold{tumorThreshold()},
		totals: []MonthCaseTotal{
			// Every case misses a code: data for the month is absent.
			{Month: "2026-01", TotalCases: 12, MissingCases: 12},
			// Partial gap.
			{Month: "2026-02", TotalCases: 10, MissingCases: 3},
			// Fully coded: no warning.
			{Month: "2026-03", TotalCases: 8, MissingCases: 0},
		},
	}
	svc := NewService(store)

	report, err := svc.Score(context.Background(), "2026-01", "2026-03", 1)
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	if len(report.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", report.Warnings)
	}
	if report.Warnings[0] != "2026.01 has no categorized cases; all 12 cases lack a diagnosis code." {
		t.Fatalf("unexpected first warning: %q", report.Warnings[0])
	}
	if report.Warnings[1] != "2026.02 has 3 cases without diagnosis code; excluded from score." {
		t.Fatalf("unexpected second warning: %q", report.Warnings[1])
	}
}
