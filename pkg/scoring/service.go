package scoring

import (
	"context"
	"fmt"
	"math"
	"strings"
)

type Service struct {
	store Store
	cache *Cache
}

type Option func(*Service)

// WithCache enables the redis-backed report cache.
func WithCache(cache *Cache) Option {
	return func(s *Service) { s.cache = cache }
}

func NewService(store Store, opts ...Option) *Service {
	svc := &Service{store: store}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Score computes the committee report for the inclusive month range.
// It either returns a complete report or a single validation error;
// partial rows are never returned.
func (s *Service) Score(ctx context.Context, startMonth, endMonth string, multiplier float64) (*Report, error) {
	if !IsValidMonth(startMonth) || !IsValidMonth(endMonth) {
		return nil, RangeError{msg: "Invalid month format. Use YYYY-MM."}
	}
	if monthIndex(startMonth) > monthIndex(endMonth) {
		return nil, RangeError{msg: "start_month must be before or equal to end_month."}
	}
	if math.IsNaN(multiplier) || math.IsInf(multiplier, 0) || multiplier <= 0 {
		return nil, RangeError{msg: "Invalid multiplier. Use a positive number."}
	}

	if s.cache != nil {
		if report, ok := s.cache.Get(ctx, startMonth, endMonth, multiplier); ok {
			return report, nil
		}
	}

	thresholds, err := s.store.ActiveThresholds(ctx)
	if err != nil {
		return nil, err
	}
	if len(thresholds) == 0 {
		return nil, ErrNoActiveThresholds
	}

	months := MonthRange(startMonth, endMonth)

	sums, err := s.store.CategoryMonthSums(ctx, months)
	if err != nil {
		return nil, err
	}
	caseTotals, err := s.store.MonthCaseTotals(ctx, months)
	if err != nil {
		return nil, err
	}

	report := buildReport(months, multiplier, thresholds, sums, caseTotals)

	if s.cache != nil {
		s.cache.Set(ctx, startMonth, endMonth, multiplier, report)
	}
	return report, nil
}

// Thresholds lists the full threshold configuration, active or not.
func (s *Service) Thresholds(ctx context.Context) ([]Threshold, error) {
	return s.store.AllThresholds(ctx)
}

// buildReport is the pure aggregation core: joins the per-(category,
// month) sums against the threshold bands and assigns tiered scores.
func buildReport(months []string, multiplier float64, thresholds []Threshold, sums []CategoryMonthCount, caseTotals []MonthCaseTotal) *Report {
	counts := make(map[string]map[string]int, len(thresholds))
	for _, sum := range sums {
		byMonth, ok := counts[sum.CategoryKey]
		if !ok {
			byMonth = make(map[string]int, len(months))
			counts[sum.CategoryKey] = byMonth
		}
		byMonth[sum.Month] += sum.Total
	}

	rows := make([]Row, 0, len(thresholds))
	monthlyRawTotals := make([]int, len(months))
	metCount := 0

	for _, t := range thresholds {
		monthly := make([]int, len(months))
		rawSum := 0
		for i, month := range months {
			monthly[i] = counts[t.CategoryKey][month]
			rawSum += monthly[i]
			monthlyRawTotals[i] += monthly[i]
		}
		adjusted := float64(rawSum) * multiplier

		// Tier 2 takes priority: a value on the shared boundary of
		// both bands scores the higher tier.
		score := 0.0
		switch {
		case adjusted >= t.MinForTier2:
			score = t.PointTier2
		case adjusted >= t.MinForTier1 && adjusted <= t.MaxForTier1:
			score = t.PointTier1
		}

		met := score >= t.PointTier2
		if met {
			metCount++
		}

		rows = append(rows, Row{
			CategoryKey:   t.CategoryKey,
			CategoryLabel: t.CategoryLabel,
			MonthlyCounts: monthly,
			RawSum:        rawSum,
			AdjustedSum:   adjusted,
			Threshold: ThresholdBand{
				MinForTier1: t.MinForTier1,
				MaxForTier1: t.MaxForTier1,
				MinForTier2: t.MinForTier2,
				PointTier1:  t.PointTier1,
				PointTier2:  t.PointTier2,
			},
			Score: score,
			Met:   met,
		})
	}

	totalRawSum := 0
	for _, v := range monthlyRawTotals {
		totalRawSum += v
	}

	return &Report{
		Months:     months,
		Multiplier: multiplier,
		Rows:       rows,
		Warnings:   buildWarnings(months, caseTotals),
		Totals: Totals{
			MonthlyRawTotals: monthlyRawTotals,
			TotalRawSum:      totalRawSum,
			TotalAdjustedSum: float64(totalRawSum) * multiplier,
			MetCount:         metCount,
			UnmetCount:       len(rows) - metCount,
		},
	}
}

// buildWarnings flags months whose diagnosis-code data is incomplete: a
// month where every case lacks a code most likely predates code entry,
// while a partial gap means some sheet rows were entered without one.
func buildWarnings(months []string, caseTotals []MonthCaseTotal) []string {
	byMonth := make(map[string]MonthCaseTotal, len(caseTotals))
	for _, t := range caseTotals {
		byMonth[t.Month] = t
	}

	warnings := []string{}
	for _, month := range months {
		t, ok := byMonth[month]
		if !ok || t.TotalCases == 0 {
			continue
		}
		label := strings.ReplaceAll(month, "-", ".")
		switch {
		case t.MissingCases >= t.TotalCases:
			warnings = append(warnings, fmt.Sprintf(
				"%s has no categorized cases; all %d cases lack a diagnosis code.", label, t.TotalCases))
		case t.MissingCases > 0:
			warnings = append(warnings, fmt.Sprintf(
				"%s has %d cases without diagnosis code; excluded from score.", label, t.MissingCases))
		}
	}
	return warnings
}
