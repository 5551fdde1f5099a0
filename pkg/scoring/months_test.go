package scoring

import (
	"reflect"
	"testing"
)

func TestIsValidMonth(t *testing.T) {
	valid := []string{"2026-01", "2025-12", "1999-09"}
	for _, m := range valid {
		if !IsValidMonth(m) {
			t.Fatalf("expected %s to be valid", m)
		}
	}

	invalid := []string{"2025-13", "2025-00", "2026-1", "202601", "2026-01-01", "abcd-ef", ""}
	for _, m := range invalid {
		if IsValidMonth(m) {
			t.Fatalf("expected %s to be invalid", m)
		}
	}
}

func TestMonthRange(t *testing.T) {
	got := MonthRange("2025-11", "2026-02")
	want := []string{"2025-11", "2025-12", "2026-01", "2026-02"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MonthRange = %v, want %v", got, want)
	}

	got = MonthRange("2026-03", "2026-03")
	if !reflect.DeepEqual(got, []string{"2026-03"}) {
		t.Fatalf("single-month range = %v", got)
	}
}
