package report

import (
	"errors"
	"reflect"
	"testing"
)

func TestValidClassificationCode(t *testing.T) {
	valid := []string{"A", "K", "b", " C ", "k"}
	for _, code := range valid {
		if !ValidClassificationCode(code) {
			t.Fatalf("expected %q to be valid", code)
		}
	}

	invalid := []string{"", "L", "AB", "1", "-", "가", "A1"}
	for _, code := range invalid {
		if ValidClassificationCode(code) {
			t.Fatalf("expected %q to be invalid", code)
		}
	}
}

func TestNormalizeCodeCounts(t *testing.T) {
	got, err := normalizeCodeCounts(map[string]int{"a": 1, " B ": 2, "A": 3})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	want := map[string]int{"A": 4, "B": 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if _, err := normalizeCodeCounts(map[string]int{"L": 1}); !errors.Is(err, ErrInvalidClassification) {
		t.Fatalf("expected ErrInvalidClassification for out-of-range code, got %v", err)
	}
	if _, err := normalizeCodeCounts(map[string]int{"A": 0}); !errors.Is(err, ErrInvalidClassification) {
		t.Fatalf("expected ErrInvalidClassification for zero count, got %v", err)
	}

	empty, err := normalizeCodeCounts(nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty map for nil input, got %v, %v", empty, err)
	}
}

func TestPagingParams(t *testing.T) {
	cases := []struct {
		rawPage, rawSize string
		page, size       int
	}{
		{"", "", 1, 20},
		{"0", "0", 1, 20},
		{"3", "50", 3, 50},
		{"-2", "500", 1, 100},
		{"abc", "xyz", 1, 20},
	}
	for _, tc := range cases {
		page, size := pagingParams(tc.rawPage, tc.rawSize)
		if page != tc.page || size != tc.size {
			t.Fatalf("pagingParams(%q, %q) = (%d, %d), want (%d, %d)",
				tc.rawPage, tc.rawSize, page, size, tc.page, tc.size)
		}
	}
}

func TestSortedCodes(t *testing.T) {
	got := sortedCodes(map[string]int{"K": 1, "A": 2, "C": 3})
	want := []string{"A", "C", "K"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
