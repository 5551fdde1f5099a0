package diagnosis

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"b. tumor", "B"},
		{"B. Tumor of scalp", "B"},
		{"  a )congenital", "A"},
		{"K", "K"},
		{"k", "K"},
		{"C- trauma", "C"},
		{"C: trauma", "C"},
		{"unknown", Unknown},
		{"UNKNOWN", Unknown},
		{"-", Unknown},
		{"", Unknown},
		{"   ", Unknown},
		{"Z. other", Unknown},
		{"BURN", Unknown},
		{"left hand (H) mass", "H"},
		{"scalp [J] lesion", "J"},
		{"defect, see D. below", "D"},
		{"L. out of range", Unknown},
		{"skin tumor", Unknown},
	}

	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeFirstMatchWins(t *testing.T) {
	// Leading code outranks a later interior code.
	if got := Normalize("B. tumor (K)"); got != "B" {
		t.Fatalf("expected leading match B, got %q", got)
	}
	// Among interior matches, the earliest wins.
	if got := Normalize("tumor (K) vs C."); got != "K" {
		t.Fatalf("expected first interior match K, got %q", got)
	}
}

func TestValid(t *testing.T) {
	for _, code := range []string{"A", "F", "K"} {
		if !Valid(code) {
			t.Fatalf("expected %s to be valid", code)
		}
	}
	for _, code := range []string{"", "L", "AA", "a"} {
		if Valid(code) {
			t.Fatalf("expected %q to be invalid", code)
		}
	}
}
