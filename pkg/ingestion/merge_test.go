package ingestion

import "testing"

func TestMergeCaseAccumulatesCount(t *testing.T) {
	existing := ProfessorCase{Count: 1, DiagnosisCode: "B"}
	incoming := ProfessorCase{Count: 1, DiagnosisCode: "B"}

	merged := mergeCase(existing, incoming)
	if merged.Count != 2 {
		t.Fatalf("expected count 2, got %d", merged.Count)
	}

	merged = mergeCase(merged, incoming)
	if merged.Count != 3 {
		t.Fatalf("expected count 3, got %d", merged.Count)
	}
}

func TestMergeCaseMonotonicDiagnosisCode(t *testing.T) {
	// unknown -> B: the code is learned.
	merged := mergeCase(ProfessorCase{Count: 1, DiagnosisCode: ""}, ProfessorCase{Count: 1, DiagnosisCode: "B"})
	if merged.DiagnosisCode != "B" {
		t.Fatalf("expected learned code B, got %q", merged.DiagnosisCode)
	}

	// B -> unknown: the known code is kept.
	merged = mergeCase(merged, ProfessorCase{Count: 1, DiagnosisCode: ""})
	if merged.DiagnosisCode != "B" {
		t.Fatalf("unknown must not erase known code, got %q", merged.DiagnosisCode)
	}
	if merged.Count != 3 {
		t.Fatalf("count must still accumulate, got %d", merged.Count)
	}

	// B -> C: once known, the stored code stays.
	merged = mergeCase(merged, ProfessorCase{Count: 1, DiagnosisCode: "C"})
	if merged.DiagnosisCode != "B" {
		t.Fatalf("known code must not be overwritten, got %q", merged.DiagnosisCode)
	}
}
