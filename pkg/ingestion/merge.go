package ingestion

import "github.com/wardstats/platform/pkg/diagnosis"

// mergeCase folds an incoming case into the stored row with the same
// natural key. The repeat count accumulates, and the diagnosis code is
// monotonic: once a valid code is stored it is never replaced, and an
// unknown incoming code never erases a known one.
//
// Kept as a pure function so the rule stays portable across storage
// engines instead of living in dialect-specific CASE WHEN clauses.
func mergeCase(existing, incoming ProfessorCase) ProfessorCase {
	next := existing
	next.Count += incoming.Count
	if !diagnosis.Valid(existing.DiagnosisCode) && diagnosis.Valid(incoming.DiagnosisCode) {
		next.DiagnosisCode = incoming.DiagnosisCode
	}
	return next
}
