package ingestion

import "errors"

// ErrUnresolvedDate means neither the file name nor the sheet header
// carried a usable date. Date resolution already prefers the file name,
// so there is nothing left to fall back to and the file is rejected.
var ErrUnresolvedDate = errors.New("could not resolve log date from file name or sheet")

// ParseError wraps failures while reading or parsing a workbook. The
// store is untouched when one occurs.
type ParseError struct {
	cause error
}

func (e ParseError) Error() string {
	return "parse failure: " + e.cause.Error()
}

func (e ParseError) Unwrap() error {
	return e.cause
}

func IsParseError(err error) bool {
	var pe ParseError
	return errors.As(err, &pe)
}

// PersistenceError wraps failures inside the day-replacement
// transaction. The transaction has been rolled back in full.
type PersistenceError struct {
	cause error
}

func (e PersistenceError) Error() string {
	return "persistence failure: " + e.cause.Error()
}

func (e PersistenceError) Unwrap() error {
	return e.cause
}

func IsPersistenceError(err error) bool {
	var pe PersistenceError
	return errors.As(err, &pe)
}
