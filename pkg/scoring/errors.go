package scoring

import "errors"

// ErrNoActiveThresholds means the threshold configuration set is empty;
// scoring cannot proceed without it.
var ErrNoActiveThresholds = errors.New("no active thresholds found")

// RangeError rejects invalid score requests before any read work.
type RangeError struct {
	msg string
}

func (e RangeError) Error() string {
	return e.msg
}

func IsRangeError(err error) bool {
	var re RangeError
	return errors.As(err, &re)
}
