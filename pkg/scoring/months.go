package scoring

import (
	"fmt"
	"regexp"
	"strconv"
)

var monthPattern = regexp.MustCompile(`^(\d{4})-(0[1-9]|1[0-2])$`)

// IsValidMonth reports whether m is a real YYYY-MM month.
func IsValidMonth(m string) bool {
	return monthPattern.MatchString(m)
}

// monthIndex linearizes a valid YYYY-MM month for ordering and range
// enumeration.
func monthIndex(m string) int {
	year, _ := strconv.Atoi(m[0:4])
	mon, _ := strconv.Atoi(m[5:7])
	return year*12 + (mon - 1)
}

func indexToMonth(idx int) string {
	return fmt.Sprintf("%04d-%02d", idx/12, idx%12+1)
}

// MonthRange enumerates every month from start to end inclusive. Both
// must be valid months with start <= end.
func MonthRange(start, end string) []string {
	from, to := monthIndex(start), monthIndex(end)
	months := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		months = append(months, indexToMonth(i))
	}
	return months
}
