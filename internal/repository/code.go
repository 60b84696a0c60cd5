package repository

import (
	"fmt"
	"strconv"
	"time"
)

const codePrefix = "CMP-"

// CodePrefix returns the day-scoped prefix for complaint codes, e.g.
// "CMP-20250131". The numeric suffix is fixed-width and zero-padded so that
// lexicographic ordering of codes matches numeric ordering within a day.
func CodePrefix(now time.Time) string {
	return codePrefix + now.Format("20060102")
}

// NextComplaintCode derives the next code from the highest existing code for
// the day (empty lastCode starts the sequence at 1). Past 9999 the suffix
// widens to five digits; ordering degrades silently at that point.
func NextComplaintCode(lastCode string, now time.Time) string {
	seq := 1
	if len(lastCode) >= 4 {
		if n, err := strconv.Atoi(lastCode[len(lastCode)-4:]); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s-%04d", CodePrefix(now), seq)
}
