package utils

import (
	"fmt"
	"time"
)

const orderNumberDateLayout = "20060102"

// FormatOrderNumber renders PREFIX-YYYYMMDD-NNNN. Sequences above 9999 keep
// all their digits.
func FormatOrderNumber(prefix string, day time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, day.Format(orderNumberDateLayout), seq)
}

// BusinessDay truncates t to midnight in t's location.
func BusinessDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
