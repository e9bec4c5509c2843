package utils

import (
	"fmt"
	"time"
)

// Daily reference prefixes for POS documents.
const (
	SessionRefPrefix = "POS"
	OrderRefPrefix   = "POS-ORD"
)

// DailyRefPrefix builds the date-scoped prefix a per-day counter runs
// under, e.g. "POS-ORD-20260831-".
func DailyRefPrefix(prefix string, day time.Time) string {
	return fmt.Sprintf("%s-%s-", prefix, day.UTC().Format("20060102"))
}

// NextDailyRef formats the next reference in a per-day sequence:
// "<prefix>-YYYYMMDD-NNNN" where NNNN is the 1-based counter.
func NextDailyRef(prefix string, day time.Time, taken int64) string {
	return fmt.Sprintf("%s%04d", DailyRefPrefix(prefix, day), taken+1)
}
