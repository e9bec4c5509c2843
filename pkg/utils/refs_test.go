package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDailyRefPrefix(t *testing.T) {
	day := time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "POS-20260831-", DailyRefPrefix(SessionRefPrefix, day))
	assert.Equal(t, "POS-ORD-20260831-", DailyRefPrefix(OrderRefPrefix, day))
}

func TestNextDailyRef(t *testing.T) {
	day := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "POS-20260831-0001", NextDailyRef(SessionRefPrefix, day, 0))
	assert.Equal(t, "POS-ORD-20260831-0042", NextDailyRef(OrderRefPrefix, day, 41))
}

func TestDailyRefPrefixUsesUTCDay(t *testing.T) {
	// 01:30 in UTC+2 is still 23:30 of the previous day in UTC.
	harare := time.FixedZone("CAT", 2*60*60)
	local := time.Date(2026, 8, 31, 1, 30, 0, 0, harare)
	assert.Equal(t, "POS-20260830-", DailyRefPrefix(SessionRefPrefix, local))
}
