package meshlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "record:abc123", recordKey("abc123"))
	assert.Equal(t, "index:2026-08-30", indexKey("2026-08-30"))
}

func TestDayKeyIsUTC(t *testing.T) {
	// 09:30 on the 30th in UTC+10 is 23:30 on the 29th in UTC.
	loc := time.FixedZone("UTC+10", 10*3600)
	local := time.Date(2026, 8, 30, 9, 30, 0, 0, loc)
	assert.Equal(t, "2026-08-29", dayKey(local))
}
