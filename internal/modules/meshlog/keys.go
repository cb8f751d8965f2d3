package meshlog

import "time"

const (
	recordKeyPrefix = "record:"
	indexKeyPrefix  = "index:"

	dayLayout = "2006-01-02"
)

func recordKey(id string) string {
	return recordKeyPrefix + id
}

// indexKey builds the per-day index key. The store partition already scopes
// keys by region, so the day is the only variable part.
func indexKey(day string) string {
	return indexKeyPrefix + day
}

// dayKey formats an instant as the UTC calendar day key.
func dayKey(t time.Time) string {
	return t.UTC().Format(dayLayout)
}
