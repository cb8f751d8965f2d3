package models

import "strings"

// Region selects the storage locality every key is scoped to. One service
// instance exists per region; keys written under one region are invisible to
// the others.
type Region string

const (
	RegionAmericas    Region = "americas"
	RegionEurope      Region = "europe"
	RegionAsiaPacific Region = "asia-pacific"

	// DefaultRegion matches the locality the original deployment ran in.
	DefaultRegion = RegionAsiaPacific
)

// Regions returns every known region, in a stable order.
func Regions() []Region {
	return []Region{RegionAmericas, RegionEurope, RegionAsiaPacific}
}

// ParseRegion resolves a caller-supplied region string. The second return
// value reports whether the input named a known region; unknown or empty
// input resolves to DefaultRegion.
func ParseRegion(raw string) (Region, bool) {
	switch Region(strings.ToLower(strings.TrimSpace(raw))) {
	case RegionAmericas:
		return RegionAmericas, true
	case RegionEurope:
		return RegionEurope, true
	case RegionAsiaPacific:
		return RegionAsiaPacific, true
	}
	return DefaultRegion, false
}

// LogRecord is one ingested request. Created once at ingestion, never
// mutated, and expires from the store after the record TTL.
type LogRecord struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Method    string `json:"method"`
	URL       string `json:"url"`
	Query     string `json:"query"`
	UserAgent string `json:"userAgent"`
}

// DailyIndex is the per-region, per-UTC-day summary of ingested records.
// Count only ever grows; LogIDs is append-only in ingestion order (oldest
// first). Individual records expire before the index does, so LogIDs may
// reference records that are no longer retrievable.
type DailyIndex struct {
	Date   string   `json:"date"`
	Count  int      `json:"count"`
	LogIDs []string `json:"logIds"`
}

// QueryCount is one entry of the top-queries ranking.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// Statistics is computed on every retrieval and never persisted.
type Statistics struct {
	Today               DailyIndex   `json:"today"`
	CountRetrieved      int          `json:"countRetrieved"`
	RequestsInLastHour  int          `json:"requestsInLastHour"`
	MostRecentTimestamp string       `json:"mostRecentTimestamp,omitempty"`
	TopQueries          []QueryCount `json:"topQueries"`
}
