package meshlog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/meshlog/core/internal/models"
	"go.uber.org/zap"
)

// The index's stored shape has drifted across deployments: older writers
// persisted plain strings or a "requests" array instead of "logIds", and a
// truncated value is always possible. Decoding is therefore total: anything
// unreadable collapses to a well-defined default instead of failing the
// caller's request. Fallbacks are logged at warn level for observability
// only.

// rawIndex defers field decoding so one wrongly-typed field does not discard
// the rest of the value.
type rawIndex struct {
	Date   json.RawMessage `json:"date"`
	Count  json.RawMessage `json:"count"`
	LogIDs json.RawMessage `json:"logIds"`
}

func freshIndex(day string) models.DailyIndex {
	return models.DailyIndex{Date: day, Count: 0, LogIDs: []string{}}
}

// decodeIndex turns a stored value into a DailyIndex. Absent, legacy-shaped,
// or corrupt input yields a zero-value index for the given day.
func (s *Service) decodeIndex(raw string, found bool, day string) models.DailyIndex {
	if !found || strings.TrimSpace(raw) == "" {
		return freshIndex(day)
	}

	var parsed rawIndex
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		s.logger.Warn("stored index unreadable, using fresh index",
			zap.String("day", day), zap.Error(err))
		return freshIndex(day)
	}

	idx := freshIndex(day)
	var date string
	if err := json.Unmarshal(parsed.Date, &date); err == nil && date != "" {
		idx.Date = date
	}
	var count float64
	if err := json.Unmarshal(parsed.Count, &count); err != nil {
		s.logger.Warn("stored index count is not numeric, resetting", zap.String("day", day))
	} else {
		idx.Count = int(count)
	}
	var ids []string
	if err := json.Unmarshal(parsed.LogIDs, &ids); err != nil || ids == nil {
		s.logger.Warn("stored index logIds is not a sequence, resetting", zap.String("day", day))
	} else {
		idx.LogIDs = ids
	}
	return idx
}

// decodeRecord parses a stored log record. The second return value is false
// for corrupt values; callers skip those rather than erroring.
func decodeRecord(raw string) (models.LogRecord, bool) {
	var rec models.LogRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return models.LogRecord{}, false
	}
	return rec, true
}

// encodeValue serializes a value to the store's string representation.
// Strings pass through without re-encoding.
func encodeValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err == nil {
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}
