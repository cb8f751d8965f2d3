package meshlog

import (
	"testing"

	"github.com/meshlog/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCodecService() *Service {
	return NewService(nil, Config{}, nil, zap.NewNop())
}

func TestDecodeIndexAbsent(t *testing.T) {
	svc := newCodecService()

	idx := svc.decodeIndex("", false, testDay)
	assert.Equal(t, models.DailyIndex{Date: testDay, Count: 0, LogIDs: []string{}}, idx)
}

func TestDecodeIndexWellFormed(t *testing.T) {
	svc := newCodecService()

	idx := svc.decodeIndex(`{"date":"2026-08-29","count":3,"logIds":["a","b","c"]}`, true, testDay)
	assert.Equal(t, "2026-08-29", idx.Date)
	assert.Equal(t, 3, idx.Count)
	assert.Equal(t, []string{"a", "b", "c"}, idx.LogIDs)
}

func TestDecodeIndexNeverFails(t *testing.T) {
	svc := newCodecService()

	tests := []struct {
		name string
		raw  string
	}{
		{"legacy plain string", `"42 requests so far"`},
		{"unquoted legacy string", "42 requests so far"},
		{"truncated json", `{"date":"2026-08-30","count":7,"logI`},
		{"wrong field types", `{"date":17,"count":"five","logIds":123}`},
		{"array instead of object", `["a","b"]`},
		{"empty value", "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := svc.decodeIndex(tt.raw, true, testDay)
			assert.Equal(t, testDay, idx.Date)
			assert.Equal(t, 0, idx.Count)
			assert.Empty(t, idx.LogIDs)
		})
	}
}

func TestDecodeIndexSalvagesPartialFields(t *testing.T) {
	svc := newCodecService()

	// Legacy writers stored a "requests" array instead of logIds; the count
	// survives, the id list resets.
	idx := svc.decodeIndex(`{"date":"2026-08-30","count":4,"requests":[{"method":"POST"}]}`, true, testDay)
	assert.Equal(t, 4, idx.Count)
	assert.Empty(t, idx.LogIDs)

	// A corrupt count resets while a valid id list survives.
	idx = svc.decodeIndex(`{"date":"2026-08-30","count":null,"logIds":["a"]}`, true, testDay)
	assert.Equal(t, 0, idx.Count)
	assert.Equal(t, []string{"a"}, idx.LogIDs)
}

func TestDecodeRecord(t *testing.T) {
	rec, ok := decodeRecord(`{"id":"abc","timestamp":"2026-08-30T11:00:00Z","method":"GET","url":"/graphql","query":"q","userAgent":"curl"}`)
	require.True(t, ok)
	assert.Equal(t, "abc", rec.ID)
	assert.Equal(t, "GET", rec.Method)

	_, ok = decodeRecord(`{"id":`)
	assert.False(t, ok)
}

func TestEncodeValue(t *testing.T) {
	assert.Equal(t, "already a string", encodeValue("already a string"))
	assert.Equal(t,
		`{"date":"2026-08-30","count":1,"logIds":["a"]}`,
		encodeValue(models.DailyIndex{Date: "2026-08-30", Count: 1, LogIDs: []string{"a"}}),
	)
}
