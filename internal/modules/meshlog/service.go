package meshlog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/meshlog/core/internal/models"
	"github.com/meshlog/core/internal/pkg/idgen"
	"go.uber.org/zap"
)

const (
	// DefaultRecordTTL is the retention horizon for individual records.
	DefaultRecordTTL = 10 * time.Hour
	// DefaultIndexTTL is the retention horizon for the per-day index. It must
	// never be shorter than the record TTL: the index may reference expired
	// records, but a record must never outlive the index that counts it.
	DefaultIndexTTL = 24 * time.Hour

	// DefaultLimit is the page size used when retrieval gets no usable limit.
	DefaultLimit = 20

	queryPrefixLen = 50
	topQueryCount  = 5
)

// Store is the region-partitioned key/value surface the service persists
// through. Implemented by *kv.Partition in production.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Put(ctx context.Context, key, value string, ttl time.Duration) error
}

// Config tunes a Service. Zero values fall back to the defaults above.
type Config struct {
	Region    models.Region
	RecordTTL time.Duration
	IndexTTL  time.Duration
}

// Service ingests request logs and serves aggregated views of them. One
// instance exists per region, created at startup and reused; each call is a
// single request-scoped unit of work with no background machinery.
type Service struct {
	store     Store
	region    models.Region
	ids       idgen.Generator
	logger    *zap.Logger
	recordTTL time.Duration
	indexTTL  time.Duration
	now       func() time.Time
}

// NewService wires a Service for one region.
func NewService(store Store, cfg Config, ids idgen.Generator, logger *zap.Logger) *Service {
	region := cfg.Region
	if region == "" {
		region = models.DefaultRegion
	}
	recordTTL := cfg.RecordTTL
	if recordTTL <= 0 {
		recordTTL = DefaultRecordTTL
	}
	indexTTL := cfg.IndexTTL
	if indexTTL < recordTTL {
		indexTTL = DefaultIndexTTL
	}
	return &Service{
		store:     store,
		region:    region,
		ids:       ids,
		logger:    logger,
		recordTTL: recordTTL,
		indexTTL:  indexTTL,
		now:       time.Now,
	}
}

// LogInput describes one inbound request to record. Every field is optional;
// missing fields get documented defaults.
type LogInput struct {
	Timestamp string
	Method    string
	URL       string
	Query     string
	Headers   map[string]string
}

// IndexSummary is the post-update view of today's index returned to the
// caller of Log.
type IndexSummary struct {
	Date        string `json:"date"`
	TotalCount  int    `json:"totalCount"`
	TotalLogIDs int    `json:"totalLogIds"`
}

// LogResult is the outcome of a successful ingestion.
type LogResult struct {
	ID      string
	Region  models.Region
	Summary IndexSummary
}

// Log persists one request record and folds it into today's index.
//
// The record is always written before the index is touched, so the index
// never references a record that was never stored. The reverse gap exists:
// if the index update fails after the record write, the record is logged but
// uncounted, and the whole call still fails. The index read-modify-write has
// no compare-and-swap guard; concurrent ingestions for the same region and
// day race last-writer-wins and can lose an increment.
func (s *Service) Log(ctx context.Context, in LogInput) (LogResult, error) {
	now := s.now()
	rec := models.LogRecord{
		ID:        s.ids.NewID(),
		Timestamp: in.Timestamp,
		Method:    in.Method,
		URL:       in.URL,
		Query:     in.Query,
		UserAgent: userAgentFrom(in.Headers),
	}
	if rec.Timestamp == "" {
		rec.Timestamp = now.UTC().Format(time.RFC3339)
	}
	if rec.Method == "" {
		rec.Method = "POST"
	}
	if rec.URL == "" {
		rec.URL = "Unknown URL"
	}
	if rec.Query == "" {
		rec.Query = "No query provided"
	}

	if err := s.store.Put(ctx, recordKey(rec.ID), encodeValue(rec), s.recordTTL); err != nil {
		return LogResult{}, fmt.Errorf("ingestion failed: write record: %w", err)
	}

	day := dayKey(now)
	raw, found, err := s.store.Get(ctx, indexKey(day))
	if err != nil {
		return LogResult{}, fmt.Errorf("ingestion failed: read index: %w", err)
	}
	idx := s.decodeIndex(raw, found, day)
	idx.LogIDs = append(idx.LogIDs, rec.ID)
	idx.Count++

	if err := s.store.Put(ctx, indexKey(day), encodeValue(idx), s.indexTTL); err != nil {
		return LogResult{}, fmt.Errorf("ingestion failed: update index: %w", err)
	}

	s.logger.Info("request logged",
		zap.String("id", rec.ID),
		zap.String("region", string(s.region)),
		zap.Int("count", idx.Count),
	)

	return LogResult{
		ID:     rec.ID,
		Region: s.region,
		Summary: IndexSummary{
			Date:        idx.Date,
			TotalCount:  idx.Count,
			TotalLogIDs: len(idx.LogIDs),
		},
	}, nil
}

// RecentQuery selects a day's page of records. Day defaults to today (UTC);
// Limit values below 1 fall back to DefaultLimit. No upper bound is enforced
// here; callers are expected to impose one.
type RecentQuery struct {
	Day   string
	Limit int
}

// RecentResult is a page of records plus derived statistics.
type RecentResult struct {
	Logs           []models.LogRecord
	Statistics     models.Statistics
	RequestedLimit int
	TotalAvailable int
}

// Recent loads the day's index and returns the most recent records,
// newest-first, with statistics computed over the fetched page. A missing or
// expired day resolves to an empty result, never an error; individual
// records that expired ahead of the index are silently skipped.
func (s *Service) Recent(ctx context.Context, q RecentQuery) (RecentResult, error) {
	day := q.Day
	if day == "" {
		day = dayKey(s.now())
	}
	limit := q.Limit
	if limit < 1 {
		limit = DefaultLimit
	}

	raw, found, err := s.store.Get(ctx, indexKey(day))
	if err != nil {
		return RecentResult{}, fmt.Errorf("fetch logs: read index: %w", err)
	}
	idx := s.decodeIndex(raw, found, day)
	total := len(idx.LogIDs)

	// Last N appended ids, presented newest-first.
	start := total - limit
	if start < 0 {
		start = 0
	}
	logs := make([]models.LogRecord, 0, total-start)
	for i := total - 1; i >= start; i-- {
		recRaw, recFound, err := s.store.Get(ctx, recordKey(idx.LogIDs[i]))
		if err != nil {
			return RecentResult{}, fmt.Errorf("fetch logs: read record: %w", err)
		}
		if !recFound {
			continue
		}
		rec, ok := decodeRecord(recRaw)
		if !ok {
			s.logger.Warn("stored record unreadable, skipping", zap.String("id", idx.LogIDs[i]))
			continue
		}
		logs = append(logs, rec)
	}

	stats := models.Statistics{
		Today:          idx,
		CountRetrieved: len(logs),
		TopQueries:     topQueries(logs),
	}
	oneHourAgo := s.now().Add(-time.Hour)
	for _, rec := range logs {
		ts, err := time.Parse(time.RFC3339, rec.Timestamp)
		if err != nil {
			continue
		}
		if ts.After(oneHourAgo) {
			stats.RequestsInLastHour++
		}
	}
	if len(logs) > 0 {
		stats.MostRecentTimestamp = logs[0].Timestamp
	}

	return RecentResult{
		Logs:           logs,
		Statistics:     stats,
		RequestedLimit: limit,
		TotalAvailable: total,
	}, nil
}

// topQueries ranks normalized query fingerprints by frequency. Ties keep
// first-encounter order, so identical input order yields identical output.
func topQueries(logs []models.LogRecord) []models.QueryCount {
	counts := map[string]int{}
	order := make([]string, 0, len(logs))
	for _, rec := range logs {
		key := normalizeQuery(rec.Query)
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	out := make([]models.QueryCount, 0, len(order))
	for _, key := range order {
		out = append(out, models.QueryCount{Query: key, Count: counts[key]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > topQueryCount {
		out = out[:topQueryCount]
	}
	return out
}

// normalizeQuery truncates to a fixed prefix and collapses whitespace runs,
// producing the frequency-counting key.
func normalizeQuery(query string) string {
	if query == "" {
		query = "Unknown"
	}
	runes := []rune(query)
	if len(runes) > queryPrefixLen {
		runes = runes[:queryPrefixLen]
	}
	return strings.Join(strings.Fields(string(runes)), " ")
}

func userAgentFrom(headers map[string]string) string {
	for name, value := range headers {
		if strings.EqualFold(name, "user-agent") && value != "" {
			return value
		}
	}
	return "Unknown"
}
