package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"review_analytics/internal/adapters/observability"
	"review_analytics/internal/domain"
	"review_analytics/internal/storage/csvsource"
)

// LoadService turns the configured sources into one normalized Dataset.
// Each source is cached under dataset:<brand>:<sha1 of raw bytes>, so a
// repeat load with unchanged content is served from the cache and a changed
// source invalidates itself by changing its key.
type LoadService struct {
	reader   domain.SourceReader
	cache    domain.Cache
	cacheTTL time.Duration
	sources  []csvsource.Source
}

func NewLoadService(r domain.SourceReader, c domain.Cache, ttl time.Duration, sources []csvsource.Source) *LoadService {
	return &LoadService{reader: r, cache: c, cacheTTL: ttl, sources: sources}
}

// Load reads every source in configured order, concatenates the normalized
// batches and deduplicates. Any source failure aborts the whole load; no
// partial dataset is returned.
func (s *LoadService) Load(ctx context.Context) (domain.Dataset, error) {
	var all []domain.Review
	for _, src := range s.sources {
		rows, err := s.LoadSource(ctx, src)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
	}
	ds := domain.Dedupe(all)
	if dropped := len(all) - len(ds); dropped > 0 {
		log.Info().Int("dropped", dropped).Msg("duplicate reviews removed")
	}
	return ds, nil
}

// LoadSource normalizes one source, going through the cache. It is safe to
// call concurrently for distinct sources (cmd/report warms the cache that
// way); the analysis pipeline itself only sees the assembled Dataset.
func (s *LoadService) LoadSource(ctx context.Context, src csvsource.Source) ([]domain.Review, error) {
	data, err := s.reader.Read(ctx, src.Location)
	if err != nil {
		observability.ObserveLoad(src.Brand, "error")
		return nil, fmt.Errorf("source %s (%s): %w", src.Brand, src.Location, err)
	}

	key := fmt.Sprintf("dataset:%s:%s", src.Brand, csvsource.Fingerprint(data))
	var rows []domain.Review
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &rows); ok {
			observability.ObserveLoad(src.Brand, "cached")
			return rows, nil
		}
	}

	rows, err = csvsource.Parse(src, data)
	if err != nil {
		observability.ObserveLoad(src.Brand, "error")
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, rows, int(s.cacheTTL.Seconds()))
	}
	observability.ObserveLoad(src.Brand, "parsed")
	log.Info().Str("brand", src.Brand).Int("rows", len(rows)).Msg("source parsed")
	return rows, nil
}
