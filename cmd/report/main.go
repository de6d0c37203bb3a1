package main

import (
	"context"
	"flag"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"review_analytics/internal/adapters/export"
	"review_analytics/internal/adapters/fetch"
	"review_analytics/internal/adapters/observability"
	redisad "review_analytics/internal/adapters/redis"
	"review_analytics/internal/app"
	"review_analytics/internal/domain"
	"review_analytics/internal/shared"
	"review_analytics/internal/storage/csvsource"
)

// report is the one-shot pipeline: load the configured sources, apply a
// flag-driven FilterSpec, write CSV and XLSX exports of the same view, and
// log the aggregate summary.
func main() {
	var (
		brand      = flag.String("brand", "", "brand filter (empty or 'all' = all brands)")
		from       = flag.String("from", "", "start date YYYY-MM-DD (inclusive)")
		to         = flag.String("to", "", "end date YYYY-MM-DD (inclusive)")
		ratings    = flag.String("ratings", "", "comma-separated ratings 1..5 (empty = all)")
		categories = flag.String("categories", "", "comma-separated category names")
		showAll    = flag.Bool("show-all", false, "ignore the category filter")
		sortField  = flag.String("sort", "date", "sort field: date|rating|customer_name|brand")
		order      = flag.String("order", "desc", "sort order: asc|desc")
		columns    = flag.String("columns", "", "comma-separated export columns")
		out        = flag.String("out", "reviews", "output file prefix")
	)
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	sources, err := csvsource.ParseSpec(cfg.Sources)
	if err != nil {
		log.Fatal().Err(err).Msg("bad REVIEW_SOURCES")
	}
	log.Info().Int("sources", len(sources)).Int("workers", cfg.FetchWorkers).Msg("report starting")

	reader := fetch.New(cfg.FetchRPS)
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	}
	loader := app.NewLoadService(reader, cache, cfg.CacheTTL, sources)

	// warm each source concurrently, bounded; the assembled dataset is
	// built afterwards from cache hits, in configured order
	sem := semaphore.NewWeighted(int64(cfg.FetchWorkers))
	var wg sync.WaitGroup
	for _, src := range sources {
		src := src

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(s csvsource.Source) {
			defer wg.Done()
			defer sem.Release(1)

			if _, err := loader.LoadSource(ctx, s); err != nil {
				log.Warn().Str("brand", s.Brand).Err(err).Msg("source warm failed")
			}
		}(src)
	}
	wg.Wait()

	ds, err := loader.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("dataset load failed")
	}

	spec, err := buildSpec(*brand, *from, *to, *ratings, *categories, *showAll)
	if err != nil {
		log.Fatal().Err(err).Msg("bad filter flags")
	}

	view, err := app.Apply(ds, spec)
	if err != nil {
		log.Fatal().Err(err).Msg("filter failed")
	}
	view, err = app.SortView(view, domain.SortKey{
		Field:      domain.SortField(*sortField),
		Descending: *order != "asc",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("sort failed")
	}

	agg := app.Aggregate(view, domain.BucketDaily)
	ev := log.Info().
		Int("matched", agg.TotalCount).
		Int("dataset", len(ds)).
		Float64("positive_pct", agg.PositivePct).
		Float64("negative_pct", agg.NegativePct).
		Str("filters", spec.Describe())
	if agg.AverageRating != nil {
		ev = ev.Float64("average_rating", *agg.AverageRating)
	}
	ev.Msg("aggregate summary")

	cols := splitList(*columns)
	if err := writeFile(*out+".csv", func(f *os.File) error {
		return export.WriteCSV(f, view, cols)
	}); err != nil {
		log.Fatal().Err(err).Msg("csv export failed")
	}
	if err := writeFile(*out+".xlsx", func(f *os.File) error {
		return export.WriteXLSX(f, view, cols)
	}); err != nil {
		log.Fatal().Err(err).Msg("xlsx export failed")
	}
	log.Info().Str("csv", *out+".csv").Str("xlsx", *out+".xlsx").Msg("report written")
}

func buildSpec(brand, from, to, ratings, categories string, showAll bool) (domain.FilterSpec, error) {
	spec := domain.FilterSpec{Brand: brand, ShowAll: showAll}
	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return spec, err
		}
		spec.Dates.Start = t.UTC()
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return spec, err
		}
		spec.Dates.End = t.UTC()
	}
	for _, p := range splitList(ratings) {
		n, err := strconv.Atoi(p)
		if err != nil {
			return spec, err
		}
		spec.Ratings = append(spec.Ratings, n)
	}
	for _, p := range splitList(categories) {
		spec.Categories = append(spec.Categories, domain.Category(p))
	}
	return spec, spec.Validate()
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
