package app

import (
	"fmt"
	"sort"
	"time"

	"review_analytics/internal/domain"
)

// Aggregate computes the full derived summary of a view. It is a pure
// function: deterministic, no side effects, and safe on an empty view (no
// division by zero, average reported as absent).
func Aggregate(v domain.FilteredView, bucket domain.TrendBucket) domain.AggregateResult {
	res := summarize(v)
	res.Trend = sentimentTrend(v, bucket)
	res.Volume = reviewVolume(v)
	return res
}

// summarize fills the count/average/sentiment/histogram block shared by
// Aggregate, the category breakdown and the brand comparison.
func summarize(rows []domain.Review) domain.AggregateResult {
	res := domain.AggregateResult{
		TotalCount:      len(rows),
		RatingHistogram: emptyHistogram(),
	}
	if len(rows) == 0 {
		return res
	}

	sum := 0
	for _, r := range rows {
		sum += r.Rating
		res.RatingHistogram[r.Rating]++
		switch r.Sentiment() {
		case domain.SentimentPositive:
			res.PositiveCount++
		case domain.SentimentNegative:
			res.NegativeCount++
		default:
			res.NeutralCount++
		}
	}
	avg := float64(sum) / float64(len(rows))
	res.AverageRating = &avg
	res.PositivePct = float64(res.PositiveCount) / float64(len(rows)) * 100
	res.NegativePct = float64(res.NegativeCount) / float64(len(rows)) * 100
	return res
}

// emptyHistogram keeps the full 1..5 domain present even for bins nothing
// landed in.
func emptyHistogram() map[int]int {
	return map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
}

// sentimentTrend groups the view by (calendar bucket, sentiment) and emits
// one row per non-empty pair, ordered by bucket then sentiment. Empty
// combinations are omitted; the renderer must not assume dense series.
func sentimentTrend(v domain.FilteredView, bucket domain.TrendBucket) []domain.TrendPoint {
	type cell struct {
		t time.Time
		s domain.Sentiment
	}
	counts := make(map[cell]int)
	for _, r := range v {
		counts[cell{truncate(r.Date, bucket), r.Sentiment()}]++
	}
	out := make([]domain.TrendPoint, 0, len(counts))
	for c, n := range counts {
		out = append(out, domain.TrendPoint{Bucket: c.t, Sentiment: c.s, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Bucket.Equal(out[j].Bucket) {
			return out[i].Bucket.Before(out[j].Bucket)
		}
		return sentimentRank(out[i].Sentiment) < sentimentRank(out[j].Sentiment)
	})
	return out
}

func sentimentRank(s domain.Sentiment) int {
	switch s {
	case domain.SentimentPositive:
		return 0
	case domain.SentimentNeutral:
		return 1
	default:
		return 2
	}
}

func truncate(t time.Time, bucket domain.TrendBucket) time.Time {
	if bucket == domain.BucketMonthly {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// reviewVolume is the plain reviews-per-day series behind the timeline
// chart, ordered by day.
func reviewVolume(v domain.FilteredView) []domain.VolumePoint {
	counts := make(map[time.Time]int)
	for _, r := range v {
		counts[truncate(r.Date, domain.BucketDaily)]++
	}
	out := make([]domain.VolumePoint, 0, len(counts))
	for d, n := range counts {
		out = append(out, domain.VolumePoint{Day: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// BreakdownByCategory recomputes the aggregate for a single category over
// the FULL dataset, re-applying the spec's brand/date/rating dimensions.
// It is not a partition of the main view: a review matching two categories
// appears in both breakdowns.
func BreakdownByCategory(d domain.Dataset, spec domain.FilterSpec, cat domain.Category, bucket domain.TrendBucket) (domain.AggregateResult, error) {
	if !cat.Known() {
		return domain.AggregateResult{}, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, cat)
	}
	sub := spec
	sub.Categories = []domain.Category{cat}
	sub.ShowAll = false
	view, err := Apply(d, sub)
	if err != nil {
		return domain.AggregateResult{}, err
	}
	return Aggregate(view, bucket), nil
}

// CategoryBreakdown builds the per-category stats table for every selected
// category, in selection order.
func CategoryBreakdown(d domain.Dataset, spec domain.FilterSpec) ([]domain.CategoryStats, error) {
	if !spec.CategoryActive() {
		return nil, nil
	}
	out := make([]domain.CategoryStats, 0, len(spec.Categories))
	for _, cat := range spec.Categories {
		agg, err := BreakdownByCategory(d, spec, cat, domain.BucketDaily)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.CategoryStats{
			Category:      cat,
			Count:         agg.TotalCount,
			AverageRating: agg.AverageRating,
			PositivePct:   agg.PositivePct,
		})
	}
	return out, nil
}
