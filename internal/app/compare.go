package app

import (
	"fmt"

	"review_analytics/internal/domain"
)

// CompareBrands computes independent stats for two brands over their
// complete history. Date and rating filters are deliberately not applied;
// the comparison view has always compared full brand history and existing
// exports depend on that.
func CompareBrands(d domain.Dataset, brandA, brandB string) (domain.BrandStats, domain.BrandStats, error) {
	var none domain.BrandStats
	if len(d.Brands()) < 2 {
		return none, none, domain.ErrComparisonUnavailable
	}
	if brandA == brandB {
		return none, none, fmt.Errorf("%w: got %q twice", domain.ErrComparisonUnavailable, brandA)
	}
	a, err := brandStats(d, brandA)
	if err != nil {
		return none, none, err
	}
	b, err := brandStats(d, brandB)
	if err != nil {
		return none, none, err
	}
	return a, b, nil
}

func brandStats(d domain.Dataset, brand string) (domain.BrandStats, error) {
	var rows []domain.Review
	for _, r := range d {
		if r.Brand == brand {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return domain.BrandStats{}, fmt.Errorf("%w: %q", domain.ErrBrandNotFound, brand)
	}

	agg := summarize(rows)
	stats := domain.BrandStats{
		Brand:           brand,
		TotalCount:      agg.TotalCount,
		AverageRating:   agg.AverageRating,
		PositivePct:     agg.PositivePct,
		NegativePct:     agg.NegativePct,
		RatingHistogram: agg.RatingHistogram,
	}

	for _, cat := range domain.Categories() {
		lowered := keywordUnion([]domain.Category{cat})
		n := 0
		for _, r := range rows {
			if containsAny(r.SearchText(), lowered) {
				n++
			}
		}
		stats.Categories = append(stats.Categories, domain.BrandCategoryStats{
			Category: cat,
			Count:    n,
			Pct:      float64(n) / float64(len(rows)) * 100,
		})
	}
	return stats, nil
}
