package domain

import "time"

// TrendBucket selects the calendar grain of the sentiment trend.
type TrendBucket string

const (
	BucketDaily   TrendBucket = "daily"
	BucketMonthly TrendBucket = "monthly"
)

// AggregateResult is the full derived summary of a FilteredView. Percentages
// are over TotalCount and are 0 when the view is empty; AverageRating is nil
// ("no data") rather than NaN on an empty view. RatingHistogram always holds
// all five bins, zero-filled for absent ratings.
type AggregateResult struct {
	TotalCount    int      `json:"total_count"`
	AverageRating *float64 `json:"average_rating"`

	PositiveCount int     `json:"positive_count"`
	NeutralCount  int     `json:"neutral_count"`
	NegativeCount int     `json:"negative_count"`
	PositivePct   float64 `json:"positive_pct"`
	NegativePct   float64 `json:"negative_pct"`

	RatingHistogram map[int]int `json:"rating_histogram"`

	// Trend holds one row per (bucket, sentiment) pair that has at least one
	// member; empty combinations are omitted and left to the renderer.
	Trend []TrendPoint `json:"trend,omitempty"`

	// Volume is the plain reviews-per-day series.
	Volume []VolumePoint `json:"volume,omitempty"`
}

type TrendPoint struct {
	Bucket    time.Time `json:"bucket"`
	Sentiment Sentiment `json:"sentiment"`
	Count     int       `json:"count"`
}

type VolumePoint struct {
	Day   time.Time `json:"day"`
	Count int       `json:"count"`
}

// CategoryStats is one row of the per-category breakdown table. Each row is
// an independent recomputation over the full dataset, so a review matching
// two categories counts in both rows.
type CategoryStats struct {
	Category      Category `json:"category"`
	Count         int      `json:"count"`
	AverageRating *float64 `json:"average_rating"`
	PositivePct   float64  `json:"positive_pct"`
}

// BrandStats is one side of a paired brand comparison, computed over the
// brand's complete history (date/rating filters are not applied).
type BrandStats struct {
	Brand           string               `json:"brand"`
	TotalCount      int                  `json:"total_count"`
	AverageRating   *float64             `json:"average_rating"`
	PositivePct     float64              `json:"positive_pct"`
	NegativePct     float64              `json:"negative_pct"`
	RatingHistogram map[int]int          `json:"rating_histogram"`
	Categories      []BrandCategoryStats `json:"categories"`
}

// BrandCategoryStats counts one category within one brand; Pct is relative
// to the brand's total review count.
type BrandCategoryStats struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
	Pct      float64  `json:"pct"`
}
