package domain

import "time"

// Review is one normalized row of a review dataset. Date is truncated to
// UTC midnight; Rating is always 1..5 after a successful load.
type Review struct {
	Brand           string    `json:"brand"`
	CustomerName    string    `json:"customer_name"`
	ReviewText      string    `json:"review_text"`
	Rating          int       `json:"rating"`
	Date            time.Time `json:"date"`
	MatchedKeywords string    `json:"matched_keywords,omitempty"`
	Link            string    `json:"link,omitempty"`
}

// SearchText is the field category matching runs against: the precomputed
// keyword hits when the source provides them, otherwise the review body.
func (r Review) SearchText() string {
	if r.MatchedKeywords != "" {
		return r.MatchedKeywords
	}
	return r.ReviewText
}

func (r Review) Sentiment() Sentiment { return SentimentOf(r.Rating) }

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// SentimentOf buckets a star rating: >=4 positive, <=2 negative, 3 neutral.
func SentimentOf(rating int) Sentiment {
	switch {
	case rating >= 4:
		return SentimentPositive
	case rating <= 2:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
