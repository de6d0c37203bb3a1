package domain

// Category is a named bucket of keyword phrases used for coarse topic
// tagging. The set of categories is fixed; the dictionary is static and
// never mutated after process start.
type Category string

const (
	CategoryProductIssue       Category = "product_issue"
	CategoryServiceIssue       Category = "service_issue"
	CategoryExpectation        Category = "expectation"
	CategoryDeliveryIssue      Category = "delivery_issue"
	CategoryPositiveExperience Category = "positive_experience"
)

// categoryKeywords maps each category to its keyword phrases. Matching is
// case-insensitive substring matching over Review.SearchText(); a phrase
// hitting inside unrelated text ("fit" inside "benefit") is an accepted
// false positive.
var categoryKeywords = map[Category][]string{
	CategoryProductIssue: {
		"too small", "too big", "wrong size", "poor fit", "too tight", "loose",
		"didn't fit", "short", "sizing", "fit", "too loose", "height", "weight",
		"poor sizing", "poor sizing information", "lack of sizing information",
		"wrong sizing information", "ordered wrong size", "don't know my size",
		"didn't know which size", "which size", "what's the length",
		"what's the size", "how tall", "what size", "is this suitable for",
		"idk which size", "what size is the model wearing ?",
		"how tall is the model?", "would this fit ?",
	},
	CategoryServiceIssue: {
		"no reply", "didn't respond", "ignored", "bad service", "no response",
		"unhelpful", "rude", "messages from team", "no answer",
	},
	CategoryExpectation: {
		"refund", "return", "exchange", "compensation",
	},
	CategoryDeliveryIssue: {
		"not delivered", "didn't receive", "lost order", "missing item",
		"delivery delay", "waiting",
	},
	CategoryPositiveExperience: {
		"fantastic", "great", "smooth", "helpful", "excellent", "thank you",
		"amazing", "outstanding", "resolved", "fast", "quick",
	},
}

// categoryOrder fixes the display/iteration order.
var categoryOrder = []Category{
	CategoryProductIssue,
	CategoryServiceIssue,
	CategoryExpectation,
	CategoryDeliveryIssue,
	CategoryPositiveExperience,
}

// Categories lists all known categories in a stable order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

func (c Category) Known() bool {
	_, ok := categoryKeywords[c]
	return ok
}

// Keywords returns a copy of the category's keyword phrases so callers can
// display them without being able to mutate the dictionary.
func (c Category) Keywords() ([]string, error) {
	kws, ok := categoryKeywords[c]
	if !ok {
		return nil, ErrUnknownCategory
	}
	out := make([]string, len(kws))
	copy(out, kws)
	return out, nil
}
