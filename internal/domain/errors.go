package domain

import "errors"

var (
	// ErrUnknownCategory is returned when a FilterSpec or breakdown names a
	// category that is not in the dictionary.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrBrandNotFound is returned when a comparison names a brand with no
	// rows in the dataset.
	ErrBrandNotFound = errors.New("brand not found in dataset")

	// ErrComparisonUnavailable is returned when the dataset holds fewer than
	// two distinct brands, making a paired comparison undefined.
	ErrComparisonUnavailable = errors.New("comparison requires at least two brands")

	// ErrInvalidSortField is returned for a sort key outside the known set.
	ErrInvalidSortField = errors.New("invalid sort field")

	// ErrUnknownColumn is returned when an export projection names a column
	// outside the canonical schema.
	ErrUnknownColumn = errors.New("unknown column")
)
