package model

import "errors"

// エンティティ側の不変条件違反
var (
	ErrProductNameRequired       = errors.New("product name required")
	ErrProductPriceNegative      = errors.New("price must not be negative")
	ErrProductPriceBelowCost     = errors.New("price must not be lower than cost price")
	ErrProductComparePriceTooLow = errors.New("compare price must not be lower than price")

	ErrReviewRatingOutOfRange = errors.New("rating must be between 1 and 5")
	ErrReviewCommentRequired  = errors.New("comment required")
)
