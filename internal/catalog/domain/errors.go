package domain

import "errors"

var (
	ErrNotFound        = errors.New("item not found")
	ErrUnavailable     = errors.New("item is not available for purchase")
	ErrOutOfStock      = errors.New("not enough stock")
	ErrNotForSale      = errors.New("demo items are not for sale")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidItem     = errors.New("invalid item")
)
