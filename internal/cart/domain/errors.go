package domain

import "errors"

var (
	ErrInsufficientStock = errors.New("requested quantity exceeds available stock")
	ErrProductExpired    = errors.New("product is expired")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidProduct    = errors.New("invalid product")
)
