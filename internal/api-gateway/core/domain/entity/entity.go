package entity

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrAccountNotFound = errors.New("account not found")
)

type CheckoutLine struct {
	ProductID string
	Quantity  int
}

type CheckoutRequest struct {
	AccountID string
	Lines     []CheckoutLine
}

type PurchaseRequest struct {
	ItemID   string
	Quantity int
	Email    string
	Address  string
}
