package httpx

import "github.com/shopspring/decimal"

type CatalogItemDTO struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Creator    string          `json:"creator"`
	Year       int             `json:"year"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Kind       string          `json:"kind"`
	Available  bool            `json:"available"`
	Stock      int             `json:"stock,omitempty"`
	FileFormat string          `json:"file_format,omitempty"`
}

type PurchaseRequest struct {
	Quantity int    `json:"quantity"`
	Email    string `json:"email"`
	Address  string `json:"address"`
}

type PurchaseResponse struct {
	ItemID      string          `json:"item_id"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
	Fulfillment FulfillmentDTO  `json:"fulfillment"`
}

type FulfillmentDTO struct {
	Kind        string `json:"kind"`
	Destination string `json:"destination"`
	ItemID      string `json:"item_id"`
}

type ProductDTO struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	QuantityOnHand int             `json:"quantity_on_hand"`
	WeightGrams    int             `json:"weight_grams"`
	// ExpiryDate is formatted as YYYY-MM-DD.
	ExpiryDate string `json:"expiry_date,omitempty"`
}

type CreateAccountRequest struct {
	Owner   string          `json:"owner"`
	Balance decimal.Decimal `json:"balance"`
}

type AccountResponse struct {
	ID      string          `json:"id"`
	Owner   string          `json:"owner"`
	Balance decimal.Decimal `json:"balance"`
}

type CheckoutRequest struct {
	AccountID string            `json:"account_id"`
	Lines     []CheckoutLineDTO `json:"lines"`
}

type CheckoutLineDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CheckoutStatusResponse struct {
	CheckoutID string   `json:"checkout_id"`
	Status     string   `json:"status"`
	Step       string   `json:"step"`
	Errors     []string `json:"errors,omitempty"`
	TraceID    string   `json:"trace_id,omitempty"`
	UpdatedAt  string   `json:"updated_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
