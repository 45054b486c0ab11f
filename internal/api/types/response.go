// internal/api/types/response.go
package types

import (
	"github.com/shopspring/decimal"

	"speedo-transfer/internal/domain"
)

// ErrorResponse is the body of every non-2xx response.
// Fields is set only for request validation failures, keyed by JSON field name.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// HistoryResponse wraps a caller's transfer history.
type HistoryResponse struct {
	Transactions []domain.TransferResult `json:"transactions"`
}

// ListResponse defines a generic envelope for collection responses.
// T represents the type of data contained in the 'Data' slice.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

// NewListResponse wraps items, never encoding a nil slice as null.
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Data: items, Count: len(items)}
}

type LoginResponse struct {
	Token string `json:"token"`
}

type ExchangeRateResponse struct {
	From domain.Currency `json:"from"`
	To   domain.Currency `json:"to"`
	Rate decimal.Decimal `json:"rate"`
}
