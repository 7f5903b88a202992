package dto

import "github.com/fekuna/omnipos-terminal/pkg/apperror"

// StockRequest is one requested line of a sale or availability check.
type StockRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// StockUpdate sets an absolute stock value.
type StockUpdate struct {
	ProductID string `json:"product_id"`
	Stock     int    `json:"stock"`
}

// AvailabilityReport is advisory, not a lock: nothing stops a concurrent
// mutation from invalidating it before a decrement executes.
type AvailabilityReport struct {
	OK         bool                 `json:"ok"`
	Shortfalls []apperror.Shortfall `json:"shortfalls,omitempty"`
}

// WriteResult tags the outcome of a dual write separately per store, so
// callers decide their own tolerance instead of reading one collapsed bool.
type WriteResult struct {
	RemoteOK bool `json:"remote_ok"`
	LocalOK  bool `json:"local_ok"`
}
