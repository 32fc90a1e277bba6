package domain

import (
	"strings"
	"time"
)

// FulfillmentStatus is the order level fulfillment state reported by the store.
type FulfillmentStatus string

const (
	FulfillmentStatusUnfulfilled FulfillmentStatus = "unfulfilled"
	FulfillmentStatusPartial     FulfillmentStatus = "partial"
	FulfillmentStatusFulfilled   FulfillmentStatus = "fulfilled"
)

// ParseFulfillmentStatus normalizes store specific spellings such as
// PARTIALLY_FULFILLED or "partial" into a FulfillmentStatus. Anything that is
// neither fully nor partially shipped (null, ON_HOLD, IN_PROGRESS, ...) counts
// as unfulfilled.
func ParseFulfillmentStatus(raw string) FulfillmentStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "fulfilled", "restocked":
		return FulfillmentStatusFulfilled
	case "partial", "partially_fulfilled", "partially fulfilled":
		return FulfillmentStatusPartial
	default:
		return FulfillmentStatusUnfulfilled
	}
}

// Open reports whether the order still has items waiting to ship.
func (s FulfillmentStatus) Open() bool {
	return s == FulfillmentStatusUnfulfilled || s == FulfillmentStatusPartial
}

// LineItem is one purchased item and its quantity.
type LineItem struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
}

// OrderCandidate is one order belonging to the ticket's customer.
type OrderCandidate struct {
	OrderNumber       int64             `json:"order_number"`
	CreatedAt         time.Time         `json:"created_at"`
	FulfillmentStatus FulfillmentStatus `json:"fulfillment_status"`
	LineItems         []LineItem        `json:"line_items"`
}
