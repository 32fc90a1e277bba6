package domain

import (
	"strings"
	"time"
)

// ShipmentStatus is the carrier-side state of one physical shipment.
type ShipmentStatus string

const (
	ShipmentStatusPending   ShipmentStatus = "pending"
	ShipmentStatusInTransit ShipmentStatus = "in_transit"
	ShipmentStatusDelivered ShipmentStatus = "delivered"
)

// ParseShipmentStatus maps carrier or store display statuses onto ShipmentStatus.
func ParseShipmentStatus(raw string) ShipmentStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "delivered":
		return ShipmentStatusDelivered
	case "in_transit", "in transit", "out_for_delivery", "out for delivery",
		"attempted_delivery", "ready_for_pickup", "picked_up", "confirmed", "success":
		return ShipmentStatusInTransit
	default:
		return ShipmentStatusPending
	}
}

// FulfillmentRecord is one physical shipment belonging to an order.
type FulfillmentRecord struct {
	LocationName        string         `json:"location_name,omitempty"`
	TrackingNumber      string         `json:"tracking_number,omitempty"`
	Carrier             string         `json:"carrier,omitempty"`
	TrackingURL         string         `json:"tracking_url,omitempty"`
	Status              ShipmentStatus `json:"status"`
	LineItems           []LineItem     `json:"line_items"`
	ShippedAt           *time.Time     `json:"shipped_at,omitempty"`
	EstimatedDeliveryAt *time.Time     `json:"estimated_delivery_at,omitempty"`
	DeliveredAt         *time.Time     `json:"delivered_at,omitempty"`
}

// OrderFulfillment is what a fulfillment provider returns for a resolved order.
type OrderFulfillment struct {
	OrderNumber int64               `json:"order_number"`
	LineItems   []LineItem          `json:"line_items"`
	Records     []FulfillmentRecord `json:"records"`
}

// GroupingBasis records which attribute shipment groups were keyed on.
type GroupingBasis string

const (
	GroupByLocation GroupingBasis = "location"
	GroupByTracking GroupingBasis = "tracking_number"
	GroupByNone     GroupingBasis = "none"
)

// ShipmentGroup is a cluster of records believed to be one package or origin.
type ShipmentGroup struct {
	Key             string              `json:"key"`
	LocationName    string              `json:"location_name,omitempty"`
	Status          ShipmentStatus      `json:"status"`
	TrackingNumbers []string            `json:"tracking_numbers"`
	Carriers        []string            `json:"carriers"`
	LineItems       []LineItem          `json:"line_items"`
	Records         []FulfillmentRecord `json:"records"`
}

// DeliveryWindow spans the earliest and latest known delivery dates.
type DeliveryWindow struct {
	Earliest *time.Time `json:"earliest,omitempty"`
	Latest   *time.Time `json:"latest,omitempty"`
}

// FulfillmentSummary is the structured fulfillment state of a resolved order.
// IsSplit holds iff Groups has more than one element.
type FulfillmentSummary struct {
	OrderNumber     int64           `json:"order_number"`
	IsSplit         bool            `json:"is_split"`
	Basis           GroupingBasis   `json:"grouping_basis"`
	Underdetermined bool            `json:"underdetermined"`
	Groups          []ShipmentGroup `json:"groups"`
	ShipmentCount   int             `json:"shipment_count"`
	LocationCount   int             `json:"location_count"`
	Carriers        []string        `json:"carriers"`
	DeliveryWindow  DeliveryWindow  `json:"delivery_window"`
	PendingItems    []LineItem      `json:"pending_items"`
}
