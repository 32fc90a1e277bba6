package shipment

import (
	"strings"
	"time"

	"github.com/spec-kit/order-resolution-service/internal/domain"
)

// Summarize renders an order's fulfillment records as a FulfillmentSummary.
// orderItems are the order's line items; quantities not covered by any record
// are reported as pending. The result is data only, never prose.
func Summarize(orderNumber int64, records []domain.FulfillmentRecord, orderItems []domain.LineItem) domain.FulfillmentSummary {
	groups, basis := Group(records)

	summary := domain.FulfillmentSummary{
		OrderNumber:     orderNumber,
		IsSplit:         len(groups) > 1,
		Basis:           basis,
		Underdetermined: len(records) > 0 && basis == domain.GroupByNone,
		Groups:          groups,
		ShipmentCount:   len(records),
		Carriers:        []string{},
		PendingItems:    pendingItems(orderItems, records),
	}

	locations := make(map[string]bool)
	for _, record := range records {
		if name := strings.ToLower(strings.TrimSpace(record.LocationName)); name != "" {
			locations[name] = true
		}
		summary.Carriers = appendDistinct(summary.Carriers, record.Carrier)
		summary.DeliveryWindow = widen(summary.DeliveryWindow, deliveryDate(record))
	}
	summary.LocationCount = len(locations)
	return summary
}

// SummarizeOrder is Summarize for a provider's OrderFulfillment.
func SummarizeOrder(of domain.OrderFulfillment) domain.FulfillmentSummary {
	return Summarize(of.OrderNumber, of.Records, of.LineItems)
}

func deliveryDate(record domain.FulfillmentRecord) *time.Time {
	if record.DeliveredAt != nil {
		return record.DeliveredAt
	}
	return record.EstimatedDeliveryAt
}

func widen(window domain.DeliveryWindow, at *time.Time) domain.DeliveryWindow {
	if at == nil {
		return window
	}
	if window.Earliest == nil || at.Before(*window.Earliest) {
		window.Earliest = at
	}
	if window.Latest == nil || at.After(*window.Latest) {
		window.Latest = at
	}
	return window
}

// pendingItems subtracts shipped quantities, matched by case-insensitive
// title, from the ordered quantities.
func pendingItems(orderItems []domain.LineItem, records []domain.FulfillmentRecord) []domain.LineItem {
	shipped := make(map[string]int)
	for _, record := range records {
		for _, item := range record.LineItems {
			shipped[titleKey(item.Title)] += item.Quantity
		}
	}

	pending := []domain.LineItem{}
	for _, item := range orderItems {
		key := titleKey(item.Title)
		covered := shipped[key]
		if covered > item.Quantity {
			covered = item.Quantity
		}
		shipped[key] -= covered
		if remaining := item.Quantity - covered; remaining > 0 {
			pending = append(pending, domain.LineItem{Title: item.Title, Quantity: remaining})
		}
	}
	return pending
}

func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
