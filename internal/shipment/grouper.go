// Package shipment partitions an order's fulfillment records into shipment
// groups and summarizes whether the order ships in more than one package.
package shipment

import (
	"strings"

	"github.com/spec-kit/order-resolution-service/internal/domain"
)

const unassignedKey = "unassigned"

// Group partitions records into shipment groups and reports which attribute
// the groups were keyed on.
//
// Records are grouped by location name when any record carries one, else by
// tracking number, else they all land in one group. A record missing the key
// attribute joins the group of a record sharing its tracking number, or the
// first group, so it never creates a split on its own. Groups appear in order
// of first appearance and keep their records in input order.
func Group(records []domain.FulfillmentRecord) ([]domain.ShipmentGroup, domain.GroupingBasis) {
	if len(records) == 0 {
		return []domain.ShipmentGroup{}, domain.GroupByNone
	}

	basis := groupingBasis(records)
	keys := make([]string, len(records))
	var order []string
	seen := make(map[string]bool)
	for i, record := range records {
		keys[i] = keyFor(record, basis)
		if keys[i] != "" && !seen[keys[i]] {
			seen[keys[i]] = true
			order = append(order, keys[i])
		}
	}

	if len(order) == 0 {
		order = []string{unassignedKey}
	}
	owners := trackingOwners(records, keys)
	for i, record := range records {
		if keys[i] != "" {
			continue
		}
		if owner, ok := owners[strings.TrimSpace(record.TrackingNumber)]; ok {
			keys[i] = owner
			continue
		}
		keys[i] = order[0]
	}

	groups := make([]domain.ShipmentGroup, len(order))
	index := make(map[string]int, len(order))
	for i, key := range order {
		index[key] = i
		groups[i] = domain.ShipmentGroup{
			Key:             key,
			TrackingNumbers: []string{},
			Carriers:        []string{},
			LineItems:       []domain.LineItem{},
		}
	}
	for i, record := range records {
		g := &groups[index[keys[i]]]
		if g.LocationName == "" && basis == domain.GroupByLocation {
			g.LocationName = strings.TrimSpace(record.LocationName)
		}
		g.Records = append(g.Records, record)
		g.LineItems = append(g.LineItems, record.LineItems...)
		g.TrackingNumbers = appendDistinct(g.TrackingNumbers, record.TrackingNumber)
		g.Carriers = appendDistinct(g.Carriers, record.Carrier)
	}
	for i := range groups {
		groups[i].Status = groupStatus(groups[i].Records)
	}
	return groups, basis
}

// IsSplit reports whether the records span more than one shipment group.
func IsSplit(records []domain.FulfillmentRecord) bool {
	groups, _ := Group(records)
	return len(groups) > 1
}

func groupingBasis(records []domain.FulfillmentRecord) domain.GroupingBasis {
	hasTracking := false
	for _, record := range records {
		if strings.TrimSpace(record.LocationName) != "" {
			return domain.GroupByLocation
		}
		if strings.TrimSpace(record.TrackingNumber) != "" {
			hasTracking = true
		}
	}
	if hasTracking {
		return domain.GroupByTracking
	}
	return domain.GroupByNone
}

// keyFor compares locations case-insensitively; warehouses are often typed by
// hand and "NJ Warehouse" and "nj warehouse" are the same building.
func keyFor(record domain.FulfillmentRecord, basis domain.GroupingBasis) string {
	switch basis {
	case domain.GroupByLocation:
		return strings.ToLower(strings.TrimSpace(record.LocationName))
	case domain.GroupByTracking:
		return strings.TrimSpace(record.TrackingNumber)
	default:
		return ""
	}
}

func trackingOwners(records []domain.FulfillmentRecord, keys []string) map[string]string {
	owners := make(map[string]string)
	for i, record := range records {
		tracking := strings.TrimSpace(record.TrackingNumber)
		if keys[i] == "" || tracking == "" {
			continue
		}
		if _, ok := owners[tracking]; !ok {
			owners[tracking] = keys[i]
		}
	}
	return owners
}

func groupStatus(records []domain.FulfillmentRecord) domain.ShipmentStatus {
	delivered, moving := 0, 0
	for _, record := range records {
		switch record.Status {
		case domain.ShipmentStatusDelivered:
			delivered++
		case domain.ShipmentStatusInTransit:
			moving++
		}
	}
	switch {
	case len(records) > 0 && delivered == len(records):
		return domain.ShipmentStatusDelivered
	case moving > 0 || delivered > 0:
		return domain.ShipmentStatusInTransit
	default:
		return domain.ShipmentStatusPending
	}
}

func appendDistinct(values []string, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return values
	}
	for _, existing := range values {
		if existing == value {
			return values
		}
	}
	return append(values, value)
}
