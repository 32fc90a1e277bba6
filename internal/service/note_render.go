package service

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/spec-kit/order-resolution-service/internal/domain"
)

var noteMarkdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderInternalNote formats a fulfillment summary as a Markdown note for
// support agents.
func RenderInternalNote(summary *domain.FulfillmentSummary) string {
	if summary == nil || len(summary.Groups) == 0 {
		return "**Shipping Status**: No fulfillment information available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Shipping Status for #%d\n", summary.OrderNumber)
	fmt.Fprintf(&b, "**Shipments**: %d from %d location(s)\n", summary.ShipmentCount, summary.LocationCount)
	fmt.Fprintf(&b, "**Pending items**: %d\n\n", countItems(summary.PendingItems))

	if summary.IsSplit {
		fmt.Fprintf(&b, "**SPLIT SHIPMENT**: %d separate packages\n\n", len(summary.Groups))
	}
	if summary.Underdetermined {
		b.WriteString("_Shipments carry no location or tracking data; grouping is a guess._\n\n")
	}

	for i, group := range summary.Groups {
		fmt.Fprintf(&b, "### Shipment %d\n", i+1)
		fmt.Fprintf(&b, "- **Warehouse**: %s\n", orDefault(group.LocationName, "Unknown"))
		fmt.Fprintf(&b, "- **Status**: %s\n", group.Status)
		fmt.Fprintf(&b, "- **Carrier**: %s\n", orDefault(strings.Join(group.Carriers, ", "), "Unknown"))
		fmt.Fprintf(&b, "- **Tracking**: %s\n", trackingLinks(group.Records))
		if eta := latestEstimate(group.Records); eta != nil {
			fmt.Fprintf(&b, "- **Est. Delivery**: %s\n", eta.Format(time.DateOnly))
		}
		if len(group.LineItems) > 0 {
			fmt.Fprintf(&b, "- **Items** (%d):\n", len(group.LineItems))
			for _, item := range group.LineItems {
				fmt.Fprintf(&b, "  - %s (x%d)\n", item.Title, item.Quantity)
			}
		}
		b.WriteString("\n")
	}

	if len(summary.PendingItems) > 0 {
		b.WriteString("### Pending Fulfillment\n")
		for _, item := range summary.PendingItems {
			fmt.Fprintf(&b, "- %s (x%d)\n", item.Title, item.Quantity)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n*Auto-generated fulfillment summary*")
	return b.String()
}

// RenderInternalNoteHTML converts a Markdown note to HTML for helpdesks that
// only accept HTML bodies.
func RenderInternalNoteHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := noteMarkdown.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render note html: %w", err)
	}
	return buf.String(), nil
}

// RenderAIContext formats a fulfillment summary as plain text for a reply
// drafting prompt.
func RenderAIContext(summary *domain.FulfillmentSummary) string {
	if summary == nil || len(summary.Groups) == 0 {
		return "ORDER STATUS: No fulfillment information available"
	}

	var b strings.Builder
	if summary.IsSplit {
		fmt.Fprintf(&b, "#%d - SPLIT SHIPMENT (%d packages from %d warehouse(s))\n\n",
			summary.OrderNumber, summary.ShipmentCount, summary.LocationCount)
	} else {
		fmt.Fprintf(&b, "#%d - Single Shipment\n\n", summary.OrderNumber)
	}

	for i, group := range summary.Groups {
		fmt.Fprintf(&b, "Shipment %d: %s %s\n", i+1,
			orDefault(strings.Join(group.Carriers, "/"), "Unknown carrier"),
			orDefault(strings.Join(group.TrackingNumbers, ", "), "No tracking"))
		fmt.Fprintf(&b, "  From: %s\n", orDefault(group.LocationName, "Unknown warehouse"))
		fmt.Fprintf(&b, "  Status: %s\n", group.Status)
		if eta := latestEstimate(group.Records); eta != nil {
			fmt.Fprintf(&b, "  Est. Delivery: %s\n", eta.Format(time.DateOnly))
		}
		if len(group.LineItems) > 0 {
			b.WriteString("  Items:\n")
			for _, item := range group.LineItems {
				fmt.Fprintf(&b, "    - %s (qty: %d)\n", item.Title, item.Quantity)
			}
		}
		b.WriteString("\n")
	}

	if len(summary.PendingItems) > 0 {
		b.WriteString("NOT YET SHIPPED:\n")
		for _, item := range summary.PendingItems {
			fmt.Fprintf(&b, "  - %s (qty: %d)\n", item.Title, item.Quantity)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func trackingLinks(records []domain.FulfillmentRecord) string {
	var links []string
	seen := make(map[string]bool)
	for _, record := range records {
		number := strings.TrimSpace(record.TrackingNumber)
		if number == "" || seen[number] {
			continue
		}
		seen[number] = true
		if record.TrackingURL != "" {
			links = append(links, fmt.Sprintf("[%s](%s)", number, record.TrackingURL))
		} else {
			links = append(links, number)
		}
	}
	return orDefault(strings.Join(links, ", "), "N/A")
}

func latestEstimate(records []domain.FulfillmentRecord) *time.Time {
	var latest *time.Time
	for _, record := range records {
		if eta := record.EstimatedDeliveryAt; eta != nil && (latest == nil || eta.After(*latest)) {
			latest = eta
		}
	}
	return latest
}

func countItems(items []domain.LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
