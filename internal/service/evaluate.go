package service

import (
	"time"

	"github.com/spec-kit/order-resolution-service/internal/domain"
	"github.com/spec-kit/order-resolution-service/internal/matcher"
	"github.com/spec-kit/order-resolution-service/internal/shipment"
)

// Evaluate runs resolution and summarization over data the caller already
// holds. It performs no I/O. fulfillments may include records for orders other
// than the one resolved; only the resolved order's entry is summarized.
func Evaluate(ticket domain.Ticket, candidates []domain.OrderCandidate, fulfillments []domain.OrderFulfillment, now time.Time) domain.ResolutionResult {
	resolved := matcher.Resolve(ticket, candidates, now)
	result := domain.ResolutionResult{ResolvedOrder: resolved}
	if !resolved.Matched {
		return result
	}

	for _, of := range fulfillments {
		if of.OrderNumber != resolved.OrderNumber {
			continue
		}
		if len(of.LineItems) == 0 {
			of.LineItems = candidateLineItems(candidates, of.OrderNumber)
		}
		summary := shipment.SummarizeOrder(of)
		result.FulfillmentSummary = &summary
		break
	}
	return result
}
