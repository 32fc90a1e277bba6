package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/order-resolution-service/internal/domain"
)

func TestNormalize(t *testing.T) {
	fallback := time.Date(2025, time.December, 18, 12, 0, 0, 0, time.UTC)
	req := ResolveRequest{
		Ticket: ResolveTicket{ID: "t-1", Subject: "Where is it?", CustomerEmail: "jane@example.com"},
		Candidates: []domain.OrderCandidate{
			{OrderNumber: 1001, CreatedAt: fallback.AddDate(0, 0, -3), FulfillmentStatus: "PARTIALLY_FULFILLED"},
		},
		Fulfillments: []domain.OrderFulfillment{{
			OrderNumber: 1001,
			Records:     []domain.FulfillmentRecord{{Status: "Delivered"}, {Status: "label_printed"}},
		}},
	}

	ticket, now, err := req.Normalize(fallback)

	require.NoError(t, err)
	assert.Equal(t, fallback, now)
	assert.Equal(t, "t-1", ticket.ID)
	assert.Equal(t, "jane@example.com", ticket.CustomerEmail)
	assert.Equal(t, domain.FulfillmentStatusPartial, req.Candidates[0].FulfillmentStatus)
	assert.Equal(t, domain.ShipmentStatusDelivered, req.Fulfillments[0].Records[0].Status)
	assert.Equal(t, domain.ShipmentStatusPending, req.Fulfillments[0].Records[1].Status)
}

func TestNormalizeUsesRequestTime(t *testing.T) {
	at := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	req := ResolveRequest{Ticket: ResolveTicket{Tags: []string{"order-1001"}}, Now: &at}

	_, now, err := req.Normalize(time.Now())

	require.NoError(t, err)
	assert.Equal(t, at, now)
}

func TestNormalizeValidation(t *testing.T) {
	created := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	for name, req := range map[string]ResolveRequest{
		"empty ticket":       {},
		"non positive order": {Ticket: ResolveTicket{BodyText: "hi"}, Candidates: []domain.OrderCandidate{{OrderNumber: -1, CreatedAt: created}}},
		"missing created_at": {Ticket: ResolveTicket{BodyText: "hi"}, Candidates: []domain.OrderCandidate{{OrderNumber: 1}}},
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := req.Normalize(created)
			assert.Error(t, err)
		})
	}
}

func TestNewResolutionResponse(t *testing.T) {
	number := int64(1001)
	resp := NewResolutionResponse(&domain.Resolution{
		ID:          "r-1",
		TicketID:    "t-1",
		Matched:     true,
		OrderNumber: &number,
		Method:      domain.MethodStructuredReference,
	})

	assert.Equal(t, "r-1", resp.ID)
	assert.Equal(t, &number, resp.OrderNumber)
	assert.NotNil(t, resp.UpstreamWarnings)
	assert.Empty(t, resp.UpstreamWarnings)
}
