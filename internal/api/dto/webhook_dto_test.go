package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/order-resolution-service/internal/domain"
	apperrors "github.com/spec-kit/order-resolution-service/pkg/util/errorutil"
)

func decodeWebhook(t *testing.T, body string) TicketWebhookRequest {
	t.Helper()
	var req TicketWebhookRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func TestExternalID(t *testing.T) {
	tests := []struct {
		raw  string
		want ExternalID
	}{
		{`"abc-1"`, "abc-1"},
		{`4242`, "4242"},
		{`null`, ""},
	}
	for _, tt := range tests {
		var id ExternalID
		require.NoError(t, json.Unmarshal([]byte(tt.raw), &id), tt.raw)
		assert.Equal(t, tt.want, id)
	}

	var id ExternalID
	assert.Error(t, json.Unmarshal([]byte(`{"id": 1}`), &id))
}

func TestToDomainBareTicket(t *testing.T) {
	req := decodeWebhook(t, `{
		"id": 77,
		"subject": "Order question",
		"tags": [{"name": "order-1001"}, {"name": ""}],
		"custom_fields": {"order_number": {"value": "1001"}, "priority": 3, "vip": true},
		"messages": [
			{"id": 1, "from_agent": true, "body_text": "How can we help?"},
			{"id": 2, "from_agent": false, "body_text": "Where is my batting?"}
		]
	}`)

	ticket, orders, warnings, err := req.ToDomain()

	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, warnings)
	assert.Equal(t, "77", ticket.ID)
	assert.Equal(t, "2", ticket.MessageID)
	assert.Equal(t, "Where is my batting?", ticket.BodyText)
	assert.Equal(t, []string{"order-1001"}, ticket.Tags)
	assert.Equal(t, map[string]string{"order_number": "1001", "priority": "3"}, ticket.CustomFields)
}

func TestToDomainMessageCreated(t *testing.T) {
	req := decodeWebhook(t, `{
		"ticket": {
			"id": "t-9",
			"customer": {"email": " jane@example.com "},
			"messages": [{"id": "m-1", "body_text": "I ordered on December 11th"}]
		},
		"message": {"id": "m-2", "body_text": "any update?"}
	}`)

	ticket, _, _, err := req.ToDomain()

	require.NoError(t, err)
	assert.Equal(t, "t-9", ticket.ID)
	assert.Equal(t, "m-2", ticket.MessageID)
	assert.Equal(t, "I ordered on December 11th", ticket.BodyText)
	assert.Equal(t, "jane@example.com", ticket.CustomerEmail)
}

func TestToDomainMessageWithoutThread(t *testing.T) {
	req := decodeWebhook(t, `{"ticket": {"id": 5}, "message": {"id": 6, "body_text": "hello"}}`)

	ticket, _, _, err := req.ToDomain()

	require.NoError(t, err)
	assert.Equal(t, "hello", ticket.BodyText)
	assert.Equal(t, "6", ticket.MessageID)
}

func TestToDomainEmbeddedOrders(t *testing.T) {
	req := decodeWebhook(t, `{
		"id": 1,
		"customer": {"email": "jane@example.com", "integrations": {
			"20": {"__integration_type__": "shopify", "orders": [
				{"name": "#1002", "created_at": "2025-11-02T09:00:00Z", "fulfillment_status": "fulfilled", "line_items": []}
			]},
			"10": {"__integration_type__": "shopify", "orders": [
				{"order_number": 1001, "created_at": "2025-10-01T09:00:00Z", "fulfillment_status": null,
				 "line_items": [{"title": "Scissors", "quantity": 2}]}
			]},
			"30": {"__integration_type__": "http", "orders": [{"order_number": 9}]}
		}}
	}`)

	_, orders, warnings, err := req.ToDomain()

	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, orders, 2)
	assert.Equal(t, domain.OrderCandidate{
		OrderNumber:       1001,
		CreatedAt:         time.Date(2025, time.October, 1, 9, 0, 0, 0, time.UTC),
		FulfillmentStatus: domain.FulfillmentStatusUnfulfilled,
		LineItems:         []domain.LineItem{{Title: "Scissors", Quantity: 2}},
	}, orders[0])
	assert.Equal(t, int64(1002), orders[1].OrderNumber)
	assert.Equal(t, domain.FulfillmentStatusFulfilled, orders[1].FulfillmentStatus)
}

func TestToDomainSkipsUnreadableEmbeddedOrders(t *testing.T) {
	req := decodeWebhook(t, `{
		"id": 1,
		"subject": "Where is order #1001?",
		"customer": {"email": "jane@example.com", "integrations": {
			"10": {"__integration_type__": "shopify", "orders": [
				{"order_number": 1001, "created_at": "2025-10-01T09:00:00Z", "fulfillment_status": null, "line_items": []},
				{"order_number": 1002, "created_at": ""},
				{"name": "#A1", "created_at": "2025-10-01T09:00:00Z"},
				{"created_at": "2025-10-01T09:00:00Z"}
			]}
		}}
	}`)

	ticket, orders, warnings, err := req.ToDomain()

	require.NoError(t, err)
	assert.Equal(t, "Where is order #1001?", ticket.Subject)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(1001), orders[0].OrderNumber)
	require.Len(t, warnings, 3)
	assert.Contains(t, warnings[0], "embedded_order 10[1]: created_at")
	assert.Contains(t, warnings[1], "embedded_order 10[2]")
	assert.Contains(t, warnings[2], "order_number required")
}

func TestToDomainRequiresTicketID(t *testing.T) {
	req := decodeWebhook(t, `{"subject": "hi"}`)

	_, _, _, err := req.ToDomain()

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}
