package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/order-resolution-service/internal/domain"
	apperrors "github.com/spec-kit/order-resolution-service/pkg/util/errorutil"
)

const shopifyIntegrationType = "shopify"

// ExternalID accepts helpdesk ids sent either as JSON numbers or strings.
type ExternalID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ExternalID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ExternalID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ExternalID(n.String())
	return nil
}

// WebhookTag is a helpdesk tag.
type WebhookTag struct {
	Name string `json:"name"`
}

// WebhookMessage is one message in a ticket thread.
type WebhookMessage struct {
	ID        ExternalID `json:"id"`
	BodyText  string     `json:"body_text"`
	FromAgent bool       `json:"from_agent"`
}

// WebhookLineItem is a line item of an embedded store order.
type WebhookLineItem struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
}

// WebhookOrder is a store order embedded by the helpdesk's store integration.
type WebhookOrder struct {
	OrderNumber       *int64            `json:"order_number"`
	Name              string            `json:"name"`
	CreatedAt         string            `json:"created_at"`
	FulfillmentStatus *string           `json:"fulfillment_status"`
	LineItems         []WebhookLineItem `json:"line_items"`
}

// WebhookIntegration is one entry of customer.integrations.
type WebhookIntegration struct {
	Type   string         `json:"__integration_type__"`
	Orders []WebhookOrder `json:"orders"`
}

// WebhookCustomer is the ticket's customer.
type WebhookCustomer struct {
	Email        string                        `json:"email"`
	Integrations map[string]WebhookIntegration `json:"integrations"`
}

// WebhookTicket is the ticket object of a helpdesk webhook.
type WebhookTicket struct {
	ID           ExternalID       `json:"id"`
	Subject      string           `json:"subject"`
	Tags         []WebhookTag     `json:"tags"`
	CustomFields map[string]any   `json:"custom_fields"`
	Customer     *WebhookCustomer `json:"customer"`
	Messages     []WebhookMessage `json:"messages"`
}

// TicketWebhookRequest accepts both delivery shapes: a bare ticket object
// (ticket created) or {"ticket": {...}, "message": {...}} (message created).
type TicketWebhookRequest struct {
	Ticket  *WebhookTicket  `json:"ticket"`
	Message *WebhookMessage `json:"message"`
	WebhookTicket
}

// ToDomain validates the payload and converts it into a domain ticket plus
// any orders the helpdesk embedded. Embedded orders that cannot be read are
// left out and described in the returned warnings.
func (r *TicketWebhookRequest) ToDomain() (domain.Ticket, []domain.OrderCandidate, []string, error) {
	src := &r.WebhookTicket
	if r.Ticket != nil {
		src = r.Ticket
	}
	if strings.TrimSpace(string(src.ID)) == "" {
		return domain.Ticket{}, nil, nil, apperrors.NewValidationError("ticket id required", nil)
	}

	ticket := domain.Ticket{
		ID:           string(src.ID),
		Subject:      src.Subject,
		CustomFields: customFieldValues(src.CustomFields),
		Tags:         make([]string, 0, len(src.Tags)),
	}
	for _, tag := range src.Tags {
		if tag.Name != "" {
			ticket.Tags = append(ticket.Tags, tag.Name)
		}
	}

	if first, ok := firstCustomerMessage(src.Messages); ok {
		ticket.MessageID = string(first.ID)
		ticket.BodyText = first.BodyText
	} else if r.Message != nil {
		ticket.BodyText = r.Message.BodyText
	}
	if r.Message != nil && r.Message.ID != "" {
		ticket.MessageID = string(r.Message.ID)
	}

	var (
		orders   []domain.OrderCandidate
		warnings []string
	)
	if src.Customer != nil {
		ticket.CustomerEmail = strings.TrimSpace(src.Customer.Email)
		orders, warnings = embeddedOrders(src.Customer.Integrations)
	}
	return ticket, orders, warnings, nil
}

func firstCustomerMessage(messages []WebhookMessage) (WebhookMessage, bool) {
	for _, m := range messages {
		if !m.FromAgent {
			return m, true
		}
	}
	if len(messages) > 0 {
		return messages[0], true
	}
	return WebhookMessage{}, false
}

// customFieldValues flattens custom field values to strings. Values may be
// plain scalars or objects carrying a "value" key.
func customFieldValues(fields map[string]any) map[string]string {
	values := make(map[string]string, len(fields))
	for key, raw := range fields {
		if obj, ok := raw.(map[string]any); ok {
			raw = obj["value"]
		}
		switch v := raw.(type) {
		case string:
			values[key] = v
		case float64:
			values[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case json.Number:
			values[key] = v.String()
		}
	}
	return values
}

func embeddedOrders(integrations map[string]WebhookIntegration) ([]domain.OrderCandidate, []string) {
	keys := make([]string, 0, len(integrations))
	for key := range integrations {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var (
		orders   []domain.OrderCandidate
		warnings []string
	)
	for _, key := range keys {
		integration := integrations[key]
		if integration.Type != shopifyIntegrationType {
			continue
		}
		for i, o := range integration.Orders {
			candidate, err := o.toCandidate()
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("embedded_order %s[%d]: %v", key, i, err))
				continue
			}
			orders = append(orders, candidate)
		}
	}
	return orders, warnings
}

func (o WebhookOrder) toCandidate() (domain.OrderCandidate, error) {
	var number int64
	switch {
	case o.OrderNumber != nil:
		number = *o.OrderNumber
	case o.Name != "":
		n, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(o.Name), "#"), 10, 64)
		if err != nil {
			return domain.OrderCandidate{}, fmt.Errorf("order name %q: %w", o.Name, err)
		}
		number = n
	default:
		return domain.OrderCandidate{}, fmt.Errorf("order_number required")
	}

	createdAt, err := time.Parse(time.RFC3339, o.CreatedAt)
	if err != nil {
		return domain.OrderCandidate{}, fmt.Errorf("created_at: %w", err)
	}

	status := ""
	if o.FulfillmentStatus != nil {
		status = *o.FulfillmentStatus
	}
	items := make([]domain.LineItem, 0, len(o.LineItems))
	for _, li := range o.LineItems {
		items = append(items, domain.LineItem{Title: li.Title, Quantity: li.Quantity})
	}
	return domain.OrderCandidate{
		OrderNumber:       number,
		CreatedAt:         createdAt,
		FulfillmentStatus: domain.ParseFulfillmentStatus(status),
		LineItems:         items,
	}, nil
}
