package domain

import "strings"

// ReferenceSource names where an explicit order number was found.
type ReferenceSource string

const (
	ReferenceSourceCustomField ReferenceSource = "custom_field"
	ReferenceSourceSubject     ReferenceSource = "subject"
	ReferenceSourceBody        ReferenceSource = "body"
	ReferenceSourceTag         ReferenceSource = "tag"
)

// OrderNumberField is the custom field key carrying an explicit order number.
const OrderNumberField = "order_number"

// Ticket is the typed view of an inbound helpdesk ticket.
type Ticket struct {
	ID            string
	MessageID     string
	Subject       string
	BodyText      string
	CustomFields  map[string]string
	Tags          []string
	CustomerEmail string
}

// Text returns the ticket subject followed by the first customer message body.
func (t Ticket) Text() string {
	subject := strings.TrimSpace(t.Subject)
	body := strings.TrimSpace(t.BodyText)
	switch {
	case subject == "":
		return body
	case body == "":
		return subject
	}
	return subject + "\n" + body
}

// StructuredReference is an order number stated explicitly on the ticket.
type StructuredReference struct {
	OrderNumber int64           `json:"order_number"`
	Source      ReferenceSource `json:"source"`
}
