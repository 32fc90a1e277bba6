package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/order-resolution-service/internal/domain"
	apperrors "github.com/spec-kit/order-resolution-service/pkg/util/errorutil"
)

// ResolveTicket is the ticket part of a direct resolve request.
type ResolveTicket struct {
	ID            string            `json:"id"`
	Subject       string            `json:"subject"`
	BodyText      string            `json:"body_text"`
	CustomFields  map[string]string `json:"custom_fields"`
	Tags          []string          `json:"tags"`
	CustomerEmail string            `json:"customer_email"`
}

// ResolveRequest is the payload of POST /resolve. The caller supplies every
// input; the service performs no lookups.
type ResolveRequest struct {
	Ticket       ResolveTicket             `json:"ticket"`
	Candidates   []domain.OrderCandidate   `json:"candidates"`
	Fulfillments []domain.OrderFulfillment `json:"fulfillments"`
	Now          *time.Time                `json:"now"`
}

// Normalize validates the request and canonicalizes status spellings. It
// returns the reference time, defaulting to fallback when Now is absent.
func (r *ResolveRequest) Normalize(fallback time.Time) (domain.Ticket, time.Time, error) {
	if strings.TrimSpace(r.Ticket.Subject) == "" && strings.TrimSpace(r.Ticket.BodyText) == "" &&
		len(r.Ticket.CustomFields) == 0 && len(r.Ticket.Tags) == 0 {
		return domain.Ticket{}, time.Time{}, apperrors.NewValidationError("ticket subject, body_text, custom_fields or tags required", nil)
	}
	for i := range r.Candidates {
		c := &r.Candidates[i]
		if c.OrderNumber <= 0 {
			return domain.Ticket{}, time.Time{}, apperrors.NewValidationError("candidate order_number must be positive", map[string]any{"index": i})
		}
		if c.CreatedAt.IsZero() {
			return domain.Ticket{}, time.Time{}, apperrors.NewValidationError("candidate created_at required", map[string]any{"index": i})
		}
		c.FulfillmentStatus = domain.ParseFulfillmentStatus(string(c.FulfillmentStatus))
	}
	for i := range r.Fulfillments {
		for j := range r.Fulfillments[i].Records {
			record := &r.Fulfillments[i].Records[j]
			record.Status = domain.ParseShipmentStatus(string(record.Status))
		}
	}

	now := fallback
	if r.Now != nil {
		now = *r.Now
	}
	ticket := domain.Ticket{
		ID:            r.Ticket.ID,
		Subject:       r.Ticket.Subject,
		BodyText:      r.Ticket.BodyText,
		CustomFields:  r.Ticket.CustomFields,
		Tags:          r.Ticket.Tags,
		CustomerEmail: r.Ticket.CustomerEmail,
	}
	return ticket, now, nil
}

// ResolutionResponse is the audit view returned by GET /resolutions/:ticket_id.
type ResolutionResponse struct {
	ID               string                  `json:"id"`
	TicketID         string                  `json:"ticket_id"`
	MessageID        string                  `json:"message_id,omitempty"`
	Matched          bool                    `json:"matched"`
	OrderNumber      *int64                  `json:"order_number"`
	Method           domain.ResolutionMethod `json:"method"`
	IsSplit          bool                    `json:"is_split"`
	CandidateCount   int                     `json:"candidate_count"`
	Result           domain.ResolutionResult `json:"result"`
	UpstreamWarnings []string                `json:"upstream_warnings"`
	CreatedAt        time.Time               `json:"created_at"`
}

// NewResolutionResponse maps an audit record for output.
func NewResolutionResponse(r *domain.Resolution) ResolutionResponse {
	warnings := r.UpstreamWarnings
	if warnings == nil {
		warnings = []string{}
	}
	return ResolutionResponse{
		ID:               r.ID,
		TicketID:         r.TicketID,
		MessageID:        r.MessageID,
		Matched:          r.Matched,
		OrderNumber:      r.OrderNumber,
		Method:           r.Method,
		IsSplit:          r.IsSplit,
		CandidateCount:   r.CandidateCount,
		Result:           r.Result,
		UpstreamWarnings: warnings,
		CreatedAt:        r.CreatedAt,
	}
}
