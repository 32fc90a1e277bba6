package matcher

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spec-kit/order-resolution-service/internal/domain"
)

const orderTagPrefix = "order-"

// Patterns are tried in order over the whole text: "#1001" first, then the
// looser "order 1001" / "Order #1001".
var orderNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`#(\d{4,6})\b`),
	regexp.MustCompile(`(?i)\border\s+#?(\d{4,6})\b`),
}

// FindStructuredReference looks for an explicitly stated order number, in
// priority order: the order_number custom field, the subject, the message
// body, then an order-NNNN tag.
func FindStructuredReference(ticket domain.Ticket) (domain.StructuredReference, bool) {
	if raw, ok := ticket.CustomFields[domain.OrderNumberField]; ok {
		if number, ok := parseOrderNumber(strings.TrimPrefix(strings.TrimSpace(raw), "#")); ok {
			return domain.StructuredReference{OrderNumber: number, Source: domain.ReferenceSourceCustomField}, true
		}
	}
	if number, ok := orderNumberFromText(ticket.Subject); ok {
		return domain.StructuredReference{OrderNumber: number, Source: domain.ReferenceSourceSubject}, true
	}
	if number, ok := orderNumberFromText(ticket.BodyText); ok {
		return domain.StructuredReference{OrderNumber: number, Source: domain.ReferenceSourceBody}, true
	}
	for _, tag := range ticket.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if !strings.HasPrefix(tag, orderTagPrefix) {
			continue
		}
		if number, ok := parseOrderNumber(strings.TrimPrefix(tag, orderTagPrefix)); ok {
			return domain.StructuredReference{OrderNumber: number, Source: domain.ReferenceSourceTag}, true
		}
	}
	return domain.StructuredReference{}, false
}

func orderNumberFromText(text string) (int64, bool) {
	if text == "" {
		return 0, false
	}
	for _, pattern := range orderNumberPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			if number, ok := parseOrderNumber(m[1]); ok {
				return number, true
			}
		}
	}
	return 0, false
}

func parseOrderNumber(raw string) (int64, bool) {
	number, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || number <= 0 {
		return 0, false
	}
	return number, true
}
