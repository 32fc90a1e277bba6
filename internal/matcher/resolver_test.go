package matcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/order-resolution-service/internal/domain"
)

func TestFindStructuredReferencePriority(t *testing.T) {
	base := domain.Ticket{
		Subject:      "Where is order #1001?",
		BodyText:     "Also asking about #2002",
		CustomFields: map[string]string{domain.OrderNumberField: " #3003 "},
		Tags:         []string{"vip", "Order-4004"},
	}

	ref, ok := FindStructuredReference(base)
	require.True(t, ok)
	assert.Equal(t, domain.StructuredReference{OrderNumber: 3003, Source: domain.ReferenceSourceCustomField}, ref)

	noField := base
	noField.CustomFields = map[string]string{domain.OrderNumberField: "not a number"}
	ref, _ = FindStructuredReference(noField)
	assert.Equal(t, domain.StructuredReference{OrderNumber: 1001, Source: domain.ReferenceSourceSubject}, ref)

	noSubject := noField
	noSubject.Subject = "Shipping question"
	ref, _ = FindStructuredReference(noSubject)
	assert.Equal(t, domain.StructuredReference{OrderNumber: 2002, Source: domain.ReferenceSourceBody}, ref)

	onlyTag := noSubject
	onlyTag.BodyText = "where is my stuff"
	ref, _ = FindStructuredReference(onlyTag)
	assert.Equal(t, domain.StructuredReference{OrderNumber: 4004, Source: domain.ReferenceSourceTag}, ref)

	none := onlyTag
	none.Tags = []string{"order-abc", "shipping"}
	_, ok = FindStructuredReference(none)
	assert.False(t, ok)
}

func TestFindStructuredReferenceTextForms(t *testing.T) {
	tests := []struct {
		text string
		want int64
	}{
		{"Order 55123 hasn't arrived", 55123},
		{"order #218874 please", 218874},
		{"ORDER   9876", 9876},
	}
	for _, tt := range tests {
		ref, ok := FindStructuredReference(domain.Ticket{BodyText: tt.text})
		require.True(t, ok, tt.text)
		assert.Equal(t, tt.want, ref.OrderNumber, tt.text)
	}

	for _, text := range []string{"#123 is too short", "#1234567 is too long", "I ordered 3 rolls"} {
		_, ok := FindStructuredReference(domain.Ticket{BodyText: text})
		assert.False(t, ok, text)
	}
}

func TestResolveExactDateAndProduct(t *testing.T) {
	ticket := domain.Ticket{
		Subject:  "Shipping question",
		BodyText: "I ordered a roll of Hobb's Heirloom batting on December 11th, has this been shipped?",
	}
	other := domain.OrderCandidate{
		OrderNumber:       219001,
		CreatedAt:         time.Date(2025, time.December, 16, 9, 0, 0, 0, time.UTC),
		FulfillmentStatus: domain.FulfillmentStatusUnfulfilled,
		LineItems:         []domain.LineItem{{Title: "Rose Thread Bundle", Quantity: 2}},
	}

	resolved := Resolve(ticket, []domain.OrderCandidate{other, hobbsOrder()}, testNow)

	require.True(t, resolved.Matched)
	assert.Equal(t, int64(218874), resolved.OrderNumber)
	assert.Equal(t, domain.MethodScored, resolved.Method)
	require.Len(t, resolved.Ranked, 2)
	assert.Equal(t, 198, resolved.Ranked[0].Score)
	require.NotNil(t, resolved.MentionedOn)
	assert.Equal(t, "2025-12-11", resolved.MentionedOn.Format(time.DateOnly))
}

func TestResolveExactDateInStoreTimezone(t *testing.T) {
	eastern := time.FixedZone("EST", -5*60*60)
	ticket := domain.Ticket{BodyText: "I placed an order on December 11th, where is it?"}
	evening := domain.OrderCandidate{
		OrderNumber:       3001,
		CreatedAt:         time.Date(2025, time.December, 11, 20, 30, 0, 0, eastern),
		FulfillmentStatus: domain.FulfillmentStatusFulfilled,
	}
	nextDay := domain.OrderCandidate{
		OrderNumber:       3002,
		CreatedAt:         time.Date(2025, time.December, 12, 9, 0, 0, 0, eastern),
		FulfillmentStatus: domain.FulfillmentStatusFulfilled,
	}

	resolved := Resolve(ticket, []domain.OrderCandidate{nextDay, evening}, testNow)

	assert.Equal(t, int64(3001), resolved.OrderNumber)
	require.NotEmpty(t, resolved.Rationale)
	assert.Equal(t, domain.SignalDateExact, resolved.Rationale[0].Name)
}

func TestResolveStatusOnly(t *testing.T) {
	ticket := domain.Ticket{BodyText: "Any update on my package?"}
	created := testNow.AddDate(0, -2, 0)
	a := domain.OrderCandidate{OrderNumber: 5001, CreatedAt: created.Add(time.Hour), FulfillmentStatus: domain.FulfillmentStatusFulfilled}
	b := domain.OrderCandidate{OrderNumber: 5002, CreatedAt: created, FulfillmentStatus: domain.FulfillmentStatusPartial}

	resolved := Resolve(ticket, []domain.OrderCandidate{a, b}, testNow)

	assert.Equal(t, int64(5002), resolved.OrderNumber)
	assert.Equal(t, domain.MethodScored, resolved.Method)
}

func TestResolveFallbackMostRecent(t *testing.T) {
	ticket := domain.Ticket{BodyText: "I have a question"}
	older := domain.OrderCandidate{OrderNumber: 6001, CreatedAt: testNow.AddDate(0, -6, 0), FulfillmentStatus: domain.FulfillmentStatusFulfilled}
	newer := domain.OrderCandidate{OrderNumber: 6000, CreatedAt: testNow.AddDate(0, -4, 0), FulfillmentStatus: domain.FulfillmentStatusFulfilled}

	resolved := Resolve(ticket, []domain.OrderCandidate{older, newer}, testNow)

	require.True(t, resolved.Matched)
	assert.Equal(t, int64(6000), resolved.OrderNumber)
	assert.Equal(t, domain.MethodFallbackMostRecent, resolved.Method)
	require.Len(t, resolved.Rationale, 1)
	assert.Equal(t, domain.SignalFallback, resolved.Rationale[0].Name)
}

func TestResolveTieBreak(t *testing.T) {
	created := testNow.AddDate(0, -1, -5)
	ticket := domain.Ticket{BodyText: "where is it"}

	t.Run("later created wins", func(t *testing.T) {
		a := domain.OrderCandidate{OrderNumber: 7001, CreatedAt: created, FulfillmentStatus: domain.FulfillmentStatusPartial}
		b := domain.OrderCandidate{OrderNumber: 7002, CreatedAt: created.Add(time.Minute), FulfillmentStatus: domain.FulfillmentStatusUnfulfilled}
		assert.Equal(t, int64(7002), Resolve(ticket, []domain.OrderCandidate{a, b}, testNow).OrderNumber)
		assert.Equal(t, int64(7002), Resolve(ticket, []domain.OrderCandidate{b, a}, testNow).OrderNumber)
	})

	t.Run("same timestamp lowest number wins", func(t *testing.T) {
		a := domain.OrderCandidate{OrderNumber: 7010, CreatedAt: created, FulfillmentStatus: domain.FulfillmentStatusPartial}
		b := domain.OrderCandidate{OrderNumber: 7009, CreatedAt: created, FulfillmentStatus: domain.FulfillmentStatusPartial}
		assert.Equal(t, int64(7009), Resolve(ticket, []domain.OrderCandidate{a, b}, testNow).OrderNumber)
		assert.Equal(t, int64(7009), Resolve(ticket, []domain.OrderCandidate{b, a}, testNow).OrderNumber)
	})
}

func TestResolveStructuredReferenceBeatsScoring(t *testing.T) {
	ticket := domain.Ticket{
		Subject:  "Order #1234",
		BodyText: "I ordered a roll of Hobb's Heirloom batting on December 11th",
	}

	resolved := Resolve(ticket, []domain.OrderCandidate{hobbsOrder()}, testNow)

	assert.Equal(t, int64(1234), resolved.OrderNumber)
	assert.Equal(t, domain.MethodStructuredReference, resolved.Method)
	require.NotNil(t, resolved.Reference)
	assert.Equal(t, domain.ReferenceSourceSubject, resolved.Reference.Source)
	assert.Empty(t, resolved.Ranked)
}

func TestResolveNoCandidates(t *testing.T) {
	resolved := Resolve(domain.Ticket{BodyText: "hello"}, nil, testNow)

	assert.False(t, resolved.Matched)
	assert.Equal(t, domain.MethodNone, resolved.Method)
}
