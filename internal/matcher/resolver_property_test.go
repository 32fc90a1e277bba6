package matcher_test

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/spec-kit/order-resolution-service/internal/domain"
	"github.com/spec-kit/order-resolution-service/internal/matcher"
)

var propertyNow = time.Date(2025, time.December, 18, 12, 0, 0, 0, time.UTC)

var ticketBodies = []interface{}{
	"I have a question",
	"I ordered a roll of Hobb's Heirloom batting on December 11th, has this been shipped?",
	"where are my scissors? ordered 12/01/2025",
	"The thread bundle from November 30 is missing",
	"Febtober 45 was the day",
	"",
}

var titles = []string{
	`Hobbs 80/20 Heirloom Batting 96" Wide Batting Roll - 30 Yards`,
	"Rose Thread Bundle",
	"Scissors",
	"Blue Fabric Roll",
}

var statuses = []domain.FulfillmentStatus{
	domain.FulfillmentStatusUnfulfilled,
	domain.FulfillmentStatusPartial,
	domain.FulfillmentStatusFulfilled,
}

// buildCandidates turns generated integers into candidate orders: the age in
// hours picks created_at, and the same value seeds status and line item.
func buildCandidates(ages []int) []domain.OrderCandidate {
	candidates := make([]domain.OrderCandidate, 0, len(ages))
	for i, age := range ages {
		candidates = append(candidates, domain.OrderCandidate{
			OrderNumber:       int64(100000 + i),
			CreatedAt:         propertyNow.Add(-time.Duration(age) * time.Hour),
			FulfillmentStatus: statuses[age%len(statuses)],
			LineItems:         []domain.LineItem{{Title: titles[age%len(titles)], Quantity: 1}},
		})
	}
	return candidates
}

func newProperties() *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	return gopter.NewProperties(parameters)
}

func TestResolveIsDeterministic(t *testing.T) {
	properties := newProperties()

	properties.Property("same inputs give identical resolutions", prop.ForAll(
		func(body string, ages []int) bool {
			ticket := domain.Ticket{Subject: "Help", BodyText: body}
			candidates := buildCandidates(ages)
			first := matcher.Resolve(ticket, candidates, propertyNow)
			second := matcher.Resolve(ticket, buildCandidates(ages), propertyNow)
			return reflect.DeepEqual(first, second)
		},
		gen.OneConstOf(ticketBodies...),
		gen.SliceOf(gen.IntRange(0, 24*60)),
	))

	properties.TestingRun(t)
}

func TestStructuredReferenceAlwaysWins(t *testing.T) {
	properties := newProperties()

	properties.Property("an order tag overrides scoring", prop.ForAll(
		func(number int64, body string, ages []int) bool {
			ticket := domain.Ticket{
				Subject:  "Help",
				BodyText: body,
				Tags:     []string{fmt.Sprintf("order-%d", number)},
			}
			resolved := matcher.Resolve(ticket, buildCandidates(ages), propertyNow)
			return resolved.Matched &&
				resolved.OrderNumber == number &&
				resolved.Method == domain.MethodStructuredReference
		},
		gen.Int64Range(1000, 999999),
		gen.OneConstOf(ticketBodies...),
		gen.SliceOf(gen.IntRange(0, 24*60)),
	))

	properties.Property("the custom field overrides scoring", prop.ForAll(
		func(number int64, ages []int) bool {
			ticket := domain.Ticket{
				BodyText:     "I ordered a roll of Hobb's Heirloom batting on December 11th",
				CustomFields: map[string]string{domain.OrderNumberField: fmt.Sprint(number)},
			}
			resolved := matcher.Resolve(ticket, buildCandidates(ages), propertyNow)
			return resolved.OrderNumber == number && resolved.Reference.Source == domain.ReferenceSourceCustomField
		},
		gen.Int64Range(1, 999999999),
		gen.SliceOf(gen.IntRange(0, 24*60)),
	))

	properties.TestingRun(t)
}

func TestFallbackNeverReturnsNoMatch(t *testing.T) {
	properties := newProperties()

	properties.Property("non-empty candidates always resolve to one of them", prop.ForAll(
		func(body string, first int, rest []int) bool {
			candidates := buildCandidates(append([]int{first}, rest...))
			resolved := matcher.Resolve(domain.Ticket{BodyText: body}, candidates, propertyNow)
			if !resolved.Matched {
				return false
			}
			for _, c := range candidates {
				if c.OrderNumber == resolved.OrderNumber {
					return true
				}
			}
			return false
		},
		gen.OneConstOf(ticketBodies...),
		gen.IntRange(0, 24*400),
		gen.SliceOf(gen.IntRange(0, 24*400)),
	))

	properties.Property("the winner has the highest score", prop.ForAll(
		func(body string, ages []int) bool {
			candidates := buildCandidates(ages)
			if len(candidates) == 0 {
				return true
			}
			resolved := matcher.Resolve(domain.Ticket{BodyText: body}, candidates, propertyNow)
			for _, scored := range resolved.Ranked {
				if scored.Score > resolved.Ranked[0].Score {
					return false
				}
			}
			return resolved.OrderNumber == resolved.Ranked[0].Candidate.OrderNumber
		},
		gen.OneConstOf(ticketBodies...),
		gen.SliceOf(gen.IntRange(0, 24*400)),
	))

	properties.TestingRun(t)
}
