// Package matcher decides which of a customer's orders a support ticket is
// about. Everything here is a pure function of its inputs: callers pass the
// current time explicitly and supply already fetched candidate orders.
package matcher

import (
	"sort"
	"time"

	"github.com/spec-kit/order-resolution-service/internal/domain"
)

// Resolve picks the order a ticket refers to.
//
// An explicit order number on the ticket wins outright. Otherwise every
// candidate is scored and the highest score wins, ties going to the most
// recently created order and then to the lowest order number. When no signal
// fires for any candidate the most recent order is returned anyway. NoMatch is
// only possible when there are no candidates.
func Resolve(ticket domain.Ticket, candidates []domain.OrderCandidate, now time.Time) domain.ResolvedOrder {
	if ref, ok := FindStructuredReference(ticket); ok {
		return domain.ResolvedOrder{
			Matched:     true,
			OrderNumber: ref.OrderNumber,
			Method:      domain.MethodStructuredReference,
			Reference:   &ref,
			Rationale: []domain.Signal{{
				Name:   domain.SignalStructuredRef,
				Detail: string(ref.Source),
			}},
		}
	}

	if len(candidates) == 0 {
		return domain.NoMatch()
	}

	text := ticket.Text()
	var mentioned *time.Time
	if date, ok := ExtractDate(text, now); ok {
		mentioned = &date
	}

	ranked := Rank(text, mentioned, candidates, now)
	best := ranked[0]
	resolved := domain.ResolvedOrder{
		Matched:     true,
		OrderNumber: best.Candidate.OrderNumber,
		Method:      domain.MethodScored,
		MentionedOn: mentioned,
		Rationale:   best.Rationale,
		Ranked:      ranked,
	}
	if best.Score == 0 {
		// With every score at zero the ranking order is recency order, so the
		// head of the list is already the most recent order.
		resolved.Method = domain.MethodFallbackMostRecent
		resolved.Rationale = []domain.Signal{{
			Name:   domain.SignalFallback,
			Detail: "no signal matched any candidate",
		}}
	}
	return resolved
}

// Rank scores every candidate and orders them best first.
func Rank(text string, mentioned *time.Time, candidates []domain.OrderCandidate, now time.Time) []domain.ScoredCandidate {
	normalized := normalizeText(text)
	ranked := make([]domain.ScoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		ranked = append(ranked, scoreNormalized(normalized, mentioned, candidate, now))
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranksBefore(ranked[i], ranked[j])
	})
	return ranked
}

func ranksBefore(a, b domain.ScoredCandidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if !a.Candidate.CreatedAt.Equal(b.Candidate.CreatedAt) {
		return a.Candidate.CreatedAt.After(b.Candidate.CreatedAt)
	}
	return a.Candidate.OrderNumber < b.Candidate.OrderNumber
}
