package matcher

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/order-resolution-service/internal/domain"
)

const (
	pointsOpenFulfillment = 50
	pointsDateExact       = 100
	pointsDateNear        = 30
	pointsPerProduct      = 40
	recencyMaxPoints      = 10

	nearDateWindowDays = 3
	recencyWindowDays  = 30
	recencyDecayDays   = 3
)

const oneDay = 24 * time.Hour

// Score evaluates one candidate order against the ticket text and an optional
// mentioned date. Signals are independent and additive; every signal that
// contributed points appears in the rationale.
func Score(text string, mentioned *time.Time, candidate domain.OrderCandidate, now time.Time) domain.ScoredCandidate {
	return scoreNormalized(normalizeText(text), mentioned, candidate, now)
}

func scoreNormalized(normalized string, mentioned *time.Time, candidate domain.OrderCandidate, now time.Time) domain.ScoredCandidate {
	scored := domain.ScoredCandidate{Candidate: candidate, Rationale: []domain.Signal{}}
	add := func(name domain.SignalName, points int, detail string) {
		if points <= 0 {
			return
		}
		scored.Score += points
		scored.Rationale = append(scored.Rationale, domain.Signal{Name: name, Points: points, Detail: detail})
	}

	if candidate.FulfillmentStatus.Open() {
		add(domain.SignalFulfillmentStatus, pointsOpenFulfillment, string(candidate.FulfillmentStatus))
	}

	if mentioned != nil && !candidate.CreatedAt.IsZero() {
		// The order's day is the one on its own timestamp, in the offset the
		// store recorded it with.
		distance := abs(calendarDay(candidate.CreatedAt, candidate.CreatedAt.Location()) - calendarDay(*mentioned, mentioned.Location()))
		switch {
		case distance == 0:
			add(domain.SignalDateExact, pointsDateExact, mentioned.Format(time.DateOnly))
		case distance <= nearDateWindowDays:
			add(domain.SignalDateNear, pointsDateNear, fmt.Sprintf("%s (%d days apart)", mentioned.Format(time.DateOnly), distance))
		}
	}

	if titles := matchNormalized(normalized, candidate.LineItems); len(titles) > 0 {
		add(domain.SignalProductMatch, pointsPerProduct*len(titles), strings.Join(titles, "; "))
	}

	if !candidate.CreatedAt.IsZero() {
		days := daysSince(candidate.CreatedAt, now)
		if days < recencyWindowDays {
			add(domain.SignalRecency, recencyPoints(days), fmt.Sprintf("%d days old", days))
		}
	}

	return scored
}

// recencyPoints decays from recencyMaxPoints by one point every three days.
func recencyPoints(days int) int {
	points := recencyMaxPoints - days/recencyDecayDays
	if points < 0 {
		return 0
	}
	return points
}

// daysSince counts whole days between created and now. Orders stamped after
// now (clock skew between systems) count as placed today.
func daysSince(created, now time.Time) int {
	elapsed := now.Sub(created)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / oneDay)
}

// calendarDay numbers the calendar day t falls on in loc.
func calendarDay(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	return int(midnight.Unix() / int64(oneDay/time.Second))
}
