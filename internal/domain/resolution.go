package domain

import "time"

// SignalName identifies one piece of scoring evidence.
type SignalName string

const (
	SignalFulfillmentStatus SignalName = "fulfillment_status"
	SignalDateExact         SignalName = "date_exact"
	SignalDateNear          SignalName = "date_near"
	SignalProductMatch      SignalName = "product_match"
	SignalRecency           SignalName = "recency"
	SignalStructuredRef     SignalName = "structured_reference"
	SignalFallback          SignalName = "fallback_most_recent"
)

// Signal is one contribution to a candidate's score.
type Signal struct {
	Name   SignalName `json:"signal"`
	Points int        `json:"points"`
	Detail string     `json:"detail,omitempty"`
}

// ScoredCandidate is a candidate order with its score and the signals behind it.
type ScoredCandidate struct {
	Candidate OrderCandidate `json:"candidate"`
	Score     int            `json:"score"`
	Rationale []Signal       `json:"rationale"`
}

// ResolutionMethod describes how the resolver reached its answer.
type ResolutionMethod string

const (
	MethodStructuredReference ResolutionMethod = "structured_reference"
	MethodScored              ResolutionMethod = "scored"
	MethodFallbackMostRecent  ResolutionMethod = "fallback_most_recent"
	MethodNone                ResolutionMethod = "none"
)

// ResolvedOrder is the resolver's terminal output: either a matched order
// number with its rationale, or no match.
type ResolvedOrder struct {
	Matched     bool                 `json:"matched"`
	OrderNumber int64                `json:"order_number,omitempty"`
	Method      ResolutionMethod     `json:"method"`
	Reference   *StructuredReference `json:"reference,omitempty"`
	MentionedOn *time.Time           `json:"mentioned_date,omitempty"`
	Rationale   []Signal             `json:"rationale,omitempty"`
	Ranked      []ScoredCandidate    `json:"ranked_candidates,omitempty"`
}

// NoMatch is the resolution returned when nothing identifies an order.
func NoMatch() ResolvedOrder {
	return ResolvedOrder{Method: MethodNone}
}

// ResolutionResult is handed back to the caller after resolution and summarization.
type ResolutionResult struct {
	ResolvedOrder      ResolvedOrder       `json:"resolved_order"`
	FulfillmentSummary *FulfillmentSummary `json:"fulfillment_summary,omitempty"`
}

// Resolution is the persisted audit record of one webhook resolution.
type Resolution struct {
	ID               string
	TicketID         string
	MessageID        string
	Matched          bool
	OrderNumber      *int64
	Method           ResolutionMethod
	IsSplit          bool
	CandidateCount   int
	Result           ResolutionResult
	UpstreamWarnings []string
	CreatedAt        time.Time
}
