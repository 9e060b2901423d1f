package analysis

import (
	"time"

	"github.com/google/uuid"

	"propertytax/internal/assessment"
)

// Options are the operator's choices for one analysis run.
type Options struct {
	Override            assessment.Override `json:"override"`
	AnalyzeCurrentTaxes bool                `json:"analyze_current_taxes"`

	// IncomeApproach only flags that income analysis was requested; reports
	// carry a note, nothing is computed.
	IncomeApproach bool `json:"income_approach"`
}

// Session identifies one analysis run. It is passed to every consumer of the
// results (export, report, email) instead of being kept in package state.
type Session struct {
	RequestID string    `json:"request_id"`
	CreatedAt time.Time `json:"created_at"`
	Options   Options   `json:"options"`
}

// NewSession returns a session with a fresh request ID.
func NewSession(now time.Time, opts Options) Session {
	if opts.Override == "" {
		opts.Override = assessment.Auto
	}
	return Session{
		RequestID: uuid.NewString(),
		CreatedAt: now.UTC(),
		Options:   opts,
	}
}
