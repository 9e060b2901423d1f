// Package assessment picks the authoritative assessed value for a property.
package assessment

import (
	"errors"
	"fmt"
	"strings"

	"propertytax/internal/types"
)

// ErrInvalidArgument is returned for an override outside the four supported values.
var ErrInvalidArgument = errors.New("invalid argument")

// Override selects which assessment source to use. Auto applies the precedence
// Board → Certified → Mailed.
type Override string

const (
	Auto      Override = "auto"
	Board     Override = "board"
	Certified Override = "certified"
	Mailed    Override = "mailed"
)

// Overrides lists the accepted values in display order.
var Overrides = []Override{Auto, Board, Certified, Mailed}

// Valid reports whether o is one of the four supported overrides.
func (o Override) Valid() bool {
	switch o {
	case Auto, Board, Certified, Mailed:
		return true
	}
	return false
}

// ParseOverride converts user input to an Override. Matching ignores case and
// surrounding whitespace; an empty string means Auto.
func ParseOverride(s string) (Override, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Auto, nil
	}
	o := Override(s)
	if !o.Valid() {
		return "", fmt.Errorf("%w: assessment override %q", ErrInvalidArgument, s)
	}
	return o, nil
}

// rule is one rung of the precedence ladder.
type rule struct {
	value  func(types.PropertyRecord) types.Amount
	label  types.AssessmentLabel
	source types.SourceTag
}

func (r rule) result(p types.PropertyRecord) types.AssessmentResult {
	return types.AssessmentResult{Value: r.value(p), Label: r.label, Source: r.source}
}

// precedence is evaluated top to bottom in Auto mode.
var precedence = []rule{
	{func(p types.PropertyRecord) types.Amount { return p.Board }, types.LabelBoard, types.SourceBoard},
	{func(p types.PropertyRecord) types.Amount { return p.Certified }, types.LabelCertified, types.SourceCertified},
	{func(p types.PropertyRecord) types.Amount { return p.Mailed }, types.LabelMailed, types.SourceMailed},
}

var explicit = map[Override]rule{
	Board:     precedence[0],
	Certified: precedence[1],
	Mailed:    precedence[2],
}

// Select returns the assessment to use for p. An explicit override returns that
// source verbatim even when it holds no value; only Auto falls through the
// precedence list.
func Select(p types.PropertyRecord, o Override) (types.AssessmentResult, error) {
	if o == Auto {
		for _, r := range precedence {
			if r.value(p).Present() {
				return r.result(p), nil
			}
		}
		return types.NoAssessment(), nil
	}
	r, ok := explicit[o]
	if !ok {
		return types.AssessmentResult{}, fmt.Errorf("%w: assessment override %q", ErrInvalidArgument, string(o))
	}
	return r.result(p), nil
}
