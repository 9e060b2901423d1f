package types

// AssessmentLabel is the human-readable provenance of a selected assessment.
type AssessmentLabel string

const (
	LabelBoard     AssessmentLabel = "Board"
	LabelCertified AssessmentLabel = "Certified"
	LabelMailed    AssessmentLabel = "Mailed"
	LabelNone      AssessmentLabel = "None"
)

// SourceTag is the machine-readable counterpart of AssessmentLabel.
type SourceTag string

const (
	SourceBoard     SourceTag = "board"
	SourceCertified SourceTag = "certified"
	SourceMailed    SourceTag = "mailed"
	SourceNone      SourceTag = "none"
)

// AssessmentResult is the assessed value chosen for a property together with
// where it came from. A None label always carries an absent value.
type AssessmentResult struct {
	Value  Amount          `json:"value"`
	Label  AssessmentLabel `json:"type"`
	Source SourceTag       `json:"source"`
}

// NoAssessment is the result used when no source holds a value.
func NoAssessment() AssessmentResult {
	return AssessmentResult{Value: None(), Label: LabelNone, Source: SourceNone}
}
