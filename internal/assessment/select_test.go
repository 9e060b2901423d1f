package assessment

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propertytax/internal/types"
)

func record(board, certified, mailed types.Amount) types.PropertyRecord {
	return types.PropertyRecord{
		PIN:                "12345678901234",
		Board:              board,
		Certified:          certified,
		Mailed:             mailed,
		EqualizationFactor: 3.0,
	}
}

func TestSelectAuto(t *testing.T) {
	some, none := types.Some, types.None()
	tests := []struct {
		name string
		p    types.PropertyRecord
		want types.AssessmentResult
	}{
		{
			name: "board wins over everything",
			p:    record(some(120000), some(110000), some(100000)),
			want: types.AssessmentResult{Value: some(120000), Label: types.LabelBoard, Source: types.SourceBoard},
		},
		{
			name: "board wins even when lower",
			p:    record(some(310000), some(335000), some(320000)),
			want: types.AssessmentResult{Value: some(310000), Label: types.LabelBoard, Source: types.SourceBoard},
		},
		{
			name: "board alone",
			p:    record(some(5), none, none),
			want: types.AssessmentResult{Value: some(5), Label: types.LabelBoard, Source: types.SourceBoard},
		},
		{
			name: "certified when board missing",
			p:    record(none, some(260000), some(250000)),
			want: types.AssessmentResult{Value: some(260000), Label: types.LabelCertified, Source: types.SourceCertified},
		},
		{
			name: "mailed only",
			p:    record(none, none, some(185000)),
			want: types.AssessmentResult{Value: some(185000), Label: types.LabelMailed, Source: types.SourceMailed},
		},
		{
			name: "zero board is still present",
			p:    record(some(0), some(10), some(10)),
			want: types.AssessmentResult{Value: some(0), Label: types.LabelBoard, Source: types.SourceBoard},
		},
		{
			name: "nothing present",
			p:    record(none, none, none),
			want: types.NoAssessment(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(tt.p, Auto)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Select() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelectExplicitDoesNotFallBack(t *testing.T) {
	p := record(types.Some(120000), types.None(), types.Some(100000))

	got, err := Select(p, Certified)
	require.NoError(t, err)
	assert.False(t, got.Value.Present())
	assert.Equal(t, types.LabelCertified, got.Label)
	assert.Equal(t, types.SourceCertified, got.Source)

	got, err = Select(p, Mailed)
	require.NoError(t, err)
	assert.Equal(t, types.Some(100000), got.Value)
	assert.Equal(t, types.LabelMailed, got.Label)

	got, err = Select(record(types.None(), types.Some(1), types.Some(2)), Board)
	require.NoError(t, err)
	assert.False(t, got.Value.Present())
	assert.Equal(t, types.SourceBoard, got.Source)
}

func TestSelectRejectsUnknownOverride(t *testing.T) {
	_, err := Select(record(types.Some(1), types.None(), types.None()), Override("assessor"))
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSelectIsDeterministic(t *testing.T) {
	p := record(types.None(), types.Some(260000), types.Some(250000))
	first, err := Select(p, Auto)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Select(p, Auto)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestParseOverride(t *testing.T) {
	for in, want := range map[string]Override{
		"":          Auto,
		"auto":      Auto,
		" Board ":   Board,
		"CERTIFIED": Certified,
		"mailed":    Mailed,
	} {
		got, err := ParseOverride(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseOverride("assessor")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "assessor")
}
