package tax

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"propertytax/internal/types"
)

func TestComputeScenarios(t *testing.T) {
	assert.InDelta(t, 26100.00, Compute(7.25, 3.0, 120000), 1e-6)
	assert.InDelta(t, 63180.00, Compute(8.10, 3.0, 260000), 1e-6)
}

func TestComputeIsLinear(t *testing.T) {
	const r, f, v = 7.25, 2.9163, 185000.0
	base := Compute(r, f, v)
	assert.InDelta(t, 2*base, Compute(2*r, f, v), 1e-6)
	assert.InDelta(t, 2*base, Compute(r, 2*f, v), 1e-6)
	assert.InDelta(t, 2*base, Compute(r, f, 2*v), 1e-6)
	assert.Equal(t, 0.0, Compute(r, f, 0))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$26,100.00", FormatCurrency(types.Some(26100)))
	assert.Equal(t, "$0.00", FormatCurrency(types.Some(0)))
	assert.Equal(t, "-$1,234.50", FormatCurrency(types.Some(-1234.5)))
	assert.Equal(t, "N/A", FormatCurrency(types.None()))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "7.2500%", FormatPercent(types.Some(7.25)))
	assert.Equal(t, "N/A", FormatPercent(types.None()))
}
