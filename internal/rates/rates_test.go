package rates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	shp "github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propertytax/internal/types"
)

func TestResolvePicksGreatestYear(t *testing.T) {
	e, ok := Resolve("12345", Sample())
	require.True(t, ok)
	assert.Equal(t, 2024, e.Year)
	assert.Equal(t, 7.25, e.Rate)

	e, ok = Resolve("33211", Sample())
	require.True(t, ok)
	assert.Equal(t, types.RateEntry{NeighborhoodCode: "33211", Year: 2023, Rate: 10.25}, e)
}

func TestResolveIgnoresInsertionOrder(t *testing.T) {
	tbl, err := NewTable([]types.RateEntry{
		{NeighborhoodCode: "1", Year: 2024, Rate: 3},
		{NeighborhoodCode: "1", Year: 2021, Rate: 1},
		{NeighborhoodCode: "1", Year: 2023, Rate: 2},
	})
	require.NoError(t, err)
	e, ok := Resolve("1", tbl)
	require.True(t, ok)
	assert.Equal(t, 3.0, e.Rate)
}

func TestResolveUnknownCode(t *testing.T) {
	_, ok := Resolve("00000", Sample())
	assert.False(t, ok)

	_, ok = Resolve("12345", nil)
	assert.False(t, ok)

	var empty *Table
	_, ok = Resolve("12345", empty)
	assert.False(t, ok)
}

// listSource hands back entries exactly as given, duplicates included.
type listSource []types.RateEntry

func (s listSource) EntriesFor(string) []types.RateEntry { return s }

func TestResolveDuplicateYearLastWins(t *testing.T) {
	src := listSource{
		{NeighborhoodCode: "1", Year: 2024, Rate: 7.0},
		{NeighborhoodCode: "1", Year: 2020, Rate: 5.0},
		{NeighborhoodCode: "1", Year: 2024, Rate: 7.5},
	}
	e, ok := Resolve("1", src)
	require.True(t, ok)
	assert.Equal(t, 7.5, e.Rate)
}

func TestNewTableRejectsDuplicates(t *testing.T) {
	_, err := NewTable([]types.RateEntry{
		{NeighborhoodCode: "1", Year: 2024, Rate: 7.0},
		{NeighborhoodCode: " 1 ", Year: 2024, Rate: 7.5},
	})
	require.ErrorIs(t, err, ErrDuplicateRate)
}

func TestEntriesForReturnsCopy(t *testing.T) {
	tbl := Sample()
	list := tbl.EntriesFor("12345")
	require.Len(t, list, 3)
	list[0].Rate = 99
	assert.Equal(t, 6.95, tbl.EntriesFor("12345")[0].Rate)
	assert.Empty(t, tbl.EntriesFor("nope"))
	assert.Equal(t, 10, tbl.Len())
	assert.Equal(t, []string{"12345", "22876", "33211", "55432", "77654", "98765"}, tbl.Codes())
}

func TestWithOverlay(t *testing.T) {
	base := Sample()
	over := base.WithOverlay(2024, map[string]float64{
		"12345": 7.40,
		"33211": 10.60,
		"44444": 5.00,
	})

	e, _ := Resolve("12345", over)
	assert.Equal(t, 7.40, e.Rate)
	assert.Len(t, over.EntriesFor("12345"), 3)

	e, _ = Resolve("33211", over)
	assert.Equal(t, types.RateEntry{NeighborhoodCode: "33211", Year: 2024, Rate: 10.60}, e)

	e, ok := Resolve("44444", over)
	require.True(t, ok)
	assert.Equal(t, 5.00, e.Rate)

	// base is untouched
	e, _ = Resolve("12345", base)
	assert.Equal(t, 7.25, e.Rate)
	_, ok = Resolve("44444", base)
	assert.False(t, ok)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "TaxRates.txt")
	content := "Neighborhood_Code|Tax_Year|Tax_Rate\n" +
		"12345|2023|7.10\n" +
		"12345|2024|7.25\n" +
		"98765|2024|8.10\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tbl, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())
	e, ok := Resolve("12345", tbl)
	require.True(t, ok)
	assert.Equal(t, 7.25, e.Rate)
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	dup := filepath.Join(dir, "dup.txt")
	require.NoError(t, os.WriteFile(dup, []byte("Neighborhood_Code|Tax_Year|Tax_Rate\n1|2024|1\n1|2024|2\n"), 0o644))
	_, err := LoadFile(dup)
	assert.ErrorIs(t, err, ErrDuplicateRate)

	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("Neighborhood_Code|Tax_Year|Tax_Rate\n1|soon|1\n"), 0o644))
	_, err = LoadFile(bad)
	assert.ErrorContains(t, err, "Tax_Year")

	noCode := filepath.Join(dir, "nocode.txt")
	require.NoError(t, os.WriteFile(noCode, []byte("Neighborhood_Code|Tax_Year|Tax_Rate\n|2024|1\n"), 0o644))
	_, err = LoadFile(noCode)
	assert.ErrorContains(t, err, "Neighborhood_Code")
}

func writeRateShapefile(t *testing.T, path string, rows []types.RateEntry) {
	t.Helper()
	w, err := shp.Create(path, shp.POINT)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{
		shp.StringField(fieldCode, 10),
		shp.NumberField(fieldYear, 4),
		shp.FloatField(fieldRate, 8, 3),
	}))
	for i, r := range rows {
		n := int(w.Write(&shp.Point{X: float64(i), Y: float64(i)}))
		require.NoError(t, w.WriteAttribute(n, 0, r.NeighborhoodCode))
		require.NoError(t, w.WriteAttribute(n, 1, r.Year))
		require.NoError(t, w.WriteAttribute(n, 2, r.Rate))
	}
	w.Close()
	fixDbfName(t, path)
}

// fixDbfName moves the attribute table to where shp.Open looks for it; the
// writer names it "<base>dbf" without the dot.
func fixDbfName(t *testing.T, shpPath string) {
	t.Helper()
	base := strings.TrimSuffix(shpPath, ".shp")
	require.NoError(t, os.Rename(base+"dbf", base+".dbf"))
}

func TestLoadShapefile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tax_codes.shp")
	writeRateShapefile(t, path, []types.RateEntry{
		{NeighborhoodCode: "12345", Year: 2023, Rate: 7.10},
		{NeighborhoodCode: "12345", Year: 2024, Rate: 7.25},
		{NeighborhoodCode: "55432", Year: 2024, Rate: 9.5},
	})

	tbl, err := LoadShapefile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())

	e, ok := Resolve("12345", tbl)
	require.True(t, ok)
	assert.Equal(t, 2024, e.Year)
	assert.InDelta(t, 7.25, e.Rate, 1e-9)

	e, ok = Resolve("55432", tbl)
	require.True(t, ok)
	assert.InDelta(t, 9.5, e.Rate, 1e-9)
}

func TestLoadShapefileMissingAttribute(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tax_districts.shp")
	w, err := shp.Create(path, shp.POINT)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{shp.StringField("DISTRICT", 10)}))
	w.Write(&shp.Point{X: 1, Y: 1})
	w.Close()
	fixDbfName(t, path)

	_, err = LoadShapefile(path)
	assert.ErrorContains(t, err, "missing attribute")
}

func TestLoadOverlayFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte("year: 2024\nrates:\n  \"12345\": 7.4\n  \"98765\": 8.2\n"), 0o644))

	o, err := LoadOverlayFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2024, o.Year)
	assert.Equal(t, map[string]float64{"12345": 7.4, "98765": 8.2}, o.Rates)

	noYear := filepath.Join(dir, "noyear.yaml")
	require.NoError(t, os.WriteFile(noYear, []byte("rates:\n  \"1\": 1\n"), 0o644))
	_, err = LoadOverlayFile(noYear)
	assert.ErrorContains(t, err, "year is required")
}
