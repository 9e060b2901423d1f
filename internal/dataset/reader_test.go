package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propertytax/internal/types"
)

func TestReadCollectsEveryRow(t *testing.T) {
	in := "PIN | Board_Tot\n1|100\n\n2| 200 \n3|\n"
	var (
		mu   sync.Mutex
		seen []Line
	)
	err := Read(strings.NewReader(in), func(l Line) error {
		mu.Lock()
		seen = append(seen, l)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	require.Len(t, seen, 3)

	sort.Slice(seen, func(i, j int) bool { return seen[i].Number < seen[j].Number })
	assert.Equal(t, 2, seen[0].Number)
	assert.Equal(t, Record{"PIN": "1", "Board_Tot": "100"}, seen[0].Record)
	assert.Equal(t, 4, seen[1].Number)
	assert.Equal(t, "200", seen[1].Record["Board_Tot"])
	assert.Equal(t, "", seen[2].Record["Board_Tot"])
}

func TestReadShortRowLeavesColumnsUnset(t *testing.T) {
	var got Record
	err := Read(strings.NewReader("A|B|C\nx\n"), func(l Line) error {
		got = l.Record
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, Record{"A": "x"}, got)
}

func TestReadReportsCallbackError(t *testing.T) {
	boom := errors.New("boom")
	err := Read(strings.NewReader("A\n1\n"), func(Line) error { return boom })
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadEmpty(t *testing.T) {
	err := Read(strings.NewReader(""), func(Line) error { return nil })
	require.Error(t, err)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.txt")
	require.NoError(t, os.WriteFile(path, []byte("Code|Year\n12345|2024\n"), 0o644))

	count := 0
	require.NoError(t, ReadFile(path, func(Line) error { count++; return nil }))
	assert.Equal(t, 1, count)

	err := ReadFile(filepath.Join(t.TempDir(), "missing.txt"), func(Line) error { return nil })
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    types.Amount
		wantErr bool
	}{
		{"120000", types.Some(120000), false},
		{"$1,250.50", types.Some(1250.50), false},
		{" 0 ", types.Some(0), false},
		{"", types.None(), false},
		{"null", types.None(), false},
		{"N/A", types.None(), false},
		{"abc", types.None(), true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseNumbers(t *testing.T) {
	f, err := ParseFloat("Factor", "2.9163")
	require.NoError(t, err)
	assert.Equal(t, 2.9163, f)

	_, err = ParseFloat("Factor", "")
	assert.ErrorContains(t, err, "Factor")

	y, err := ParseInt("Year", " 2024")
	require.NoError(t, err)
	assert.Equal(t, 2024, y)

	_, err = ParseInt("Year", "20x4")
	assert.ErrorContains(t, err, "Year")
}
