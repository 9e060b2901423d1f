package savedpins

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propertytax/internal/pin"
)

func TestLoadMissingFile(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "saved_pins.txt"))
	pins, err := l.Load()
	require.NoError(t, err)
	assert.Empty(t, pins)
}

func TestAddDeduplicatesByNormalizedForm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "saved_pins.txt")
	l := New(path)

	added, err := l.Add("12-345-678-901-234")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = l.Add(" 12345678901234 ")
	require.NoError(t, err)
	assert.False(t, added)

	added, err = l.Add("98765432109876")
	require.NoError(t, err)
	assert.True(t, added)

	pins, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"12345678901234", "98765432109876"}, pins)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "12345678901234\n98765432109876\n", string(data))
}

func TestAddRejectsInvalidPIN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved_pins.txt")
	_, err := New(path).Add("1234")
	assert.ErrorIs(t, err, pin.ErrInvalidPIN)
	assert.NoFileExists(t, path)
}

func TestLoadSkipsBlankAndCommentLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved_pins.txt")
	require.NoError(t, os.WriteFile(path, []byte("# saved\n\n11111111111111\n  \n22222222222222\n"), 0o644))

	pins, err := New(path).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"11111111111111", "22222222222222"}, pins)
}
