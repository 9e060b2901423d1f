// Package savedpins keeps a persistent list of PINs the operator wants to
// re-run, one per line, so it survives across program invocations.
package savedpins

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"propertytax/internal/pin"
)

// List is a saved-PIN file.
type List struct {
	path string
}

func New(path string) *List {
	return &List{path: path}
}

func (l *List) Path() string { return l.path }

// Load returns the saved PINs in the order they were added. If the file does
// not exist, an empty slice is returned without error.
func (l *List) Load() ([]string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // nothing saved yet
		}
		return nil, err
	}
	defer f.Close()

	var pins []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		p := strings.TrimSpace(scanner.Text())
		if p != "" && !strings.HasPrefix(p, "#") {
			pins = append(pins, p)
		}
	}
	return pins, scanner.Err()
}

// Add validates p and appends its normalized form unless it is already
// present. It reports whether the file changed.
func (l *List) Add(p string) (bool, error) {
	norm, err := pin.Validate(p)
	if err != nil {
		return false, err
	}
	existing, err := l.Load()
	if err != nil {
		return false, err
	}
	for _, e := range existing {
		if pin.Normalize(e) == norm {
			return false, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return false, err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, norm); err != nil {
		return false, fmt.Errorf("write %s: %w", l.path, err)
	}
	return true, nil
}
