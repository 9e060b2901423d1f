// Package pin normalizes and validates property identifiers entered by an
// operator before they reach the analysis.
package pin

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Length is the number of digits in a canonical PIN.
const Length = 14

// ErrInvalidPIN is the sentinel every ValidationError unwraps to.
var ErrInvalidPIN = errors.New("invalid PIN")

// ValidationError describes why one entry was rejected.
type ValidationError struct {
	Raw        string
	Normalized string
	Reason     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid PIN %q: %s", e.Raw, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidPIN }

// Normalize removes whitespace and dashes, so "12-34 5678-901-234" becomes
// "12345678901234".
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' {
			return -1
		}
		return r
	}, s)
}

// Validate normalizes s and checks it is exactly Length ASCII digits.
func Validate(s string) (string, error) {
	n := Normalize(s)
	fail := func(reason string) (string, error) {
		return "", &ValidationError{Raw: s, Normalized: n, Reason: reason}
	}
	if n == "" {
		return fail("empty")
	}
	for _, r := range n {
		if r < '0' || r > '9' {
			return fail("must contain only digits")
		}
	}
	if len(n) != Length {
		return fail(fmt.Sprintf("must be %d digits, got %d", Length, len(n)))
	}
	return n, nil
}

// ParseList splits comma or newline separated input and validates each
// non-blank entry. Valid PINs are returned in input order, duplicates kept;
// rejected entries are reported in errs.
func ParseList(input string) (pins []string, errs []error) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			continue
		}
		p, err := Validate(f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		pins = append(pins, p)
	}
	return pins, errs
}
