// Package dataset reads the pipe-delimited text exports the property and rate
// datasets are distributed as.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"propertytax/internal/types"
)

// Record is one data row keyed by header column name. Values are trimmed.
type Record map[string]string

// Line pairs a parsed record with its 1-based line number in the file (the
// header is line 1).
type Line struct {
	Number int
	Record Record
}

// ReadFile opens path and calls fn for each data row. See Read.
func ReadFile(path string, fn func(Line) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := Read(f, fn); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Read iterates through a |-delimited stream with a header row. Parsing is
// spread across one worker per CPU, so fn is called concurrently and in no
// particular order; callers that aggregate must synchronise and use
// Line.Number when order matters. The first error returned by fn is reported
// after the stream is drained.
func Read(r io.Reader, fn func(Line) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024) // allow very long lines

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return err
		}
		return fmt.Errorf("dataset is empty")
	}
	header := strings.Split(scanner.Text(), "|")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	type rawLine struct {
		n    int
		text string
	}
	// Pipeline: producer (I/O) -> workers (CPU-bound parsing)
	linesCh := make(chan rawLine, 4096)

	var (
		errOnce  sync.Once
		firstErr error
	)

	workers := runtime.NumCPU()
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for line := range linesCh {
				cols := strings.Split(line.text, "|")
				rec := make(Record, len(header))
				for j, h := range header {
					if j < len(cols) {
						rec[h] = strings.TrimSpace(cols[j])
					}
				}
				if err := fn(Line{Number: line.n, Record: rec}); err != nil {
					errOnce.Do(func() { firstErr = fmt.Errorf("line %d: %w", line.n, err) })
				}
			}
		}()
	}

	n := 1
	for scanner.Scan() {
		n++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		linesCh <- rawLine{n: n, text: text}
	}
	close(linesCh)
	wg.Wait()

	if err := scanner.Err(); err != nil {
		return err
	}
	return firstErr
}

// ParseAmount parses a dollar figure such as "120,000" or "$1,250.50". Blank
// fields and the markers "NULL" and "N/A" are absent.
func ParseAmount(s string) (types.Amount, error) {
	s = strings.TrimSpace(s)
	switch strings.ToUpper(s) {
	case "", "NULL", "N/A":
		return types.None(), nil
	}
	s = strings.ReplaceAll(strings.TrimPrefix(s, "$"), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return types.None(), fmt.Errorf("parse amount %q: %w", s, err)
	}
	return types.Some(v), nil
}

// ParseFloat parses a required decimal field.
func ParseFloat(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", field, err)
	}
	return v, nil
}

// ParseInt parses a required integer field.
func ParseInt(field, s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", field, err)
	}
	return v, nil
}
