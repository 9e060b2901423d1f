package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"propertytax/internal/analysis"
	"propertytax/internal/report"
	"propertytax/internal/savedpins"
	"propertytax/internal/tax"
)

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// resultLine is the one-line summary shown in the picker.
func resultLine(r analysis.Result) string {
	address := "(not found)"
	if r.Property != nil {
		address = r.Property.Address
	}
	if len(address) > 40 {
		address = address[:37] + "..."
	}
	return fmt.Sprintf("%s | %-40s | %s", r.PIN, address, tax.FormatCurrency(r.EstimatedTax))
}

// browseResults lists the results and lets the user open each one with the
// arrow keys and Enter.
func browseResults(s analysis.Session, results []analysis.Result) error {
	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = resultLine(r)
	}
	return interactiveSelect(s, results, lines, true)
}

// plainReport is the picker's fallback when the terminal cannot enter raw
// mode.
func plainReport(w io.Writer, s analysis.Session, results []analysis.Result) error {
	if _, err := fmt.Fprintln(w, "(interactive selection not supported on this terminal)"); err != nil {
		return err
	}
	return report.NewText(w).Write(s, results)
}

// interactiveSelect lets user move through the provided lines with arrow keys and press Enter to
// view the full result. It expects len(results)==len(lines).
func interactiveSelect(s analysis.Session, results []analysis.Result, lines []string, askSave bool) error {
	if len(results) == 0 {
		return nil
	}

	enableVT()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return plainReport(os.Stdout, s, results)
	}
	defer term.Restore(fd, oldState)

	reader := bufio.NewReader(os.Stdin)

	selected := 0

	redraw := func() {
		// Clear screen (ANSI reset to top + clear screen)
		fmt.Print("\033[H\033[2J")
		for i, l := range lines {
			prefix := "  "
			if i == selected {
				prefix = "> "
			}
			// raw mode: no implicit carriage return
			fmt.Print(prefix + l + "\r\n")
		}
		fmt.Print("(↑/↓ to navigate, Enter to view details, Esc to quit)\r\n")
	}

	open := func() error {
		term.Restore(fd, oldState) // restore cooked mode before rendering details
		fmt.Println()
		showResult(s, results[selected], askSave)

		// Wait for user acknowledgement before returning to list
		fmt.Print("\n(press Enter to return)")
		_, _ = bufio.NewReader(os.Stdin).ReadBytes('\n')

		state, err := term.MakeRaw(fd)
		if err != nil {
			return err
		}
		oldState = state
		reader = bufio.NewReader(os.Stdin)
		redraw()
		return nil
	}

	up := func() {
		if selected > 0 {
			selected--
			redraw()
		}
	}
	down := func() {
		if selected < len(results)-1 {
			selected++
			redraw()
		}
	}

	redraw()

	for {
		b1, err := reader.ReadByte()
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}
		// Handle Windows console arrow sequences (0 or 224, then code)
		if b1 == 0 || b1 == 224 {
			b2, _ := reader.ReadByte()
			switch b2 {
			case 72:
				up()
			case 80:
				down()
			case 13:
				if err := open(); err != nil {
					return err
				}
			}
			continue
		}

		switch b1 {
		case 27: // ESC or ANSI sequence
			if reader.Buffered() == 0 {
				// Bare ESC – exit
				fmt.Print("\r\n")
				return nil
			}
			b2, _ := reader.ReadByte()
			if b2 != '[' || reader.Buffered() == 0 {
				continue
			}
			b3, _ := reader.ReadByte()
			switch b3 {
			case 'A':
				up()
			case 'B':
				down()
			}
		case 'k':
			up()
		case 'j':
			down()
		case '\r', '\n':
			if err := open(); err != nil {
				return err
			}
		case 3, 'q': // Ctrl-C
			fmt.Print("\r\n")
			return nil
		}
	}
}

// showResult prints one result and, for found PINs, offers to add it to the
// saved list.
func showResult(s analysis.Session, r analysis.Result, askSave bool) {
	fmt.Print(report.NewText(os.Stdout).Result(s, r))
	if !askSave || !r.Found {
		return
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Save PIN? (y/N): ")
	resp, _ := reader.ReadString('\n')
	resp = strings.ToLower(strings.TrimSpace(resp))
	if resp != "y" && resp != "yes" {
		return
	}
	added, err := savedpins.New(cfg.SavedPINs).Add(r.PIN)
	switch {
	case err != nil:
		fmt.Printf("Failed to save PIN: %v\n", err)
	case added:
		fmt.Println("PIN saved.")
	default:
		fmt.Println("PIN already saved.")
	}
}
