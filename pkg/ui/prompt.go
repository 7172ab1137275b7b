package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/term"
)

// ErrNotInteractive is returned when a prompt needs a terminal and stdin
// is not one
var ErrNotInteractive = errors.New("stdin is not a terminal; pass --yes to skip confirmation")

// DisplayTimeLayout formats range bounds in prompts and summaries
const DisplayTimeLayout = "2006-01-02 15:04:05 MST"

type fileDescriptor interface {
	Fd() uintptr
}

// IsTerminal reports whether r is attached to a terminal
func IsTerminal(r io.Reader) bool {
	f, ok := r.(fileDescriptor)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ConfirmQuestion builds the question asked before a destructive run, e.g.
// "Are you sure you want to delete all tweets for @jack posted between A and B?"
func ConfirmQuestion(action, username string, start, end *time.Time) string {
	q := fmt.Sprintf("Are you sure you want to %s for @%s", action, username)
	if r := DescribeRange(start, end); r != "" {
		q += " " + r
	}
	return q + "?"
}

// DescribeRange renders an optional creation time window
func DescribeRange(start, end *time.Time) string {
	switch {
	case start != nil && end != nil:
		return fmt.Sprintf("posted between %s and %s", formatTime(*start), formatTime(*end))
	case start != nil:
		return fmt.Sprintf("posted after %s", formatTime(*start))
	case end != nil:
		return fmt.Sprintf("posted before %s", formatTime(*end))
	default:
		return ""
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(DisplayTimeLayout)
}

// Prompter reads answers from one input. Lines are buffered across calls
// so piped input can feed several prompts.
type Prompter struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer
}

// NewPrompter creates a prompter reading in and writing questions to out
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, reader: bufio.NewReader(in), out: out}
}

// Interactive reports whether the input is a terminal
func (p *Prompter) Interactive() bool {
	return IsTerminal(p.in)
}

// Confirm writes question followed by " [y/N]: " and reads one line.
// Only "y" and "yes", in any case, count as consent.
func (p *Prompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)

	line, err := p.readLine()
	if err != nil {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Line prompts for a visible value
func (p *Prompter) Line(prompt string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", prompt)

	line, err := p.readLine()
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", prompt, err)
	}
	return line, nil
}

// Secret prompts for a value without echoing it when the input is a
// terminal
func (p *Prompter) Secret(prompt string) (string, error) {
	if !p.Interactive() {
		return p.Line(prompt)
	}

	fmt.Fprintf(p.out, "%s: ", prompt)
	b, err := term.ReadPassword(int(p.in.(fileDescriptor).Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", prompt, err)
	}
	return strings.TrimSpace(string(b)), nil
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
