package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Banner is printed at the top of interactive commands
const Banner = `twitterwipe - bulk delete tweets and likes`

var (
	red     = lipgloss.Color("#FF5F5F")
	green   = lipgloss.Color("#39FF14")
	cyan    = lipgloss.Color("#00FFFF")
	yellow  = lipgloss.Color("#FFFF00")
	magenta = lipgloss.Color("#FF00FF")

	errorStyle     = lipgloss.NewStyle().Foreground(red).Bold(true)
	successStyle   = lipgloss.NewStyle().Foreground(green)
	labelStyle     = lipgloss.NewStyle().Foreground(cyan)
	valueStyle     = lipgloss.NewStyle().Foreground(yellow)
	warningStyle   = lipgloss.NewStyle().Foreground(yellow)
	highlightStyle = lipgloss.NewStyle().Foreground(magenta).Bold(true)
)

var (
	mu      sync.Mutex
	out     io.Writer = os.Stdout
	noColor bool
)

// SetOutput redirects every message; tests use it to capture output
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// SetNoColor disables styling
func SetNoColor(disabled bool) {
	mu.Lock()
	defer mu.Unlock()
	noColor = disabled
}

func render(style lipgloss.Style, s string) string {
	if noColor {
		return s
	}
	return style.Render(s)
}

func writeLine(s string) {
	fmt.Fprintln(out, s)
}

// PrintBanner prints the program banner
func PrintBanner() {
	mu.Lock()
	defer mu.Unlock()
	writeLine(render(highlightStyle, Banner))
}

// PrintError prints an error message, optionally followed by a cause
func PrintError(msg string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	writeLine(render(errorStyle, msg))
}

// PrintSuccess prints a success message
func PrintSuccess(msg string) {
	mu.Lock()
	defer mu.Unlock()
	writeLine(render(successStyle, msg))
}

// PrintInfo prints a label and its value
func PrintInfo(label string, value string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "%s: %s\n", render(labelStyle, label), render(valueStyle, value))
}

// PrintWarning prints a warning message, optionally followed by a cause
func PrintWarning(msg string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	writeLine(render(warningStyle, msg))
}

// PrintHighlight prints a highlighted message
func PrintHighlight(msg string) {
	mu.Lock()
	defer mu.Unlock()
	writeLine(render(highlightStyle, msg))
}
