package cli

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/thesisalign/thesisalign/internal/analyzer"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorGray   = "\033[90m"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Terminal writes progress to stderr when it is a terminal, keeping stdout
// clean for results
type Terminal struct {
	IsTerminal   bool
	UseColor     bool
	spinnerIndex int
}

// NewTerminal creates a new Terminal instance
func NewTerminal() *Terminal {
	isTerminal := term.IsTerminal(int(os.Stderr.Fd()))
	return &Terminal{
		IsTerminal: isTerminal,
		UseColor:   isTerminal && os.Getenv("NO_COLOR") == "",
	}
}

// ClearLine clears the current line (terminal only)
func (t *Terminal) ClearLine() {
	if t.IsTerminal {
		fmt.Fprint(os.Stderr, "\r\033[K")
	}
}

// Spinner returns the next spinner frame
func (t *Terminal) Spinner() string {
	if !t.IsTerminal {
		return ""
	}
	frame := spinnerFrames[t.spinnerIndex]
	t.spinnerIndex = (t.spinnerIndex + 1) % len(spinnerFrames)
	return frame
}

// Color wraps text in ANSI color codes (terminal only)
func (t *Terminal) Color(color, text string) string {
	if !t.UseColor {
		return text
	}
	return color + text + ColorReset
}

// Progress redraws the progress line. Nothing is printed off a terminal.
func (t *Terminal) Progress(p analyzer.Progress) {
	if !t.IsTerminal {
		return
	}
	t.ClearLine()

	line := fmt.Sprintf("%s %s %d/%d (%d%%)",
		t.Spinner(), t.Color(PhaseColor(p.Phase), string(p.Phase)), p.Current, p.Total, p.Percentage())
	if eta := FormatETA(p.ETA()); eta != "" {
		line += " eta " + eta
	}
	if p.Description != "" {
		line += " " + t.Color(ColorGray, truncateName(p.Description, 40))
	}
	fmt.Fprint(os.Stderr, line)

	if p.Current == p.Total {
		fmt.Fprintln(os.Stderr)
	}
}

func truncateName(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return "..." + string(r[len(r)-max+3:])
}

// FormatETA formats a duration as a human-readable ETA string
func FormatETA(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		if s > 0 {
			return fmt.Sprintf("%dm%ds", m, s)
		}
		return fmt.Sprintf("%dm", m)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}

// PhaseColor returns the color for a batch phase
func PhaseColor(phase analyzer.ProgressPhase) string {
	switch phase {
	case analyzer.PhaseReading:
		return ColorCyan
	case analyzer.PhaseClassifying:
		return ColorPurple
	case analyzer.PhaseSaving:
		return ColorGreen
	default:
		return ColorGray
	}
}
