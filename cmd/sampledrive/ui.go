package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	purple = lipgloss.Color("99")
	green  = lipgloss.Color("76")
	red    = lipgloss.Color("204")
	yellow = lipgloss.Color("214")
	dim    = lipgloss.Color("243")
)

var (
	bannerStyle  = lipgloss.NewStyle().Bold(true).Foreground(purple)
	successStyle = lipgloss.NewStyle().Foreground(green)
	errorStyle   = lipgloss.NewStyle().Foreground(red)
	warnStyle    = lipgloss.NewStyle().Foreground(yellow)
	mutedStyle   = lipgloss.NewStyle().Foreground(dim)
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// configureColor drops ANSI styling when w is not a terminal so piped
// output stays machine-readable.
func configureColor(w io.Writer) {
	if isTerminal(w) {
		lipgloss.SetColorProfile(termenv.ColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

// banner renders a section header framed by rules.
func banner(title string) string {
	rule := strings.Repeat("=", 50)
	return fmt.Sprintf("\n%s\n%s\n%s", mutedStyle.Render(rule), bannerStyle.Render(title), mutedStyle.Render(rule))
}

func successMsg(format string, a ...any) string {
	return successStyle.Render("✅") + " " + fmt.Sprintf(format, a...)
}

func warnMsg(format string, a ...any) string {
	return warnStyle.Render("⚠️") + "  " + fmt.Sprintf(format, a...)
}

func errorMsg(format string, a ...any) string {
	return errorStyle.Render("❌") + " " + fmt.Sprintf(format, a...)
}
