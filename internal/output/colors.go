package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// colorEnabled reports whether stdout is a terminal that can take color.
func colorEnabled() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func colorize(text string, color string) string {
	if !colorEnabled() {
		return text
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Render(text)
}

// ColorGreen colors text green
func ColorGreen(text string) string {
	return colorize(text, "2")
}

// ColorYellow colors text yellow
func ColorYellow(text string) string {
	return colorize(text, "3")
}

// ColorCyan colors text cyan
func ColorCyan(text string) string {
	return colorize(text, "6")
}

// Dim renders text faint
func Dim(text string) string {
	if !colorEnabled() {
		return text
	}
	return lipgloss.NewStyle().Faint(true).Render(text)
}
