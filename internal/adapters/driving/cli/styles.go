package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ruleWidth is the width of the separators around hint content.
const ruleWidth = 80

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// rule returns a full-width horizontal separator.
func rule() string {
	return strings.Repeat("─", ruleWidth)
}
