package cli

import "github.com/charmbracelet/lipgloss"

// Theme bundles the styles the renderers pull from.
type Theme struct {
	Title, Liked, Muted, Accent, Success, Error lipgloss.Style
	Panel                                       lipgloss.Style

	SymLiked, SymUnliked, SymOK, SymFail string
}

// NewTheme returns the colored theme, or a plain one when noColor is set.
func NewTheme(noColor bool) Theme {
	if noColor {
		plain := lipgloss.NewStyle()
		return Theme{
			Title: plain, Liked: plain, Muted: plain, Accent: plain, Success: plain, Error: plain,
			Panel:    plain.Border(lipgloss.NormalBorder()).Padding(0, 1),
			SymLiked: "[x]", SymUnliked: "[ ]", SymOK: "ok:", SymFail: "error:",
		}
	}
	return Theme{
		Title:      lipgloss.NewStyle().Bold(true),
		Liked:      lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
		Muted:      lipgloss.NewStyle().Faint(true),
		Accent:     lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Panel:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1),
		SymLiked:   "♥",
		SymUnliked: "♡",
		SymOK:      "✔",
		SymFail:    "✖",
	}
}
