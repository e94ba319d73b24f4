package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/routineos/internal/models"
)

var (
	HeaderStyle  = lipgloss.NewStyle().Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// StatusMark is the one-character marker for an entry status.
func StatusMark(s models.BlockStatus) string {
	switch s {
	case models.StatusActive:
		return WarnStyle.Render("▶")
	case models.StatusCompleted:
		return SuccessStyle.Render("✓")
	case models.StatusSkipped:
		return MutedStyle.Render("↷")
	default:
		return MutedStyle.Render("·")
	}
}

// Swatch renders a small block in the block's color.
func Swatch(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("■")
}
