package viz

import "github.com/charmbracelet/lipgloss"

const sidebarWidth = 44

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#28283C")).
			Padding(1, 2).
			Width(sidebarWidth)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFF00"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFF00")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#3C3C50"))

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B4B4B4")).Width(14)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#969696"))
	descStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C8C8C8")).Width(sidebarWidth - 6)

	rowSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#28283C"))

	statusRunning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF00"))
	statusPaused  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#BC2732"))
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF4444"))

	keyHint    = lipgloss.NewStyle().Foreground(lipgloss.Color("#B4B4B4")).Italic(true)
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00CCFF"))
)

func inked(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}
