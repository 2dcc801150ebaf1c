package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/lipgloss/v2"
)

var (
	accent = lipgloss.Color("#50FA7B")
	muted  = lipgloss.Color("241")
	danger = lipgloss.Color("196")

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	errorLabelStyle = lipgloss.NewStyle().
			Foreground(danger).
			Bold(true)

	errorBodyStyle = lipgloss.NewStyle().
			Foreground(danger).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(danger).
			PaddingLeft(1)

	dimStyle = lipgloss.NewStyle().
			Foreground(muted).
			Italic(true)

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(danger).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(muted)

	onlineStyle  = lipgloss.NewStyle().Foreground(accent)
	offlineStyle = lipgloss.NewStyle().Foreground(danger)

	suggestionStyle = lipgloss.NewStyle().
			Foreground(muted)

	selectedSuggestionStyle = lipgloss.NewStyle().
				Foreground(accent).
				Bold(true)

	inputBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(accent)
)

var helixDots = spinner.Spinner{
	Frames: []string{
		"⠋ Thinking",
		"⠙ Thinking.",
		"⠹ Thinking..",
		"⠸ Thinking...",
		"⠼ Thinking..",
		"⠴ Thinking.",
	},
	FPS: time.Second / 10,
}

func newSpinner() spinner.Model {
	return spinner.New(
		spinner.WithSpinner(helixDots),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(accent)),
	)
}
