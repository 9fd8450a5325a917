package tui

import "github.com/charmbracelet/lipgloss"

// Table palette: felt green, chip gold, card red
const (
	feltGreen = lipgloss.Color("#1F6F43")
	chipGold  = lipgloss.Color("#F2C14E")
	cardRed   = lipgloss.Color("#E5484D")
	cardWhite = lipgloss.Color("#E8E8E8")
	dimGrey   = lipgloss.Color("#6B6B6B")
)

var (
	// RoundBannerStyle heads each round in the log
	RoundBannerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(feltGreen).
				Bold(true)

	HandLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7FD1A8")).
			Bold(true)

	RedCardStyle = lipgloss.NewStyle().
			Foreground(cardRed).
			Bold(true)

	BlackCardStyle = lipgloss.NewStyle().
			Foreground(cardWhite).
			Bold(true)

	// HiddenCardStyle renders the dealer's hole card face down
	HiddenCardStyle = lipgloss.NewStyle().
			Foreground(dimGrey)

	ChipsStyle = lipgloss.NewStyle().
			Foreground(chipGold).
			Bold(true)

	WinStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#46C97B")).
			Bold(true)

	LossStyle = lipgloss.NewStyle().
			Foreground(cardRed).
			Bold(true)

	PushStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A5B4FC")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(cardRed)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB86B")).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(dimGrey)

	focusedBorder = feltGreen
	mutedBorder   = dimGrey
)
