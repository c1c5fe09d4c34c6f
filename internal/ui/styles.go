package ui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the player.
var (
	ColorRed    = lipgloss.Color("#FF5555")
	ColorGreen  = lipgloss.Color("#50FA7B")
	ColorYellow = lipgloss.Color("#F1FA8C")
	ColorCyan   = lipgloss.Color("#8BE9FD")
	ColorGray   = lipgloss.Color("#666666")
	ColorWhite  = lipgloss.Color("#FFFFFF")
	ColorBlack  = lipgloss.Color("#000000")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Width(10)

	SourceStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	ClockStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	PlayingStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	PausedStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	// overlay box drawn where the video would be
	ScreenStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray).
			Width(60).
			Height(3).
			Align(lipgloss.Center, lipgloss.Bottom)

	CaptionStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Background(ColorBlack).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	ListHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			MarginTop(1)

	ListItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	ActiveItemStyle = lipgloss.NewStyle().
			PaddingLeft(0).
			Foreground(ColorYellow)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)
)
