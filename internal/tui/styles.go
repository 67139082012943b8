// Package tui provides the interactive terminal UI for textlens.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#FF6B6B") // Red - titles, errors
	ColorSecondary = lipgloss.Color("#4ecdc4") // Teal - section headers
	ColorAccent    = lipgloss.Color("#ffe66d") // Yellow - focus, keys
	ColorMuted     = lipgloss.Color("#666666") // Gray - help text
	ColorSuccess   = lipgloss.Color("#a8e6cf") // Green - high reliability
	ColorWarn      = lipgloss.Color("#f4a261") // Orange - moderate reliability
	ColorText      = lipgloss.Color("#f1faee") // Light text
	ColorBg        = lipgloss.Color("#1a1a2e") // Dark background
	ColorBorder    = lipgloss.Color("#3d5a80") // Border color
)

// Header styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Background(ColorBg).
			Padding(0, 1)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true).
			Padding(0, 1)
)

// Footer help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	HelpSepStyle = lipgloss.NewStyle().
			Foreground(ColorBorder)
)

// Help overlay styles
var (
	OverlayTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary).
				MarginBottom(1)

	OverlaySectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorSecondary).
				MarginTop(1)

	OverlayKeyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Width(12)

	OverlayDescStyle = lipgloss.NewStyle().
				Foreground(ColorText)

	OverlayBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(1, 2).
			Width(66)
)

// Reliability band colors for the help overlay
var (
	BandHighStyle     = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	BandModerateStyle = lipgloss.NewStyle().Foreground(ColorWarn).Bold(true)
	BandLowStyle      = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
)

// Content area style
var ContentStyle = lipgloss.NewStyle().
	Padding(0, 1)
