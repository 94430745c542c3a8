package tui

import "github.com/charmbracelet/lipgloss"

// Color palette shared by the form, the wizard and CLI output.
var (
	ColorPrimary = lipgloss.Color("#e67e22") // Orange
	ColorAccent  = lipgloss.Color("#9b59b6") // Purple
	ColorMuted   = lipgloss.Color("#95a5a6") // Gray
	ColorWarning = lipgloss.Color("#f39c12") // Amber
	ColorError   = lipgloss.Color("#e74c3c") // Red
	ColorInfo    = lipgloss.Color("#3498db") // Blue
	ColorSuccess = lipgloss.Color("#2ecc71") // Green
)

// Text styles.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorMuted)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Width(18)

	FocusedLabelStyle = LabelStyle.
				Foreground(ColorPrimary).
				Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// SelectedStyle marks the current wizard step or history row.
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	UnselectedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	ModelStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	CaloriesStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	WorkoutStyle = lipgloss.NewStyle().
			Bold(true)

	TimestampStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)
)

// Box styles.
var (
	// ResultBoxStyle frames the latest estimate.
	ResultBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)

	// ModalStyle frames a yes/no confirmation.
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorWarning).
			Padding(1, 2)
)
