package termui

import "github.com/charmbracelet/lipgloss"

// Theme holds the terminal palette.
type Theme struct {
	Primary    lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Danger     lipgloss.Color
	Background lipgloss.Color
}

// DefaultTheme matches the dark MDT palette.
func DefaultTheme() Theme {
	return Theme{
		Primary:    lipgloss.Color("#1976D2"),
		Text:       lipgloss.Color("#FFFFFF"),
		Muted:      lipgloss.Color("#B0B0B0"),
		Border:     lipgloss.Color("#333333"),
		Success:    lipgloss.Color("#4CAF50"),
		Warning:    lipgloss.Color("#FF9800"),
		Danger:     lipgloss.Color("#F44336"),
		Background: lipgloss.Color("#1E1E1E"),
	}
}

type styles struct {
	header     lipgloss.Style
	badge      lipgloss.Style
	tab        lipgloss.Style
	activeTab  lipgloss.Style
	card       lipgloss.Style
	cardValue  lipgloss.Style
	cardLabel  lipgloss.Style
	tableHead  lipgloss.Style
	muted      lipgloss.Style
	modal      lipgloss.Style
	modalTitle lipgloss.Style
	label      lipgloss.Style
	errorText  lipgloss.Style
	theme      Theme
}

func newStyles(theme Theme) styles {
	return styles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Text).
			Background(theme.Primary).
			Padding(0, 1),
		badge: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),
		tab: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),
		activeTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Text).
			Background(theme.Primary).
			Padding(0, 2),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 2).
			Width(18),
		cardValue: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),
		cardLabel: lipgloss.NewStyle().
			Foreground(theme.Muted),
		tableHead: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Muted).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(theme.Border),
		muted: lipgloss.NewStyle().
			Foreground(theme.Muted),
		modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary).
			Padding(1, 2),
		modalTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Text).
			MarginBottom(1),
		label: lipgloss.NewStyle().
			Foreground(theme.Muted),
		errorText: lipgloss.NewStyle().
			Foreground(theme.Danger),
		theme: theme,
	}
}

func (s styles) status(class string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch class {
	case "active", "valid", "open", "success":
		return base.Foreground(s.theme.Success)
	case "pending", "warning":
		return base.Foreground(s.theme.Warning)
	case "suspended", "expired", "error", "closed":
		return base.Foreground(s.theme.Danger)
	default:
		return base.Foreground(s.theme.Muted)
	}
}
