package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color theme for the calculator
type Theme struct {
	Name string

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Accent    lipgloss.AdaptiveColor

	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor

	Border   lipgloss.AdaptiveColor
	Muted    lipgloss.AdaptiveColor
	Key      lipgloss.AdaptiveColor
	Selected lipgloss.AdaptiveColor
}

// buildTheme creates a theme from [light, dark] color pairs
func buildTheme(name string, primary, secondary, accent, success, warning, errorColor, border, muted, keyColor, selected [2]string) Theme {
	return Theme{
		Name:      name,
		Primary:   lipgloss.AdaptiveColor{Light: primary[0], Dark: primary[1]},
		Secondary: lipgloss.AdaptiveColor{Light: secondary[0], Dark: secondary[1]},
		Accent:    lipgloss.AdaptiveColor{Light: accent[0], Dark: accent[1]},
		Success:   lipgloss.AdaptiveColor{Light: success[0], Dark: success[1]},
		Warning:   lipgloss.AdaptiveColor{Light: warning[0], Dark: warning[1]},
		Error:     lipgloss.AdaptiveColor{Light: errorColor[0], Dark: errorColor[1]},
		Border:    lipgloss.AdaptiveColor{Light: border[0], Dark: border[1]},
		Muted:     lipgloss.AdaptiveColor{Light: muted[0], Dark: muted[1]},
		Key:       lipgloss.AdaptiveColor{Light: keyColor[0], Dark: keyColor[1]},
		Selected:  lipgloss.AdaptiveColor{Light: selected[0], Dark: selected[1]},
	}
}

// Available themes
var (
	DarkTheme = buildTheme("dark",
		[2]string{"#1E40AF", "#60A5FA"}, [2]string{"#6B7280", "#9CA3AF"}, [2]string{"#7C3AED", "#A855F7"},
		[2]string{"#059669", "#34D399"}, [2]string{"#D97706", "#FBBF24"}, [2]string{"#DC2626", "#F87171"},
		[2]string{"#D1D5DB", "#374151"}, [2]string{"#6B7280", "#9CA3AF"}, [2]string{"#111827", "#F9FAFB"},
		[2]string{"#DBEAFE", "#1E3A8A"})

	LightTheme = buildTheme("light",
		[2]string{"#2D3748", "#E2E8F0"}, [2]string{"#718096", "#A0AEC0"}, [2]string{"#553C9A", "#B794F6"},
		[2]string{"#2F855A", "#68D391"}, [2]string{"#C05621", "#F6AD55"}, [2]string{"#C53030", "#FC8181"},
		[2]string{"#E2E8F0", "#2D3748"}, [2]string{"#A0AEC0", "#718096"}, [2]string{"#2D3748", "#F7FAFC"},
		[2]string{"#EDF2F7", "#2D3748"})

	HighContrastTheme = buildTheme("high-contrast",
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#666666", "#BBBBBB"}, [2]string{"#000080", "#8080FF"},
		[2]string{"#006600", "#00FF00"}, [2]string{"#CC6600", "#FFAA00"}, [2]string{"#CC0000", "#FF4444"},
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#666666", "#BBBBBB"}, [2]string{"#000000", "#FFFFFF"},
		[2]string{"#FFFF00", "#444444"})
)

var themes = []Theme{DarkTheme, LightTheme, HighContrastTheme}

// ThemeNames returns the available theme names in toggle order
func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// themeIndex returns the position of name in the toggle order, or 0
func themeIndex(name string) int {
	for i, t := range themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// Styles contains the styled components of the calculator view
type Styles struct {
	Theme Theme

	Title   lipgloss.Style
	Muted   lipgloss.Style
	Buffer  lipgloss.Style
	Preview lipgloss.Style
	Notice  lipgloss.Style
	Error   lipgloss.Style

	Display lipgloss.Style
	Key     lipgloss.Style
	KeyHot  lipgloss.Style
	Status  lipgloss.Style
}

// newStyles builds styles for theme. Without color only layout is kept.
func newStyles(theme Theme, color bool) Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return Styles{
			Theme:   theme,
			Title:   plain.Bold(true),
			Muted:   plain,
			Buffer:  plain.Bold(true),
			Preview: plain,
			Notice:  plain,
			Error:   plain,
			Display: plain.Border(lipgloss.RoundedBorder()).Padding(0, 1),
			Key:     plain.Padding(0, 1),
			KeyHot:  plain.Padding(0, 1).Reverse(true),
			Status:  plain,
		}
	}

	return Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Buffer: lipgloss.NewStyle().
			Foreground(theme.Key).
			Bold(true),

		Preview: lipgloss.NewStyle().
			Foreground(theme.Success),

		Notice: lipgloss.NewStyle().
			Foreground(theme.Warning).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true),

		Display: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Key: lipgloss.NewStyle().
			Foreground(theme.Key).
			Padding(0, 1),

		KeyHot: lipgloss.NewStyle().
			Background(theme.Selected).
			Foreground(theme.Accent).
			Padding(0, 1).
			Bold(true),

		Status: lipgloss.NewStyle().
			Foreground(theme.Secondary),
	}
}

// errorBorder recolors the display frame while the error shake runs
func (s Styles) errorBorder(color bool) lipgloss.Style {
	if !color {
		return s.Display.Border(lipgloss.DoubleBorder())
	}
	return s.Display.BorderForeground(s.Theme.Error)
}
