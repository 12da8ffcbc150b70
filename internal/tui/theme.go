package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Core palette
	Green       = lipgloss.Color("#00FF41")
	BrightGreen = lipgloss.Color("#39FF14")
	DarkGreen   = lipgloss.Color("#008F11")
	DimGreen    = lipgloss.Color("#3B7A3B")
	Amber       = lipgloss.Color("#FFB000")
	Cyan        = lipgloss.Color("#00D4AA")
	Black       = lipgloss.Color("#0D0208")
	MidGray     = lipgloss.Color("#3a3a4e")
	White       = lipgloss.Color("#e0e0e0")
	Red         = lipgloss.Color("#FF4136")
)

// accents maps the theme config value to the highlight color.
var accents = map[string]lipgloss.Color{
	"green": Green,
	"amber": Amber,
	"cyan":  Cyan,
}

var (
	LabelStyle = lipgloss.NewStyle().
			Foreground(BrightGreen).
			Bold(true)

	// Banner
	BannerStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	// Error
	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(DimGreen)

	DiffStyle = lipgloss.NewStyle().
			Foreground(MidGray)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DarkGreen).
			Padding(0, 1)
)

// SetTheme switches the accent color. Unknown names keep the current theme.
func SetTheme(name string) {
	c, ok := accents[name]
	if !ok {
		return
	}
	BannerStyle = BannerStyle.Foreground(c)
	SuccessStyle = SuccessStyle.Foreground(c)
	BoxStyle = BoxStyle.BorderForeground(c)
}

const Banner = `
  ┌─┐┌─┐┌┐┌┌┬┐┌─┐┌─┐┌┬┐  ┌┐ ┌─┐┌─┐┬┌─
  │  │ ││││ │ ├─┤│   │   ├┴┐│ ││ │├┴┐
  └─┘└─┘┘└┘ ┴ ┴ ┴└─┘ ┴   └─┘└─┘└─┘┴ ┴
`
