package tui

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/lipgloss"

	"github.com/Mr-Dark-debug/traceviewer/internal/draw"
)

// ────────────────────────────────────────────────────────────
// Color Palette — GitHub Dark aesthetic
// ────────────────────────────────────────────────────────────
//
// All colors are defined here. The timeline is drawn with the shared
// draw colours; fgColor and bgColor map those onto this palette so the
// canvas matches the chrome. Function colours pass through unchanged.

var (
	// Base
	colorBg        = lipgloss.Color("#0d1117")
	colorBgPanel   = lipgloss.Color("#161b22")
	colorBgSurface = lipgloss.Color("#1c2128")

	// Text
	colorText      = lipgloss.Color("#e6edf3")
	colorTextDim   = lipgloss.Color("#8b949e")
	colorTextMuted = lipgloss.Color("#484f58")

	// Accents
	colorBlue   = lipgloss.Color("#58a6ff")
	colorGreen  = lipgloss.Color("#3fb950")
	colorRed    = lipgloss.Color("#f85149")
	colorYellow = lipgloss.Color("#d29922")
	colorCyan   = lipgloss.Color("#76e3ea")

	// Structural
	colorDivider   = lipgloss.Color("#30363d")
	colorHighlight = lipgloss.Color("#1f6feb")
)

// fgColor maps a draw colour used for glyphs onto the palette.
func fgColor(c color.RGBA) lipgloss.Color {
	switch c {
	case draw.Black:
		return colorText
	case draw.White:
		return colorBg
	case draw.Blue:
		return colorCyan
	case draw.LightGray, draw.RowBand:
		return colorTextDim
	case draw.Yellow:
		return colorYellow
	}
	return hexColor(c)
}

// bgColor maps a draw colour used for fills onto the palette.
func bgColor(c color.RGBA) lipgloss.Color {
	switch c {
	case draw.White:
		return colorBg
	case draw.Black:
		return colorText
	case draw.Yellow:
		return colorHighlight
	case draw.RowBand:
		return colorBgSurface
	case draw.LightGray:
		return colorBgPanel
	case draw.Blue:
		return colorBlue
	}
	return hexColor(c)
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// cellStyle returns the style a run of cells is rendered with.
func cellStyle(c cell) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(fgColor(c.fg)).
		Background(bgColor(c.bg)).
		Reverse(c.reverse)
}

// ────────────────────────────────────────────────────────────
// Component Styles
// ────────────────────────────────────────────────────────────

// Header bar
var (
	headerBarStyle = lipgloss.NewStyle().
			Background(colorBgSurface).
			Foreground(colorText).
			Padding(0, 1)

	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBlue)

	headerSepStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	headerMetaStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	headerWarnStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)

// Panel chrome
var (
	panelStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.Border{
			Top:    "─",
			Bottom: "",
			Left:   "",
			Right:  "",
		}).
		BorderForeground(colorDivider)

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)
)

// Detail pane
var (
	detailLabelStyle = lipgloss.NewStyle().
				Foreground(colorBlue)

	detailValueStyle = lipgloss.NewStyle().
				Foreground(colorText)

	detailHoverStyle = lipgloss.NewStyle().
				Foreground(colorCyan)
)

// Footer / status bar
var (
	statusStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorBgSurface).
			Padding(0, 1)

	statusErrStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Background(colorBgSurface).
			Padding(0, 1)
)

// Recent list
var (
	traceItemStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Padding(0, 1)

	traceSelectedStyle = lipgloss.NewStyle().
				Background(colorHighlight).
				Foreground(colorText).
				Bold(true).
				Padding(0, 1)

	traceStatusOk = lipgloss.NewStyle().
			Foreground(colorGreen)

	traceStatusMissing = lipgloss.NewStyle().
				Foreground(colorRed)

	traceDimStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	emptyStateStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Padding(2, 4)
)
