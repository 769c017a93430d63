package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// WidthClass buckets the terminal width like a window-size class
type WidthClass int

const (
	// Compact shows one pane at a time; the detail replaces the list
	Compact WidthClass = iota
	// Medium shows the list with a one-line detail strip
	Medium
	// Expanded shows list and detail side by side
	Expanded
)

// Width class thresholds
const (
	MediumMinWidth   = 80
	ExpandedMinWidth = 120
)

func (c WidthClass) String() string {
	switch c {
	case Compact:
		return "compact"
	case Medium:
		return "medium"
	case Expanded:
		return "expanded"
	}
	return "unknown"
}

// ClassifyWidth maps a terminal width onto its class
func ClassifyWidth(width int) WidthClass {
	switch {
	case width >= ExpandedMinWidth:
		return Expanded
	case width >= MediumMinWidth:
		return Medium
	default:
		return Compact
	}
}

// Layout constants
const (
	MinViewportWidth  = 40
	DefaultWidth      = 100 // Used when terminal size is unknown
	DefaultHeight     = 30
	MinTableHeight    = 5
	chromeHeight      = 12 // title, tabs, dividers, status line and the help box
	detailPaneMinimum = 36
)

// Layout holds computed dimensions for the current terminal size
type Layout struct {
	Class          WidthClass
	ViewportWidth  int // terminal width, floored at MinViewportWidth
	ViewportHeight int
	InnerWidth     int // ViewportWidth - 2 border chars
	TableWidth     int // width available to the list table
	TableHeight    int // visible table rows
	DetailWidth    int // width of the side pane in Expanded, 0 otherwise
}

// NewLayout creates a Layout from the terminal size
func NewLayout(width, height int) Layout {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	l := Layout{
		Class:          ClassifyWidth(width),
		ViewportWidth:  ClampWidth(width, MinViewportWidth, 0),
		ViewportHeight: height,
	}
	l.InnerWidth = l.ViewportWidth - 2
	l.TableWidth = l.InnerWidth - 2
	l.TableHeight = ClampWidth(height-chromeHeight, MinTableHeight, 0)

	if l.Class == Expanded {
		l.DetailWidth = ClampWidth(l.InnerWidth*2/5, detailPaneMinimum, 0)
		l.TableWidth = l.InnerWidth - l.DetailWidth - 3
	}
	return l
}

// DefaultLayout returns a layout using the default size
func DefaultLayout() Layout {
	return NewLayout(DefaultWidth, DefaultHeight)
}

// Color palette
var (
	ColorBorder    = lipgloss.Color("34")  // portal green
	ColorHighlight = lipgloss.Color("22")  // dark green background
	ColorText      = lipgloss.Color("15")  // bright white
	ColorAccent    = lipgloss.Color("226") // bright yellow
	ColorAccentDim = lipgloss.Color("220") // yellow (progress)
	ColorTextDim   = lipgloss.Color("241") // gray
	ColorError     = lipgloss.Color("196") // red
	ColorCache     = lipgloss.Color("39")  // blue
)

// Common styles
var (
	// Border style for main viewport.
	// Always size with .Width(InnerWidth) and no padding.
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	// Footer box holding the key help
	HelpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorText)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorHighlight).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Italic(true)

	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	ProgressStyle = lipgloss.NewStyle().
			Foreground(ColorAccentDim)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	// Badge shown while the list comes from the local cache
	CacheBadgeStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorCache).
			Padding(0, 1)

	// Banner for a failure that did not replace the list
	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorAccentDim).
			Italic(true)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorHighlight).
			Bold(true).
			Padding(0, 2)

	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorText).
				Padding(0, 2)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorAccentDim).
			Bold(true)
)

// RenderTitle renders a section title
func RenderTitle(s string) string { return TitleStyle.Render(s) }

// RenderNormal renders plain text in the default foreground
func RenderNormal(s string) string { return NormalStyle.Render(s) }

// RenderDim renders secondary text
func RenderDim(s string) string { return DimStyle.Render(s) }

// RenderAccent renders highlighted text
func RenderAccent(s string) string { return AccentStyle.Render(s) }

// RenderError renders an error line
func RenderError(s string) string { return ErrorStyle.Render(s) }

// StringWidth returns the printable width of s, ignoring escape codes
func StringWidth(s string) int {
	return lipgloss.Width(s)
}

func stripEscapeCodes(s string) string {
	return ansi.Strip(s)
}

func truncateToWidth(s string, width int) string {
	return ansi.Truncate(s, width, "…")
}

// PadContentToHeight appends blank lines until content has targetHeight lines
func PadContentToHeight(content string, targetHeight int) string {
	lines := strings.Count(content, "\n") + 1
	if lines >= targetHeight {
		return content
	}
	return content + strings.Repeat("\n", targetHeight-lines)
}

// RenderTabs renders a tab strip with active highlighted
func RenderTabs(names []string, active int) string {
	tabs := make([]string, len(names))
	for i, name := range names {
		if i == active {
			tabs[i] = TabActiveStyle.Render(name)
		} else {
			tabs[i] = TabInactiveStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// BuildTwoBoxView renders the main bordered box above a one-line help box
func BuildTwoBoxView(content, helpText string, layout Layout) string {
	mainHeight := layout.ViewportHeight - 5
	if mainHeight < MinTableHeight {
		mainHeight = MinTableHeight
	}
	main := BorderStyle.
		Width(layout.InnerWidth).
		Render(PadContentToHeight(content, mainHeight))
	help := HelpBoxStyle.
		Width(layout.InnerWidth).
		Render(CenterText(HintStyle.Render(helpText), layout.InnerWidth))
	return lipgloss.JoinVertical(lipgloss.Left, main, help)
}

// ApplyTableStyles sets header and selection styles. The visible selection
// is painted by RenderTableWithSelection, so the table's own is neutral.
func ApplyTableStyles(t *table.Model) {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(false).
		Bold(true).
		Foreground(ColorAccent)
	s.Selected = lipgloss.NewStyle()
	s.Cell = s.Cell.Foreground(ColorText)
	t.SetStyles(s)
}

// NewAppSpinner returns the white dot spinner used everywhere
func NewAppSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorText)
	return s
}

// NewAppTheme creates a huh theme matching the app's colors
func NewAppTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().
		Foreground(ColorText).
		Bold(true)
	t.Blurred.Title = t.Focused.Title

	t.Focused.Description = lipgloss.NewStyle().
		Foreground(ColorTextDim)
	t.Blurred.Description = t.Focused.Description

	t.Focused.Base = lipgloss.NewStyle().
		Foreground(ColorText)
	t.Blurred.Base = t.Focused.Base

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorBorder).
		Bold(true).
		Padding(0, 1)

	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(ColorBorder)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(ColorTextDim)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(ColorBorder)

	return t
}
