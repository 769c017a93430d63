package ui

// view_helpers.go provides common View() rendering helpers.

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/thesavant42/schwifty-ng/internal/models"
)

// RenderTableWithSelection renders a bubbles table with a full-width selection highlight.
//
// bubbles/table View() output is the header on line 0 followed by the visible
// data rows; there is no divider line, so one is added after the header.
func RenderTableWithSelection(t table.Model, width int) string {
	lines := strings.Split(t.View(), "\n")
	result := make([]string, 0, len(lines)+1)

	cursor := t.Cursor()
	height := t.Height()
	totalRows := len(t.Rows())

	// Mirror the table's viewport: it scrolls once the cursor passes the last visible row
	start := 0
	if totalRows > height {
		if cursor >= height {
			start = cursor - height + 1
		}
		if maxStart := totalRows - height; start > maxStart {
			start = maxStart
		}
	}
	visibleCursor := cursor - start

	for i, line := range lines {
		if i == 0 {
			result = append(result, NormalStyle.Render(line))
			result = append(result, FullWidthDivider(width))
			continue
		}

		if i-1 == visibleCursor {
			// Escape codes inside the row would reset the highlight background
			clean := stripEscapeCodes(line)
			if w := StringWidth(clean); w < width {
				clean += strings.Repeat(" ", width-w)
			} else if w > width {
				clean = truncateToWidth(clean, width)
			}
			result = append(result, SelectedStyle.Render(clean))
			continue
		}

		result = append(result, NormalStyle.Render(line))
	}

	return strings.Join(result, "\n")
}

// ViewHeaderWithSubtitle renders title + subtitle + divider + spacing
func ViewHeaderWithSubtitle(title, subtitle string, innerWidth int) string {
	var b strings.Builder
	b.WriteString(RenderTitle(title))
	b.WriteString("\n")
	if subtitle != "" {
		b.WriteString(RenderDim(subtitle))
		b.WriteString("\n")
	}
	b.WriteString(FullWidthDivider(innerWidth))
	b.WriteString("\n")
	return b.String()
}

// CenterText centers text within width
func CenterText(text string, width int) string {
	textW := StringWidth(text)
	if textW >= width {
		return text
	}
	return strings.Repeat(" ", (width-textW)/2) + text
}

// FullWidthDivider returns a horizontal divider spanning width
func FullWidthDivider(width int) string {
	if width < 0 {
		width = 0
	}
	return strings.Repeat("─", width)
}

// RenderDetail renders the full character card used by the detail pane
func RenderDetail(c models.Character, width int) string {
	var b strings.Builder

	name := c.Name
	if c.Favorite {
		name = "★ " + name
	}
	b.WriteString(RenderAccent(truncateToWidth(name, width)))
	b.WriteString("\n")
	b.WriteString(FullWidthDivider(width))
	b.WriteString("\n")

	fields := []struct {
		label string
		value string
	}{
		{"ID", fmt.Sprint(c.ID)},
		{"Status", c.Status},
		{"Species", c.Species},
		{"Type", c.Type},
		{"Gender", c.Gender},
		{"Origin", c.Origin.Name},
		{"Location", c.Location.Name},
		{"Created", c.Created},
		{"Image", c.Image},
	}
	for _, f := range fields {
		line := fmt.Sprintf("%-9s %s", f.label+":", orDash(f.value))
		b.WriteString(LabelStyle.Render(truncateToWidth(line[:10], width)))
		if width > 10 {
			b.WriteString(RenderNormal(truncateToWidth(line[10:], width-10)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderDetailStrip renders a one-line summary for the medium layout
func RenderDetailStrip(c models.Character, width int) string {
	star := ""
	if c.Favorite {
		star = "★ "
	}
	line := fmt.Sprintf("%s%s | %s | %s | %s | from %s", star, c.Name, orDash(c.Status), orDash(c.Species), orDash(c.Gender), orDash(c.Origin.Name))
	return RenderDim(truncateToWidth(line, width))
}
