package ui

// columns.go computes column widths for bubbles/table from flexible specs.

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/thesavant42/schwifty-ng/internal/models"
)

// ColumnSpec defines a table column with flexible or fixed width.
// FixedWidth wins over FlexRatio.
type ColumnSpec struct {
	Title      string
	MinWidth   int // Minimum width (0 = no minimum)
	FixedWidth int // If > 0, use this exact width
	FlexRatio  int // Relative share of the space left after fixed columns
}

// CalculateColumns computes column widths from specs.
// Flexible columns split remaining space by ratio after fixed columns are allocated.
//
// Example:
//
//	columns := CalculateColumns([]ColumnSpec{
//	    {Title: "★", FixedWidth: 3},
//	    {Title: "Name", FlexRatio: 60, MinWidth: 12},
//	    {Title: "Species", FlexRatio: 40},
//	}, layout.TableWidth)
func CalculateColumns(specs []ColumnSpec, totalWidth int) []table.Column {
	if totalWidth < 20 {
		totalWidth = 20
	}

	fixedTotal := 0
	flexTotal := 0
	for _, s := range specs {
		if s.FixedWidth > 0 {
			fixedTotal += s.FixedWidth
		} else {
			flexTotal += s.FlexRatio
		}
	}

	// bubbles/table pads every cell by one column on each side
	remaining := totalWidth - fixedTotal - 2*len(specs)
	if remaining < 0 {
		remaining = 0
	}

	columns := make([]table.Column, len(specs))
	for i, s := range specs {
		var width int
		if s.FixedWidth > 0 {
			width = s.FixedWidth
		} else if flexTotal > 0 {
			width = remaining * s.FlexRatio / flexTotal
		}

		if s.MinWidth > 0 && width < s.MinWidth {
			width = s.MinWidth
		}

		columns[i] = table.Column{Title: s.Title, Width: width}
	}

	return columns
}

// CharacterColumns returns the list columns for a width class.
// Compact keeps the name only; wider classes add status and species.
func CharacterColumns(class WidthClass) []ColumnSpec {
	switch class {
	case Compact:
		return []ColumnSpec{
			{Title: "★", FixedWidth: 2},
			{Title: "Name", FlexRatio: 100, MinWidth: 12},
		}
	case Medium:
		return []ColumnSpec{
			{Title: "★", FixedWidth: 2},
			{Title: "ID", FixedWidth: 5},
			{Title: "Name", FlexRatio: 45, MinWidth: 16},
			{Title: "Status", FixedWidth: 8},
			{Title: "Species", FlexRatio: 30, MinWidth: 8},
			{Title: "Gender", FlexRatio: 25, MinWidth: 7},
		}
	default:
		return []ColumnSpec{
			{Title: "★", FixedWidth: 2},
			{Title: "ID", FixedWidth: 5},
			{Title: "Name", FlexRatio: 60, MinWidth: 16},
			{Title: "Status", FixedWidth: 8},
			{Title: "Species", FlexRatio: 40, MinWidth: 8},
		}
	}
}

// CharacterRows builds table rows matching CharacterColumns(class)
func CharacterRows(class WidthClass, characters []models.Character) []table.Row {
	rows := make([]table.Row, len(characters))
	for i, c := range characters {
		star := ""
		if c.Favorite {
			star = "★"
		}
		switch class {
		case Compact:
			rows[i] = table.Row{star, c.Name}
		case Medium:
			rows[i] = table.Row{star, fmt.Sprint(c.ID), c.Name, orDash(c.Status), orDash(c.Species), orDash(c.Gender)}
		default:
			rows[i] = table.Row{star, fmt.Sprint(c.ID), c.Name, orDash(c.Status), orDash(c.Species)}
		}
	}
	return rows
}

// ClampWidth ensures width is within min/max bounds; a zero bound is ignored
func ClampWidth(width, minWidth, maxWidth int) int {
	if minWidth > 0 && width < minWidth {
		return minWidth
	}
	if maxWidth > 0 && width > maxWidth {
		return maxWidth
	}
	return width
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
