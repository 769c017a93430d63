package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/thesavant42/schwifty-ng/internal/models"
)

var (
	pink  = lipgloss.Color("205")
	cyan  = lipgloss.Color("86")
	white = lipgloss.Color("255")
	green = lipgloss.Color("82")

	reportTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(pink)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(cyan)

	headerStyle = lipgloss.NewStyle().
			Foreground(pink).
			Bold(true)

	rowStyle = lipgloss.NewStyle().
			Foreground(white)

	favoriteRowStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	tableBorderStyle = lipgloss.NewStyle().
				Foreground(ColorBorder)
)

// PrintCharacterTable writes a character table for the CLI.
//
// This is a non-interactive report, so the table is built with string
// formatting and lipgloss only colors it. The TUI uses bubbles/table.
func PrintCharacterTable(w io.Writer, title string, characters []models.Character) {
	if len(characters) == 0 {
		fmt.Fprintln(w, subtitleStyle.Render(title+": No characters"))
		return
	}

	fmt.Fprintln(w, reportTitleStyle.Render(title))

	colWidths := []int{1, 5, 28, 8, 14, 10}
	totalWidth := 1
	for _, cw := range colWidths {
		totalWidth += cw + 3
	}
	separator := strings.Repeat("─", totalWidth-2)

	format := "│ %-*s │ %*s │ %-*s │ %-*s │ %-*s │ %-*s │"

	fmt.Fprintln(w, tableBorderStyle.Render("┌"+separator+"┐"))
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf(format,
		colWidths[0], "★",
		colWidths[1], "ID",
		colWidths[2], "Name",
		colWidths[3], "Status",
		colWidths[4], "Species",
		colWidths[5], "Gender")))
	fmt.Fprintln(w, tableBorderStyle.Render("├"+separator+"┤"))

	for _, c := range characters {
		star := " "
		if c.Favorite {
			star = "★"
		}
		row := fmt.Sprintf(format,
			colWidths[0], star,
			colWidths[1], fmt.Sprint(c.ID),
			colWidths[2], truncateToWidth(c.Name, colWidths[2]),
			colWidths[3], truncateToWidth(orDash(c.Status), colWidths[3]),
			colWidths[4], truncateToWidth(orDash(c.Species), colWidths[4]),
			colWidths[5], truncateToWidth(orDash(c.Gender), colWidths[5]))

		if c.Favorite {
			fmt.Fprintln(w, favoriteRowStyle.Render(row))
		} else {
			fmt.Fprintln(w, rowStyle.Render(row))
		}
	}

	fmt.Fprintln(w, tableBorderStyle.Render("└"+separator+"┘"))
}

// PrintCharacterDetail writes the full card for one character
func PrintCharacterDetail(w io.Writer, c models.Character) {
	fmt.Fprintln(w, BorderStyle.Padding(0, 1).Render(strings.TrimRight(RenderDetail(c, 60), "\n")))
}

// PrintCacheStats writes the cache summary for `cache stats`
func PrintCacheStats(w io.Writer, path string, cached, favorites int, schemaVersion int) {
	fmt.Fprintln(w, reportTitleStyle.Render("Cache"))
	fmt.Fprintf(w, "  %s %s\n", LabelStyle.Render("Path:      "), path)
	fmt.Fprintf(w, "  %s %d\n", LabelStyle.Render("Characters:"), cached)
	fmt.Fprintf(w, "  %s %d\n", LabelStyle.Render("Favorites: "), favorites)
	fmt.Fprintf(w, "  %s %d\n", LabelStyle.Render("Schema:    "), schemaVersion)
}

// PrintNotice writes a dimmed informational line, used when data came from the cache
func PrintNotice(w io.Writer, message string) {
	fmt.Fprintln(w, NoticeStyle.Render(message))
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	successStyle := lipgloss.NewStyle().
		Foreground(green).
		Bold(true)
	fmt.Println(successStyle.Render(message))
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Println(ErrorStyle.Render("Error: " + message))
}
