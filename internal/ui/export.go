package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thesavant42/schwifty-ng/internal/models"
)

// DefaultExportName returns favorites-YYYY-MM-DD.md
func DefaultExportName(now time.Time) string {
	return fmt.Sprintf("favorites-%s.md", now.Format("2006-01-02"))
}

// FavoritesMarkdown renders the favorites list as a markdown document
func FavoritesMarkdown(favorites []models.Character, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Favorite Characters\n\n")
	sb.WriteString(fmt.Sprintf("**Total Favorites:** %d\n", len(favorites)))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n\n", now.Format("2006-01-02 15:04:05")))

	if len(favorites) == 0 {
		sb.WriteString("No favorites yet.\n")
		return sb.String()
	}

	sb.WriteString("| ID | Name | Status | Species | Gender | Origin |\n")
	sb.WriteString("|----|------|--------|---------|--------|--------|\n")

	for _, c := range favorites {
		name := escapeCell(c.Name)
		if c.URL != "" {
			name = fmt.Sprintf("[%s](%s)", name, c.URL)
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s |\n",
			c.ID, name,
			escapeCell(orDash(c.Status)),
			escapeCell(orDash(c.Species)),
			escapeCell(orDash(c.Gender)),
			escapeCell(orDash(c.Origin.Name))))
	}

	return sb.String()
}

// ExportFavoritesMarkdown writes the favorites document to path
func ExportFavoritesMarkdown(favorites []models.Character, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(FavoritesMarkdown(favorites, time.Now())), 0o644); err != nil {
		return fmt.Errorf("failed to write markdown file: %w", err)
	}
	return nil
}

// ExportDatabaseBackup copies the database file into dir with a timestamped name
func ExportDatabaseBackup(currentDBPath, dir string) (string, error) {
	timestamp := time.Now().Format("2006-01-02-150405")
	baseName := strings.TrimSuffix(filepath.Base(currentDBPath), filepath.Ext(currentDBPath))
	backupPath := filepath.Join(dir, fmt.Sprintf("%s-backup-%s.db", baseName, timestamp))

	src, err := os.Open(currentDBPath)
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(backupPath)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to copy database: %w", err)
	}

	return backupPath, nil
}

// escapeCell keeps pipes in names from breaking the table
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
