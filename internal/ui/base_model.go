package ui

// base_model.go provides common table functionality for Bubble Tea models.

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// BaseTableModel provides the table and layout shared by list views.
//
// Usage:
//
//	type myModel struct {
//	    BaseTableModel
//	    customField string
//	}
type BaseTableModel struct {
	Table    table.Model
	Layout   Layout
	Quitting bool
}

// NewBaseTableModel creates a BaseTableModel with default layout
func NewBaseTableModel() BaseTableModel {
	layout := DefaultLayout()
	return BaseTableModel{
		Table:  InitTable(CalculateColumns(CharacterColumns(layout.Class), layout.TableWidth), nil, layout),
		Layout: layout,
	}
}

// InitTable creates a focused table with the app styles
func InitTable(columns []table.Column, rows []table.Row, layout Layout) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(layout.TableHeight),
	)
	ApplyTableStyles(&t)
	t.GotoTop()
	return t
}

// StandardInit asks for the window size
func StandardInit() tea.Cmd {
	return tea.WindowSize()
}

// HandleWindowResize recomputes the layout and returns true if the width class changed
func (m *BaseTableModel) HandleWindowResize(width, height int) bool {
	prev := m.Layout.Class
	m.Layout = NewLayout(width, height)
	m.Table.SetHeight(m.Layout.TableHeight)
	m.Table.SetWidth(m.Layout.TableWidth)
	return prev != m.Layout.Class
}

// SetRows replaces the rows and keeps the cursor in range
func (m *BaseTableModel) SetRows(rows []table.Row) {
	cursor := m.Table.Cursor()
	m.Table.SetRows(rows)
	switch {
	case len(rows) == 0:
		m.Table.SetCursor(0)
	case cursor >= len(rows):
		m.Table.SetCursor(len(rows) - 1)
	}
}

// HandleQuitKeysNoEsc returns true and Quit cmd for q/ctrl+c keys.
// esc is left alone because it closes the detail pane and the search box.
func HandleQuitKeysNoEsc(key string) (bool, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		return true, tea.Quit
	}
	return false, nil
}
