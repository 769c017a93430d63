package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/thesavant42/schwifty-ng/internal/catalog"
	"github.com/thesavant42/schwifty-ng/internal/live"
	"github.com/thesavant42/schwifty-ng/internal/models"
)

// Catalog is what the browser needs from the view model
type Catalog interface {
	State() *live.Stream[models.State]
	Favorites() *live.Stream[[]models.Character]
	Selected() *live.Stream[*models.Character]
	Load(ctx context.Context, appendPage bool) error
	Refresh(ctx context.Context) error
	SetSearchQuery(query string)
	Query() string
	ToggleFavorite(ctx context.Context, c models.Character) (bool, error)
	Select(c *models.Character)
}

// Tabs
const (
	tabCharacters = iota
	tabFavorites
)

var tabNames = []string{"Characters", "Favorites"}

const statusDuration = 3 * time.Second

// Message types for stream updates and async operations

type stateMsg struct{ state models.State }

type favoritesMsg struct{ favorites []models.Character }

type selectedMsg struct{ selected *models.Character }

type streamClosedMsg struct{}

type opDoneMsg struct {
	op  string
	err error
}

type favoriteToggledMsg struct {
	character models.Character
	favorite  bool
	err       error
}

// waitFor turns the next value of a stream subscription into a message
func waitFor[T any](ch <-chan T, wrap func(T) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return wrap(v)
	}
}

// BrowserModel is the interactive character browser
type BrowserModel struct {
	BaseTableModel
	PageState

	vm     Catalog
	ctx    context.Context
	cancel context.CancelFunc
	logger *log.Logger

	stateCh    <-chan models.State
	favoriteCh <-chan []models.Character
	selectedCh <-chan *models.Character

	state     models.State
	favorites []models.Character
	selected  *models.Character

	tab        int
	detailOpen bool
	searching  bool
	search     textinput.Model
	spinner    spinner.Model
	exportDir  string
}

// NewBrowserModel subscribes to the view model streams. The subscriptions end
// when ctx is cancelled or the model quits.
func NewBrowserModel(ctx context.Context, vm Catalog, logger *log.Logger) BrowserModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	ctx, cancel := context.WithCancel(ctx)

	ti := textinput.New()
	ti.Placeholder = "search by name"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.SetValue(vm.Query())

	return BrowserModel{
		BaseTableModel: NewBaseTableModel(),
		vm:             vm,
		ctx:            ctx,
		cancel:         cancel,
		logger:         logger,
		stateCh:        vm.State().Subscribe(ctx),
		favoriteCh:     vm.Favorites().Subscribe(ctx),
		selectedCh:     vm.Selected().Subscribe(ctx),
		state:          models.Loading{},
		search:         ti,
		spinner:        NewAppSpinner(),
		exportDir:      ".",
	}
}

func (m BrowserModel) Init() tea.Cmd {
	return tea.Batch(
		StandardInit(),
		m.spinner.Tick,
		m.listenState(),
		m.listenFavorites(),
		m.listenSelected(),
		m.run("load", func(ctx context.Context) error { return m.vm.Load(ctx, false) }),
	)
}

func (m BrowserModel) listenState() tea.Cmd {
	return waitFor(m.stateCh, func(s models.State) tea.Msg { return stateMsg{state: s} })
}

func (m BrowserModel) listenFavorites() tea.Cmd {
	return waitFor(m.favoriteCh, func(f []models.Character) tea.Msg { return favoritesMsg{favorites: f} })
}

func (m BrowserModel) listenSelected() tea.Cmd {
	return waitFor(m.selectedCh, func(c *models.Character) tea.Msg { return selectedMsg{selected: c} })
}

// run executes a view-model operation off the UI goroutine
func (m BrowserModel) run(op string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.ClearExpiredStatus()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.HandleWindowResize(msg.Width, msg.Height) {
			m.logger.Debug("Layout class changed", "class", m.Layout.Class, "width", msg.Width)
		}
		m.search.Width = m.Layout.InnerWidth - 6
		m.rebuildTable()
		return m, nil

	case stateMsg:
		m.state = msg.state
		m.logger.Debug("State received", "state", models.StateName(msg.state))
		m.rebuildTable()
		return m, m.listenState()

	case favoritesMsg:
		m.favorites = msg.favorites
		m.rebuildTable()
		return m, m.listenFavorites()

	case selectedMsg:
		m.selected = msg.selected
		if m.selected == nil {
			m.detailOpen = false
		}
		return m, m.listenSelected()

	case streamClosedMsg:
		return m, nil

	case opDoneMsg:
		switch {
		case errors.Is(msg.err, catalog.ErrBusy):
			m.SetStatus("Already loading", statusDuration)
		case errors.Is(msg.err, context.Canceled), errors.Is(msg.err, catalog.ErrClosed):
		case msg.err != nil:
			// The failure itself is rendered from the state
			m.logger.Warn("Operation failed", "op", msg.op, "error", msg.err)
		}
		return m, nil

	case favoriteToggledMsg:
		if msg.err != nil {
			m.SetStatus(fmt.Sprintf("Could not update favorites: %v", msg.err), statusDuration)
			return m, nil
		}
		verb := "Removed from"
		if msg.favorite {
			verb = "Added to"
		}
		m.SetStatus(fmt.Sprintf("%s favorites: %s", verb, msg.character.Name), statusDuration)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m BrowserModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "enter", "esc":
		m.searching = false
		m.search.Blur()
		m.Table.Focus()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := sanitizeInput(m.search.Value()); after != before {
		m.vm.SetSearchQuery(after)
	}
	return m, cmd
}

func (m BrowserModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if quit, _ := HandleQuitKeysNoEsc(key); quit {
		return m.quit()
	}

	switch key {
	case "/":
		m.searching = true
		m.tab = tabCharacters
		m.Table.Blur()
		m.rebuildTable()
		cmd := m.search.Focus()
		return m, cmd

	case "tab":
		m.tab = (m.tab + 1) % len(tabNames)
		m.detailOpen = false
		m.Table.SetCursor(0)
		m.rebuildTable()
		return m, nil

	case "enter":
		c, ok := m.current()
		if !ok {
			return m, nil
		}
		m.detailOpen = true
		m.selected = &c
		vm := m.vm
		return m, func() tea.Msg {
			vm.Select(&c)
			return nil
		}

	case "esc":
		if m.detailOpen {
			m.detailOpen = false
			vm := m.vm
			return m, func() tea.Msg {
				vm.Select(nil)
				return nil
			}
		}
		return m, nil

	case "f":
		c, ok := m.focused()
		if !ok {
			return m, nil
		}
		vm, ctx := m.vm, m.ctx
		return m, func() tea.Msg {
			fav, err := vm.ToggleFavorite(ctx, c)
			return favoriteToggledMsg{character: c, favorite: fav, err: err}
		}

	case "n", "right":
		if m.tab != tabCharacters {
			return m, nil
		}
		if s, ok := m.state.(models.Success); ok && !s.HasMore {
			m.SetStatus("No more pages", statusDuration)
			return m, nil
		}
		return m, m.run("load more", func(ctx context.Context) error { return m.vm.Load(ctx, true) })

	case "r":
		m.SetStatus("Refreshing...", statusDuration)
		return m, m.run("refresh", m.vm.Refresh)

	case "e":
		path := filepath.Join(m.exportDir, DefaultExportName(time.Now()))
		if err := ExportFavoritesMarkdown(m.favorites, path); err != nil {
			m.SetStatus(err.Error(), statusDuration)
		} else {
			m.SetStatus("Exported favorites to "+path, statusDuration)
		}
		return m, nil

	case "o":
		if c, ok := m.focused(); ok && c.URL != "" {
			if err := openURL(c.URL); err != nil {
				m.SetStatus(fmt.Sprintf("Could not open browser: %v", err), statusDuration)
			}
		}
		return m, nil
	}

	if m.detailOpen && m.Layout.Class == Compact {
		return m, nil
	}
	var cmd tea.Cmd
	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

func (m BrowserModel) quit() (tea.Model, tea.Cmd) {
	m.Quitting = true
	m.cancel()
	return m, tea.Quit
}

// visible returns the characters listed on the active tab
func (m BrowserModel) visible() []models.Character {
	if m.tab == tabFavorites {
		return m.favorites
	}
	if page := models.Payload(m.state); page != nil {
		return page.Results
	}
	return nil
}

// current returns the character under the table cursor
func (m BrowserModel) current() (models.Character, bool) {
	list := m.visible()
	i := m.Table.Cursor()
	if i < 0 || i >= len(list) {
		return models.Character{}, false
	}
	return list[i], true
}

// focused is the open detail character, or the row under the cursor
func (m BrowserModel) focused() (models.Character, bool) {
	if m.detailOpen && m.selected != nil {
		return *m.selected, true
	}
	return m.current()
}

// rebuildTable resets columns for the width class and reloads the rows.
// Rows are cleared first so no row is rendered against mismatched columns.
func (m *BrowserModel) rebuildTable() {
	m.Table.SetRows(nil)
	m.Table.SetColumns(CalculateColumns(CharacterColumns(m.Layout.Class), m.Layout.TableWidth))
	m.SetRows(CharacterRows(m.Layout.Class, m.visible()))
}

func (m BrowserModel) View() string {
	if m.Quitting {
		return ""
	}

	subtitle := fmt.Sprintf("%s layout", m.Layout.Class)
	if q := m.vm.Query(); q != "" {
		subtitle = fmt.Sprintf("search %q | %s", q, subtitle)
	}

	var b strings.Builder
	b.WriteString(ViewHeaderWithSubtitle("Schwifty", subtitle, m.Layout.InnerWidth))
	b.WriteString(RenderTabs(tabNames, m.tab))
	b.WriteString("\n")
	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	if m.tab == tabFavorites {
		b.WriteString(m.renderFavorites())
	} else {
		b.WriteString(m.renderState())
	}

	if m.HasStatus() {
		b.WriteString("\n")
		b.WriteString(ProgressStyle.Render(m.StatusMsg))
	}

	return BuildTwoBoxView(b.String(), m.helpText(), m.Layout)
}

// renderState renders every case of the fetch state
func (m BrowserModel) renderState() string {
	return models.MatchState(m.state,
		func(models.Loading) string {
			return fmt.Sprintf("\n%s %s\n", m.spinner.View(), RenderNormal("Loading characters..."))
		},
		func(s models.Success) string {
			var b strings.Builder
			b.WriteString(m.renderBadges(s))
			if s.Page.Len() == 0 {
				b.WriteString("\n" + RenderDim("No characters found") + "\n")
				return b.String()
			}
			b.WriteString(m.renderBody())
			return b.String()
		},
		func(e models.Error) string {
			var b strings.Builder
			b.WriteString(RenderError(fmt.Sprintf("%s error: %s", e.Kind, e.Message)))
			b.WriteString("\n")
			if e.Last.Len() == 0 {
				b.WriteString(RenderDim("Nothing cached yet. Press r to retry."))
				b.WriteString("\n")
				return b.String()
			}
			b.WriteString(NoticeStyle.Render("Showing the last results. Press r to retry."))
			b.WriteString("\n")
			b.WriteString(m.renderBody())
			return b.String()
		},
	)
}

func (m BrowserModel) renderBadges(s models.Success) string {
	var parts []string
	if s.FromCache {
		parts = append(parts, CacheBadgeStyle.Render("CACHED"))
	}
	parts = append(parts, RenderDim(fmt.Sprintf("%d shown", s.Page.Len())))
	if s.HasMore {
		parts = append(parts, RenderDim("more: n"))
	}
	line := strings.Join(parts, " ") + "\n"
	if s.Notice != "" {
		line += NoticeStyle.Render(truncateToWidth(s.Notice, m.Layout.InnerWidth)) + "\n"
	}
	return line
}

func (m BrowserModel) renderFavorites() string {
	if len(m.favorites) == 0 {
		return "\n" + RenderDim("No favorites yet. Press f on a character to add one.") + "\n"
	}
	return RenderDim(fmt.Sprintf("%d favorites", len(m.favorites))) + "\n" + m.renderBody()
}

// renderBody arranges list and detail for the width class
func (m BrowserModel) renderBody() string {
	list := RenderTableWithSelection(m.Table, m.Layout.TableWidth)

	switch m.Layout.Class {
	case Compact:
		if m.detailOpen && m.selected != nil {
			return RenderDetail(*m.selected, m.Layout.InnerWidth)
		}
		return list

	case Medium:
		c, ok := m.focused()
		if !ok {
			return list
		}
		return list + "\n" + FullWidthDivider(m.Layout.InnerWidth) + "\n" + RenderDetailStrip(c, m.Layout.InnerWidth)

	default:
		detail := RenderDim("Select a character")
		if c, ok := m.focused(); ok {
			detail = RenderDetail(c, m.Layout.DetailWidth-1)
		}
		pane := lipgloss.NewStyle().
			Width(m.Layout.DetailWidth).
			PaddingLeft(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(ColorBorder).
			Render(detail)
		return lipgloss.JoinHorizontal(lipgloss.Top, list, pane)
	}
}

func (m BrowserModel) helpText() string {
	if m.searching {
		return "type to search | Enter/Esc: done"
	}
	if m.detailOpen && m.Layout.Class == Compact {
		return "f: favorite | o: open | Esc: back | q: quit"
	}
	return "/: search | Enter: detail | f: favorite | n: more | r: retry | Tab: favorites | e: export | q: quit"
}

// RunBrowser starts the interactive browser on the alternate screen
func RunBrowser(ctx context.Context, vm Catalog, logger *log.Logger) error {
	model := NewBrowserModel(ctx, vm, logger)
	defer model.cancel()

	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("interactive mode failed: %w", err)
	}
	return nil
}

// openURL opens a URL in the default browser (cross-platform)
func openURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
