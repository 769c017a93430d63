package ui

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesavant42/schwifty-ng/internal/live"
	"github.com/thesavant42/schwifty-ng/internal/models"
)

// fakeCatalog records calls and exposes streams the test publishes to
type fakeCatalog struct {
	mu        sync.Mutex
	state     *live.Stream[models.State]
	favorites *live.Stream[[]models.Character]
	selected  *live.Stream[*models.Character]
	queries   []string
	loads     []bool
	toggled   []int
	refreshes int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		state:     live.NewStreamWith[models.State](models.Loading{}),
		favorites: live.NewStream[[]models.Character](),
		selected:  live.NewStream[*models.Character](),
	}
}

func (f *fakeCatalog) State() *live.Stream[models.State]           { return f.state }
func (f *fakeCatalog) Favorites() *live.Stream[[]models.Character] { return f.favorites }
func (f *fakeCatalog) Selected() *live.Stream[*models.Character]   { return f.selected }
func (f *fakeCatalog) Query() string                               { return "" }

func (f *fakeCatalog) Load(ctx context.Context, appendPage bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads = append(f.loads, appendPage)
	return nil
}

func (f *fakeCatalog) Refresh(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return nil
}

func (f *fakeCatalog) SetSearchQuery(query string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
}

func (f *fakeCatalog) ToggleFavorite(ctx context.Context, c models.Character) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggled = append(f.toggled, c.ID)
	return true, nil
}

func (f *fakeCatalog) Select(c *models.Character) {
	f.selected.Publish(c)
}

var testCharacters = []models.Character{
	{ID: 1, Name: "Rick Sanchez", Status: "Alive", Species: "Human", Gender: "Male", Origin: models.Place{Name: "Earth (C-137)"}},
	{ID: 2, Name: "Morty Smith", Status: "Alive", Species: "Human", Gender: "Male"},
	{ID: 3, Name: "Summer Smith", Status: "Alive", Species: "Human", Gender: "Female", Favorite: true},
}

func newTestBrowser(t *testing.T, width int) (BrowserModel, *fakeCatalog) {
	t.Helper()
	vm := newFakeCatalog()
	m := NewBrowserModel(context.Background(), vm, nil)
	t.Cleanup(m.cancel)
	m = update(t, m, tea.WindowSizeMsg{Width: width, Height: 40})
	return m, vm
}

func update(t *testing.T, m BrowserModel, msg tea.Msg) BrowserModel {
	t.Helper()
	next, _ := m.Update(msg)
	bm, ok := next.(BrowserModel)
	require.True(t, ok)
	return bm
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func success(chars ...models.Character) stateMsg {
	return stateMsg{state: models.Success{Page: models.NewLocalPage(chars), HasMore: true}}
}

func TestBrowserRendersLoading(t *testing.T) {
	m, _ := newTestBrowser(t, 100)
	assert.Contains(t, m.View(), "Loading characters")
}

func TestBrowserRendersSuccess(t *testing.T) {
	m, _ := newTestBrowser(t, 100)
	m = update(t, m, success(testCharacters...))

	view := m.View()
	assert.Contains(t, view, "Rick Sanchez")
	assert.Contains(t, view, "3 shown")
	assert.NotContains(t, view, "CACHED")
}

func TestBrowserRendersCacheBadgeAndNotice(t *testing.T) {
	m, _ := newTestBrowser(t, 100)
	m = update(t, m, stateMsg{state: models.Success{
		Page:      models.NewLocalPage(testCharacters),
		FromCache: true,
		Notice:    "connection error: offline",
	}})

	view := m.View()
	assert.Contains(t, view, "CACHED")
	assert.Contains(t, view, "connection error: offline")
}

func TestBrowserRendersErrorWithStaleData(t *testing.T) {
	m, _ := newTestBrowser(t, 100)
	m = update(t, m, stateMsg{state: models.Error{
		Kind:    models.KindStatus,
		Message: "API error (status 500): boom",
		Last:    models.NewLocalPage(testCharacters[:1]),
	}})

	view := m.View()
	assert.Contains(t, view, "status error")
	assert.Contains(t, view, "Showing the last results")
	assert.Contains(t, view, "Rick Sanchez")
}

func TestBrowserRendersErrorWithoutData(t *testing.T) {
	m, _ := newTestBrowser(t, 100)
	m = update(t, m, stateMsg{state: models.Error{Kind: models.KindNetwork, Message: "connection error"}})

	assert.Contains(t, m.View(), "Press r to retry")
}

func TestBrowserLayoutClasses(t *testing.T) {
	tests := []struct {
		width int
		want  WidthClass
	}{
		{60, Compact},
		{79, Compact},
		{80, Medium},
		{119, Medium},
		{120, Expanded},
		{200, Expanded},
	}

	for _, tt := range tests {
		m, _ := newTestBrowser(t, tt.width)
		assert.Equal(t, tt.want, m.Layout.Class, "width %d", tt.width)
		assert.Len(t, m.Table.Columns(), len(CharacterColumns(tt.want)))
	}
}

func TestBrowserCompactDetailReplacesList(t *testing.T) {
	m, vm := newTestBrowser(t, 60)
	m = update(t, m, success(testCharacters...))
	m = update(t, m, key("down"))

	next, cmd := m.Update(key("enter"))
	m = next.(BrowserModel)
	require.NotNil(t, cmd)
	cmd()

	sel, ok := vm.selected.Latest()
	require.True(t, ok)
	require.NotNil(t, sel)
	assert.Equal(t, 2, sel.ID)

	view := m.View()
	assert.Contains(t, view, "Morty Smith")
	assert.NotContains(t, view, "Rick Sanchez")
	assert.Contains(t, view, "Esc: back")

	next, cmd = m.Update(key("esc"))
	m = next.(BrowserModel)
	cmd()
	assert.False(t, m.detailOpen)
	assert.Contains(t, m.View(), "Rick Sanchez")
}

func TestBrowserExpandedShowsDetailBesideList(t *testing.T) {
	m, _ := newTestBrowser(t, 140)
	m = update(t, m, success(testCharacters...))

	view := m.View()
	assert.Contains(t, view, "Rick Sanchez")
	assert.Contains(t, view, "Earth (C-137)")
}

func TestBrowserMediumShowsDetailStrip(t *testing.T) {
	m, _ := newTestBrowser(t, 100)
	m = update(t, m, success(testCharacters...))

	assert.Contains(t, m.View(), "from Earth (C-137)")
}

func TestBrowserToggleFavorite(t *testing.T) {
	m, vm := newTestBrowser(t, 100)
	m = update(t, m, success(testCharacters...))

	_, cmd := m.Update(key("f"))
	require.NotNil(t, cmd)
	msg := cmd()

	toggled, ok := msg.(favoriteToggledMsg)
	require.True(t, ok)
	assert.True(t, toggled.favorite)
	assert.Equal(t, []int{1}, vm.toggled)

	m = update(t, m, msg)
	assert.Contains(t, m.View(), "Added to favorites: Rick Sanchez")
}

func TestBrowserLoadMoreAndRetry(t *testing.T) {
	m, vm := newTestBrowser(t, 100)
	m = update(t, m, success(testCharacters...))

	_, cmd := m.Update(key("n"))
	require.NotNil(t, cmd)
	cmd()
	_, cmd = m.Update(key("r"))
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, []bool{true}, vm.loads)
	assert.Equal(t, 1, vm.refreshes)

	// Last page reached: no request
	m = update(t, m, stateMsg{state: models.Success{Page: models.NewLocalPage(testCharacters)}})
	_, cmd = m.Update(key("n"))
	assert.Nil(t, cmd)
}

func TestBrowserSearchInput(t *testing.T) {
	m, vm := newTestBrowser(t, 100)

	m = update(t, m, key("/"))
	assert.True(t, m.searching)

	for _, r := range "rick" {
		m = update(t, m, key(string(r)))
	}
	m = update(t, m, key("enter"))

	assert.False(t, m.searching)
	assert.Equal(t, []string{"r", "ri", "ric", "rick"}, vm.queries)
}

func TestBrowserFavoritesTab(t *testing.T) {
	m, _ := newTestBrowser(t, 100)
	m = update(t, m, success(testCharacters...))

	m = update(t, m, key("tab"))
	assert.Contains(t, m.View(), "No favorites yet")

	m = update(t, m, favoritesMsg{favorites: testCharacters[2:]})
	view := m.View()
	assert.Contains(t, view, "Summer Smith")
	assert.NotContains(t, view, "Rick Sanchez")
	assert.Contains(t, view, "1 favorites")
}

func TestBrowserQuit(t *testing.T) {
	m, _ := newTestBrowser(t, 100)
	next, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.True(t, next.(BrowserModel).Quitting)
	assert.Error(t, m.ctx.Err())
}
