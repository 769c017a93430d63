// Package catalog reconciles the local character cache with the paginated
// remote API and publishes a single observable state for the presentation layer.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/schwifty-ng/internal/api"
	"github.com/thesavant42/schwifty-ng/internal/live"
	"github.com/thesavant42/schwifty-ng/internal/models"
)

// ErrBusy is returned when the same page is already being loaded
var ErrBusy = errors.New("load already in progress")

// Remote is the network side of the catalog
type Remote interface {
	FetchCharacters(ctx context.Context, q api.Query) (*models.Page, error)
	FetchCharacter(ctx context.Context, id int) (models.Character, error)
}

// Store is the local cache side of the catalog
type Store interface {
	AllCharacters(ctx context.Context) ([]models.Character, error)
	SearchCharacters(ctx context.Context, query string) ([]models.Character, error)
	FavoriteCharacters(ctx context.Context) ([]models.Character, error)
	FavoriteIDs(ctx context.Context) (map[int]bool, error)
	GetCharacter(ctx context.Context, id int) (models.Character, error)
	ReplaceCharacters(ctx context.Context, records []models.Character) error
	UpsertCharacters(ctx context.Context, records []models.Character) error
	ToggleFavorite(ctx context.Context, c models.Character) (bool, error)
	ClearCharacters(ctx context.Context) error
	Changes() *live.Stream[uint64]
}

// MergeMode decides how the first fetched page is written to the cache
type MergeMode string

const (
	// MergeReplace swaps the cached listing for page 1 (favorites are kept)
	MergeReplace MergeMode = "replace"
	// MergeUpsert inserts or updates page 1 like every later page
	MergeUpsert MergeMode = "upsert"
)

// ParseMergeMode validates a merge mode name from configuration
func ParseMergeMode(s string) (MergeMode, error) {
	switch MergeMode(strings.ToLower(strings.TrimSpace(s))) {
	case MergeReplace, "":
		return MergeReplace, nil
	case MergeUpsert:
		return MergeUpsert, nil
	}
	return "", fmt.Errorf("unknown merge mode %q (want %s or %s)", s, MergeReplace, MergeUpsert)
}

// Policy tunes the reconciliation behavior
type Policy struct {
	Merge    MergeMode
	Debounce time.Duration
	// StrictErrors turns every remote failure into an Error state carrying
	// the standing payload, instead of keeping the Success with a notice.
	StrictErrors bool
}

// DefaultPolicy returns replace-on-refresh with a 300ms search debounce
func DefaultPolicy() Policy {
	return Policy{
		Merge:    MergeReplace,
		Debounce: 300 * time.Millisecond,
	}
}

type opKind int

const (
	opLoad opKind = iota
	opSearch
)

type loadKey struct {
	page  int
	query string
}

// ViewModel owns the cursor (page, query) and the published streams.
// Cursor fields are only touched on the dispatcher goroutine.
type ViewModel struct {
	remote Remote
	store  Store
	policy Policy
	logger *log.Logger

	state     *live.Stream[models.State]
	favorites *live.Stream[[]models.Character]
	selected  *live.Stream[*models.Character]

	queue *dispatcher

	// dispatcher-owned
	nextPage   int
	lastPage   bool
	query      string
	lastOp     opKind
	generation uint64
	inflight   map[loadKey]bool
	favVersion uint64
	// listed is the network-backed list that appends extend; nil until a
	// page 1 fetch succeeds for the current cursor
	listed *models.Page

	searchMu     sync.Mutex
	searchCancel context.CancelFunc
	pendingQuery string

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates a view model and starts watching the store for favorite changes.
// Call Close to stop it.
func New(remote Remote, store Store, policy Policy, logger *log.Logger) *ViewModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if policy.Merge == "" {
		policy.Merge = MergeReplace
	}
	if policy.Debounce < 0 {
		policy.Debounce = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	vm := &ViewModel{
		remote:    remote,
		store:     store,
		policy:    policy,
		logger:    logger,
		state:     live.NewStreamWith[models.State](models.Loading{}),
		favorites: live.NewStreamWith[[]models.Character](nil),
		selected:  live.NewStreamWith[*models.Character](nil),
		queue:     newDispatcher(),
		nextPage:  1,
		inflight:  make(map[loadKey]bool),
		ctx:       ctx,
		cancel:    cancel,
	}

	vm.wg.Add(1)
	go vm.watchFavorites()

	return vm
}

// Close stops pending searches and the favorites watcher, then closes every stream
func (vm *ViewModel) Close() {
	vm.closeOnce.Do(func() {
		vm.cancel()
		vm.searchMu.Lock()
		if vm.searchCancel != nil {
			vm.searchCancel()
		}
		vm.searchMu.Unlock()
		vm.wg.Wait()
		vm.queue.stop()
		vm.state.Close()
		vm.favorites.Close()
		vm.selected.Close()
	})
}

// State is the observable fetch state
func (vm *ViewModel) State() *live.Stream[models.State] {
	return vm.state
}

// Favorites is the live list of favorite characters
func (vm *ViewModel) Favorites() *live.Stream[[]models.Character] {
	return vm.favorites
}

// Selected is the character shown in the detail pane, nil when none
func (vm *ViewModel) Selected() *live.Stream[*models.Character] {
	return vm.selected
}

// Query returns the active search query
func (vm *ViewModel) Query() string {
	var q string
	vm.queue.call(func() { q = vm.query })
	return q
}

// Select shows c in the detail pane; nil clears the selection
func (vm *ViewModel) Select(c *models.Character) {
	var cp *models.Character
	if c != nil {
		v := *c
		cp = &v
	}
	vm.queue.call(func() { vm.selected.Publish(cp) })
}

// Load fetches the first page (append=false) or the next page (append=true)
// for the active query.
//
// For page 1 without a query, a non-empty cache is published first as
// Success{FromCache: true}. A remote failure keeps a standing Success and
// only becomes Error when nothing can be shown.
func (vm *ViewModel) Load(ctx context.Context, appendPage bool) error {
	var (
		gen  uint64
		key  loadKey
		skip bool
		busy bool
	)
	err := vm.queue.call(func() {
		if appendPage && vm.lastPage {
			skip = true
			return
		}
		page := vm.nextPage
		if !appendPage {
			page = 1
		}
		key = loadKey{page: page, query: vm.query}
		if vm.inflight[key] {
			busy = true
			return
		}
		vm.inflight[key] = true

		vm.generation++
		gen = vm.generation
		vm.lastOp = opLoad
		if !appendPage {
			vm.nextPage = 1
			vm.lastPage = false
			vm.listed = nil
			vm.publish(models.Loading{})
		}
	})
	if err != nil {
		return err
	}
	if skip {
		return nil
	}
	if busy {
		return ErrBusy
	}
	defer vm.queue.call(func() { delete(vm.inflight, key) })

	vm.logger.Info("Loading page", "page", key.page, "query", key.query, "append", appendPage)

	if key.page == 1 && key.query == "" {
		cached, err := vm.store.AllCharacters(ctx)
		if err != nil {
			vm.logger.Warn("Cache read failed", "error", err)
		} else if len(cached) > 0 {
			vm.queue.call(func() {
				if gen != vm.generation {
					return
				}
				vm.publish(models.Success{Page: models.NewLocalPage(cached), FromCache: true})
			})
		}
	}

	fetched, err := vm.remote.FetchCharacters(ctx, api.Query{Page: key.page, Name: key.query})
	if err != nil {
		vm.logger.Error("Remote load failed", "page", key.page, "error", err)
		vm.queue.call(func() { vm.fail(gen, remoteKind(err), err.Error()) })
		return err
	}

	notice := vm.persist(ctx, key, fetched)

	favorites, ferr := vm.store.FavoriteIDs(ctx)
	if ferr != nil {
		vm.logger.Warn("Favorite lookup failed", "error", ferr)
	} else {
		fetched = fetched.WithFavorites(favorites)
	}

	vm.queue.call(func() {
		if gen != vm.generation {
			vm.logger.Debug("Discarding superseded page", "page", key.page)
			return
		}

		// The published state may be an Error carrying the list, so appends
		// extend the dispatcher's copy rather than whatever is on screen.
		merged := fetched
		if appendPage && vm.listed != nil {
			merged = vm.listed.Append(fetched)
		}
		vm.listed = merged

		vm.lastPage = !fetched.HasNext()
		if !vm.lastPage {
			vm.nextPage = key.page + 1
		}

		vm.publish(models.Success{
			Page:    merged,
			HasMore: !vm.lastPage,
			Notice:  notice,
		})
	})

	return nil
}

// persist writes a fetched page to the cache and returns a notice when that failed.
// The fetched data is still shown; only the cache is stale.
func (vm *ViewModel) persist(ctx context.Context, key loadKey, page *models.Page) string {
	var err error
	if key.page == 1 && key.query == "" && vm.policy.Merge == MergeReplace {
		err = vm.store.ReplaceCharacters(ctx, page.Results)
	} else {
		err = vm.store.UpsertCharacters(ctx, page.Results)
	}
	if err != nil {
		vm.logger.Error("Cache write failed", "page", key.page, "error", err)
		return fmt.Sprintf("cache not updated: %v", err)
	}
	return ""
}

// Search runs a local substring search and a best-effort remote name search.
// An empty query reloads the unfiltered first page.
func (vm *ViewModel) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		if err := vm.queue.call(func() { vm.query = "" }); err != nil {
			return err
		}
		return vm.Load(ctx, false)
	}

	var gen uint64
	err := vm.queue.call(func() {
		vm.generation++
		gen = vm.generation
		vm.query = query
		vm.nextPage = 1
		// search results are a single page
		vm.lastPage = true
		vm.listed = nil
		vm.lastOp = opSearch
		vm.publish(models.Loading{})
	})
	if err != nil {
		return err
	}

	vm.logger.Info("Searching", "query", query)
	res := vm.searchBoth(ctx, query)
	if ctx.Err() != nil {
		// Superseded by a newer query
		return nil
	}

	vm.queue.call(func() {
		if gen != vm.generation {
			vm.logger.Debug("Discarding superseded search", "query", query)
			return
		}
		if len(res.results) == 0 && (res.remoteErr != nil || res.localErr != nil) {
			kind, msg := res.failure()
			vm.publish(models.Error{Kind: kind, Message: msg})
			return
		}
		var notice string
		if res.remoteErr != nil {
			notice = fmt.Sprintf("showing cached matches: %v", res.remoteErr)
		}
		vm.publish(models.Success{
			Page:      models.NewLocalPage(res.results),
			FromCache: res.remoteErr != nil,
			Notice:    notice,
		})
	})
	return nil
}

// SetSearchQuery debounces query changes. A new call cancels the pending
// debounce or in-flight search; repeating the current query is a no-op.
func (vm *ViewModel) SetSearchQuery(query string) {
	query = strings.TrimSpace(query)

	vm.searchMu.Lock()
	defer vm.searchMu.Unlock()

	if query == vm.pendingQuery {
		return
	}
	vm.pendingQuery = query
	if vm.searchCancel != nil {
		vm.searchCancel()
	}
	if vm.ctx.Err() != nil {
		return
	}

	ctx, cancel := context.WithCancel(vm.ctx)
	vm.searchCancel = cancel

	vm.wg.Add(1)
	go func() {
		defer vm.wg.Done()

		timer := time.NewTimer(vm.policy.Debounce)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if err := vm.Search(ctx, query); err != nil && ctx.Err() == nil {
			vm.logger.Warn("Search failed", "query", query, "error", err)
		}
	}()
}

// Refresh retries the last operation: the active search, or page 1
func (vm *ViewModel) Refresh(ctx context.Context) error {
	var op opKind
	var query string
	if err := vm.queue.call(func() { op, query = vm.lastOp, vm.query }); err != nil {
		return err
	}
	if op == opSearch && query != "" {
		return vm.Search(ctx, query)
	}
	return vm.Load(ctx, false)
}

// ToggleFavorite flips and persists the favorite flag of c and returns the new value.
// Favorites and the standing list are republished before it returns.
func (vm *ViewModel) ToggleFavorite(ctx context.Context, c models.Character) (bool, error) {
	favorite, err := vm.store.ToggleFavorite(ctx, c)
	if err != nil {
		vm.logger.Error("Toggle favorite failed", "id", c.ID, "error", err)
		vm.queue.call(func() { vm.softFail(models.KindStorage, fmt.Sprintf("failed to update favorites: %v", err)) })
		return false, err
	}
	vm.logger.Info("Toggled favorite", "id", c.ID, "favorite", favorite)

	if err := vm.refreshFavorites(ctx); err != nil {
		vm.logger.Warn("Favorites reload failed", "error", err)
	}

	vm.queue.call(func() {
		vm.listed = markFavorite(vm.listed, c.ID, favorite)
		switch s := vm.current().(type) {
		case models.Success:
			s.Page = markFavorite(s.Page, c.ID, favorite)
			vm.publish(s)
		case models.Error:
			if s.Last != nil {
				s.Last = markFavorite(s.Last, c.ID, favorite)
				vm.publish(s)
			}
		}
		if sel, ok := vm.selected.Latest(); ok && sel != nil && sel.ID == c.ID {
			updated := *sel
			updated.Favorite = favorite
			vm.selected.Publish(&updated)
		}
	})

	return favorite, nil
}

// Character returns a character from the cache, falling back to the API.
// A character fetched remotely is cached.
func (vm *ViewModel) Character(ctx context.Context, id int) (models.Character, error) {
	c, err := vm.store.GetCharacter(ctx, id)
	if err == nil {
		return c, nil
	}
	vm.logger.Debug("Character not cached", "id", id, "error", err)

	c, rerr := vm.remote.FetchCharacter(ctx, id)
	if rerr != nil {
		return models.Character{}, rerr
	}
	if err := vm.store.UpsertCharacters(ctx, []models.Character{c}); err != nil {
		vm.logger.Warn("Cache write failed", "id", id, "error", err)
	}
	return c, nil
}

// ClearCache deletes every cached character, favorites included, and resets the cursor
func (vm *ViewModel) ClearCache(ctx context.Context) error {
	if err := vm.store.ClearCharacters(ctx); err != nil {
		vm.queue.call(func() { vm.softFail(models.KindStorage, fmt.Sprintf("failed to clear cache: %v", err)) })
		return err
	}
	vm.logger.Info("Cache cleared")
	if err := vm.refreshFavorites(ctx); err != nil {
		vm.logger.Warn("Favorites reload failed", "error", err)
	}
	return vm.queue.call(func() {
		vm.nextPage = 1
		vm.lastPage = false
		vm.listed = nil
		vm.selected.Publish(nil)
	})
}

// watchFavorites republishes favorites after every cache write
func (vm *ViewModel) watchFavorites() {
	defer vm.wg.Done()
	for range vm.store.Changes().Subscribe(vm.ctx) {
		if err := vm.refreshFavorites(vm.ctx); err != nil && vm.ctx.Err() == nil {
			vm.logger.Warn("Favorites reload failed", "error", err)
			vm.queue.call(func() { vm.softFail(models.KindStorage, fmt.Sprintf("failed to load favorites: %v", err)) })
		}
	}
}

// refreshFavorites reads the favorites and publishes them unless a newer read already did
func (vm *ViewModel) refreshFavorites(ctx context.Context) error {
	version, _ := vm.store.Changes().Latest()
	favs, err := vm.store.FavoriteCharacters(ctx)
	if err != nil {
		return err
	}
	return vm.queue.call(func() {
		if version < vm.favVersion {
			return
		}
		vm.favVersion = version
		vm.favorites.Publish(favs)
	})
}

// publish must run on the dispatcher
func (vm *ViewModel) publish(s models.State) {
	vm.logger.Debug("State", "state", models.StateName(s))
	vm.state.Publish(s)
}

// current must run on the dispatcher
func (vm *ViewModel) current() models.State {
	s, _ := vm.state.Latest()
	return s
}

// fail handles a remote failure for operation gen. Must run on the dispatcher.
func (vm *ViewModel) fail(gen uint64, kind models.ErrorKind, msg string) {
	if gen != vm.generation {
		return
	}
	switch s := vm.current().(type) {
	case models.Success:
		if vm.policy.StrictErrors {
			vm.publish(models.Error{Kind: kind, Message: msg, Last: s.Page})
			return
		}
		s.Notice = msg
		vm.publish(s)
	case models.Error:
		vm.publish(models.Error{Kind: kind, Message: msg, Last: s.Last})
	default:
		vm.publish(models.Error{Kind: kind, Message: msg})
	}
}

// softFail reports a failure without hiding data that is on screen. Must run on the dispatcher.
func (vm *ViewModel) softFail(kind models.ErrorKind, msg string) {
	if s, ok := vm.current().(models.Success); ok {
		s.Notice = msg
		vm.publish(s)
		return
	}
	vm.publish(models.Error{Kind: kind, Message: msg})
}

// markFavorite returns a copy of page with the favorite flag of id set
func markFavorite(page *models.Page, id int, favorite bool) *models.Page {
	out := page.Clone()
	if out == nil {
		return nil
	}
	for i := range out.Results {
		if out.Results[i].ID == id {
			out.Results[i].Favorite = favorite
		}
	}
	return out
}

// remoteKind classifies a remote failure, treating cancellation as a network failure
func remoteKind(err error) models.ErrorKind {
	if kind := api.KindOf(err); kind != models.KindUnknown {
		return kind
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return models.KindNetwork
	}
	return models.KindUnknown
}
