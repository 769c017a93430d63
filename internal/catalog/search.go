package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/thesavant42/schwifty-ng/internal/api"
	"github.com/thesavant42/schwifty-ng/internal/models"
	"golang.org/x/sync/errgroup"
)

type searchResult struct {
	results   []models.Character
	localErr  error
	remoteErr error
}

// failure picks the error to show when a search produced nothing
func (r searchResult) failure() (models.ErrorKind, string) {
	if r.remoteErr != nil {
		return remoteKind(r.remoteErr), r.remoteErr.Error()
	}
	return models.KindStorage, fmt.Sprintf("local search failed: %v", r.localErr)
}

// searchBoth queries the cache and the API concurrently.
// Remote hits come first, then cached hits the API did not return.
// A 404 from the API means no remote hits, not a failure.
func (vm *ViewModel) searchBoth(ctx context.Context, query string) searchResult {
	var (
		res    searchResult
		local  []models.Character
		remote *models.Page
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		local, res.localErr = vm.store.SearchCharacters(gctx, query)
		if res.localErr != nil {
			vm.logger.Warn("Local search failed", "query", query, "error", res.localErr)
		}
		// errors are kept per side so one failure does not cancel the other
		return nil
	})
	g.Go(func() error {
		remote, res.remoteErr = vm.remote.FetchCharacters(gctx, api.Query{Page: 1, Name: query})
		if errors.Is(res.remoteErr, api.ErrNotFound) {
			vm.logger.Debug("No remote matches", "query", query)
			remote, res.remoteErr = nil, nil
		}
		if res.remoteErr != nil {
			vm.logger.Warn("Remote search failed", "query", query, "error", res.remoteErr)
		}
		return nil
	})
	_ = g.Wait()

	if remote != nil {
		if favorites, err := vm.store.FavoriteIDs(ctx); err == nil {
			remote = remote.WithFavorites(favorites)
		}
	}

	var remoteHits []models.Character
	if remote != nil {
		remoteHits = remote.Results
	}
	res.results = models.UnionByID(remoteHits, local)
	return res
}
