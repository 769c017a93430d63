package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/thesavant42/schwifty-ng/internal/api"
	"github.com/thesavant42/schwifty-ng/internal/catalog"
	"github.com/thesavant42/schwifty-ng/internal/config"
	"github.com/thesavant42/schwifty-ng/internal/db"
	"github.com/thesavant42/schwifty-ng/internal/logging"
	"github.com/thesavant42/schwifty-ng/internal/models"
	"github.com/thesavant42/schwifty-ng/internal/ui"
)

// app holds everything a command needs, opened in dependency order
type app struct {
	cfg    *config.Config
	logs   *logging.Logger
	store  *db.DB
	client *api.Client
	vm     *catalog.ViewModel
}

func openApp(c *config.Config) (*app, error) {
	logs, err := logging.Open(c.LogPath(), c.Log.Level)
	if err != nil {
		return nil, err
	}

	store, err := db.New(c.DatabasePath(), logs.For(logging.PrefixDB))
	if err != nil {
		logs.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	opts := c.ClientOptions()
	opts.Logger = logs.For(logging.PrefixAPI)
	client, err := api.NewClient(opts)
	if err != nil {
		store.Close()
		logs.Close()
		return nil, err
	}

	logs.Info("Starting", "db", c.DatabasePath(), "api", client.ListURL(api.Query{}).String())

	return &app{
		cfg:    c,
		logs:   logs,
		store:  store,
		client: client,
		vm:     catalog.New(client, store, c.Policy(), logs.For(logging.PrefixSync)),
	}, nil
}

// Close stops the view model before closing the store it watches
func (a *app) Close() {
	a.vm.Close()
	if err := a.store.Close(); err != nil {
		a.logs.Warn("Database close failed", "error", err)
	}
	a.logs.Close()
}

// printState writes whatever the state can show and returns an error for Error states.
// Stale payloads are still printed with a notice.
func printState(w io.Writer, title string, s models.State) error {
	return models.MatchState(s,
		func(models.Loading) error {
			return errors.New("no characters loaded")
		},
		func(v models.Success) error {
			ui.PrintCharacterTable(w, title, v.Page.Results)
			if v.FromCache {
				ui.PrintNotice(w, "Showing cached characters")
			}
			if v.Notice != "" {
				ui.PrintNotice(w, v.Notice)
			}
			if v.HasMore {
				ui.PrintNotice(w, "More pages available")
			}
			return nil
		},
		func(v models.Error) error {
			if v.Last != nil {
				ui.PrintCharacterTable(w, title, v.Last.Results)
				ui.PrintNotice(w, "Showing the last results")
			}
			return fmt.Errorf("%s error: %s", v.Kind, v.Message)
		},
	)
}

// latest returns the current catalog state, Loading when nothing was published
func latest(vm *catalog.ViewModel) models.State {
	s, ok := vm.State().Latest()
	if !ok || s == nil {
		return models.Loading{}
	}
	return s
}
