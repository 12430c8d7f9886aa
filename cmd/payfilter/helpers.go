package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/payfilter/internal/common"
	"github.com/Veraticus/payfilter/internal/config"
	"github.com/Veraticus/payfilter/internal/model"
	"github.com/Veraticus/payfilter/internal/savedfilter"
	"github.com/Veraticus/payfilter/internal/service"
	"github.com/Veraticus/payfilter/internal/session"
	"github.com/Veraticus/payfilter/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// app bundles the resources a command needs. Close releases them in
// reverse order of acquisition.
type app struct {
	store    *storage.SQLiteStorage
	filters  *savedfilter.Manager
	location *time.Location
	logger   *slog.Logger
	closers  []func() error
}

// openApp opens storage and the configured saved-filter backend.
func openApp(ctx context.Context) (*app, error) {
	v := viper.GetViper()

	loc, err := config.DisplayLocation(v)
	if err != nil {
		return nil, err
	}
	backend, err := config.FilterBackend(v)
	if err != nil {
		return nil, err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return nil, err
	}

	a := &app{
		store:    store,
		location: loc,
		logger:   common.Component("cli"),
		closers:  []func() error{store.Close},
	}

	filterStore, err := a.filterStore(ctx, backend)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.filters = savedfilter.NewManager(filterStore, savedfilter.WithLogger(common.Component("savedfilter")))

	a.logger.Debug("Opened storage",
		"database", store.Path(),
		"filters_backend", backend,
		"timezone", loc.String())
	return a, nil
}

func (a *app) filterStore(ctx context.Context, backend string) (service.SavedFilterStore, error) {
	switch backend {
	case config.BackendRedis:
		settings := config.LoadRedisSettings(viper.GetViper())
		client := redis.NewClient(&redis.Options{
			Addr:     settings.Addr,
			Password: settings.Password,
			DB:       settings.DB,
		})
		store := savedfilter.NewRedisStore(client, settings.Prefix)
		if err := store.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", settings.Addr, err)
		}
		a.closers = append(a.closers, client.Close)
		return store, nil
	case config.BackendMemory:
		return savedfilter.NewMemoryStore(), nil
	default:
		return a.store, nil
	}
}

// newSession starts a filter session in the display time zone.
func (a *app) newSession(opts ...session.Option) *session.Session {
	return session.New(a.filters, append([]session.Option{session.WithLocation(a.location)}, opts...)...)
}

// loadPayments reads stored payments, narrowed by the date range when it is
// well ordered. The filter itself is applied in memory afterwards.
func (a *app) loadPayments(ctx context.Context, state model.FilterState) ([]model.Payment, error) {
	var query service.PaymentQuery
	r := state.DateRange
	if r.From == nil || r.To == nil || !r.To.Before(*r.From) {
		query.StartDate = r.From
		query.EndDate = r.To
	}

	payments, err := a.store.GetPayments(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	return payments, nil
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.DatabasePath(viper.GetViper())

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}
