package cmd

import (
	"context"
	"fmt"

	"github.com/AzielCF/az-autopost/core/config"
	"github.com/AzielCF/az-autopost/core/database"
	domainSession "github.com/AzielCF/az-autopost/domains/session"
	"github.com/AzielCF/az-autopost/infrastructure/history"
	"github.com/AzielCF/az-autopost/infrastructure/media"
	"github.com/AzielCF/az-autopost/infrastructure/publisher"
	"github.com/AzielCF/az-autopost/infrastructure/resultlog"
	"github.com/AzielCF/az-autopost/infrastructure/sessionstore"
	"github.com/AzielCF/az-autopost/infrastructure/valkey"
	"github.com/AzielCF/az-autopost/usecase"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// app is one wired RunContext plus whatever must be closed after the run.
type app struct {
	rc      *usecase.RunContext
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newSessionStore(c *config.Config) (domainSession.ISessionStore, func(), error) {
	if !c.Valkey.Enabled {
		return sessionstore.NewFileStore(c.Paths.SessionFile), func() {}, nil
	}
	client, err := valkey.NewClient(c.Valkey)
	if err != nil {
		return nil, nil, err
	}
	logrus.Infof("[APP] using valkey session store at %s", c.Valkey.Address)
	return sessionstore.NewValkeyStore(client), client.Close, nil
}

func openHistory(ctx context.Context, c config.DatabaseConfig) (*history.GormRepository, *gorm.DB, error) {
	db, err := database.NewDatabase(c)
	if err != nil {
		return nil, nil, err
	}
	repo := history.NewGormRepository(db)
	if err := repo.InitSchema(ctx); err != nil {
		closeDB(db)
		return nil, nil, err
	}
	return repo, db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// buildApp wires the run context from cfg. History failures only disable history.
func buildApp(ctx context.Context, c *config.Config) (*app, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.App.Timezone, err)
	}

	a := &app{rc: &usecase.RunContext{
		Config:    c,
		Clock:     usecase.NewSystemClock(),
		Publisher: publisher.NewHTTPPublisher(c.Publisher),
		Location:  loc,
	}}

	results, err := resultlog.Open(c.Paths.LogFile)
	if err != nil {
		return nil, err
	}
	a.rc.Results = results
	a.closers = append(a.closers, func() { _ = results.Close() })

	store, closeStore, err := newSessionStore(c)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.rc.Sessions = store
	a.closers = append(a.closers, closeStore)

	if c.Media.Prepare {
		a.rc.Media = media.NewPreparer(c.Media)
	}

	if c.Database.HistoryEnabled {
		repo, db, err := openHistory(ctx, c.Database)
		if err != nil {
			logrus.Warnf("[APP] history disabled: %v", err)
		} else {
			a.rc.History = repo
			a.closers = append(a.closers, func() { closeDB(db) })
		}
	}
	return a, nil
}
