package main

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

// app holds the process-wide resources shared by the commands.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	db     *gorm.DB
	repo   *repo.GormRepo
	events events.Publisher
	index  service.ProductIndex
}

func loadConfig(envFiles []string, full bool) (*config.Config, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}
	if full {
		err = cfg.Validate()
	} else {
		err = cfg.ValidateDB()
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	l := logging.New(cfg.LogLevel)
	slog.SetDefault(l)

	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:    cfg,
		log:    l,
		db:     gdb,
		repo:   repo.New(gdb),
		events: events.New(cfg.KafkaBrokers),
	}

	if cfg.ESURL != "" {
		client, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			a.close()
			return nil, err
		}
		a.index = search.NewIndex(client, cfg.ESIndex)
		l.Info("elasticsearch connected", "url", cfg.ESURL, "index", cfg.ESIndex)
	}
	return a, nil
}

func (a *app) catalog() *service.CatalogService {
	return &service.CatalogService{Repo: a.repo, Index: a.index}
}

func (a *app) close() {
	if err := a.events.Close(); err != nil {
		a.log.Error("kafka close error", "error", err)
	}
	if err := db.Close(a.db); err != nil {
		a.log.Error("db close error", "error", err)
	}
}
