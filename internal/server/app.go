// Package server assembles the HTTP application.
package server

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/SKR-SG/ASP/internal/ati"
	"github.com/SKR-SG/ASP/internal/engine"
	"github.com/SKR-SG/ASP/internal/feed"
	infraredis "github.com/SKR-SG/ASP/internal/infra/redis"
	"github.com/SKR-SG/ASP/internal/listing"
	"github.com/SKR-SG/ASP/internal/publish"
	"github.com/SKR-SG/ASP/internal/server/handlers/logist"
	"github.com/SKR-SG/ASP/internal/server/handlers/order"
	"github.com/SKR-SG/ASP/internal/server/handlers/platform"
	"github.com/SKR-SG/ASP/internal/server/handlers/rule"
	"github.com/SKR-SG/ASP/internal/server/routers"
	"github.com/SKR-SG/ASP/internal/store"
	"github.com/SKR-SG/ASP/pkg/config"
	"github.com/SKR-SG/ASP/pkg/lmstfy"
	"github.com/SKR-SG/ASP/pkg/logger"
)

// App is the assembled HTTP application.
type App struct {
	Engine *gin.Engine
}

// NewApp wires stores, clients, the engine and the route tree. The
// returned cleanup closes shared connections.
func NewApp(cfg *config.Config, log logger.Logger) (*App, func(), error) {
	ctx := context.Background()

	db, err := store.Open(cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	orders := store.NewOrderStore(db)
	ruleStore := store.NewRuleStore(db)
	platforms := store.NewPlatformStore(db)
	logists := store.NewLogistStore(db)

	atiClient := ati.NewClient(cfg.Ati.BaseURL, cfg.Ati.Token, cfg.Ati.BoardID, log)
	feedClient := feed.NewClient(cfg.Feed.BaseURL, cfg.Feed.Token, log)

	dicts, err := atiClient.Dictionaries(ctx)
	if err != nil {
		store.Close(db)
		return nil, nil, fmt.Errorf("fetch dictionaries: %w", err)
	}

	contacts := ati.NewContactDirectory(atiClient, logists, log)
	builder := listing.NewTransformer(atiClient, contacts, ruleStore, dicts, atiClient.BoardID())

	lmstfyClient, err := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)
	if err != nil {
		store.Close(db)
		return nil, nil, fmt.Errorf("create lmstfy client: %w", err)
	}
	scheduler := publish.NewScheduler(lmstfyClient, cfg.Sync.Queue, cfg.Sync.PublishJobTTL, log)

	rdb, err := infraredis.Dial(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		store.Close(db)
		return nil, nil, err
	}
	notifier := infraredis.NewNotifier(rdb, cfg.Sync.NotifyChannel)

	eng := engine.NewReconciler(orders, ruleStore, platforms, feedClient, atiClient, builder, scheduler, notifier, log)
	scheduler.SetAction(eng.PublishOrder)

	r := routers.SetupRoutes(
		order.NewHandler(orders, eng, log),
		rule.NewHandler(ruleStore, log),
		platform.NewHandler(platforms, log),
		logist.NewHandler(logists, contacts, log),
		log,
	)

	cleanup := func() {
		rdb.Close()
		store.Close(db)
	}

	return &App{Engine: r}, cleanup, nil
}
