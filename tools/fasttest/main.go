// FastTest runs one sync job end to end without the queue: it wires the
// engine against the configured services and feeds it a hand-built job.
// Useful for exercising a reconcile or publish against a dev environment.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	lmstfyclient "github.com/bitleak/lmstfy/client"

	"github.com/SKR-SG/ASP/internal/ati"
	"github.com/SKR-SG/ASP/internal/domains"
	"github.com/SKR-SG/ASP/internal/domains/job"
	"github.com/SKR-SG/ASP/internal/engine"
	"github.com/SKR-SG/ASP/internal/feed"
	infraredis "github.com/SKR-SG/ASP/internal/infra/redis"
	"github.com/SKR-SG/ASP/internal/listing"
	"github.com/SKR-SG/ASP/internal/publish"
	"github.com/SKR-SG/ASP/internal/store"
	"github.com/SKR-SG/ASP/pkg/config"
	"github.com/SKR-SG/ASP/pkg/lmstfy"
	"github.com/SKR-SG/ASP/pkg/logger"
)

var (
	configPath = flag.String("config", "./config/worker.yaml", "config file path")
	action     = flag.String("action", job.ActionPlatformReconcile, "job action: platform_reconcile or cargo_publish")
	platform   = flag.String("platform", "ati", "platform name")
	externalNo = flag.String("external-no", "", "order external number (cargo_publish only)")
)

func main() {
	flag.Parse()

	fmt.Println("========================================")
	fmt.Println("  FastTest - ASP sync harness")
	fmt.Println("========================================")

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail("Failed to load config: %v", err)
	}
	fmt.Printf("Config loaded: %s\n", cfg.App.Name)

	log, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		fail("Failed to create logger: %v", err)
	}
	defer log.Sync()

	eng, cleanup, err := buildEngine(cfg, log)
	if err != nil {
		fail("Failed to build engine: %v", err)
	}
	defer cleanup()

	var j *job.Job
	switch *action {
	case job.ActionPlatformReconcile:
		j = job.NewReconcile(*platform)
	case job.ActionCargoPublish:
		if *externalNo == "" {
			fail("cargo_publish requires -external-no")
		}
		j = job.NewPublish(*platform, *externalNo)
	default:
		fail("unknown action: %s", *action)
	}

	data, err := j.Encode()
	if err != nil {
		fail("Failed to encode job: %v", err)
	}

	proc := domains.GetProcess(log, eng)
	start := time.Now()
	resp := proc(context.Background(), &lmstfyclient.Job{ID: "fasttest", Queue: cfg.Sync.Queue, Data: data})

	fmt.Printf("Done: action=%d, duration=%v\n", resp.Action, time.Since(start))
}

func buildEngine(cfg *config.Config, log logger.Logger) (*engine.Reconciler, func(), error) {
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

	dicts, err := atiClient.Dictionaries(context.Background())
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

	cleanup := func() {
		rdb.Close()
		store.Close(db)
	}
	return eng, cleanup, nil
}

func fail(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
	os.Exit(1)
}
