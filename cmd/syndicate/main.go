package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/usman-fahimullah/canopy-syndication/config"
	"github.com/usman-fahimullah/canopy-syndication/internal/model"
	"github.com/usman-fahimullah/canopy-syndication/internal/platform"
	"github.com/usman-fahimullah/canopy-syndication/internal/repository"
	"github.com/usman-fahimullah/canopy-syndication/internal/service"
	"github.com/usman-fahimullah/canopy-syndication/pkg/database"
	"github.com/usman-fahimullah/canopy-syndication/pkg/logger"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// 一次性跑批工具：处理一批 pending 任务后退出（运维/调试用）
func main() {
	batchSize := flag.Int("batch", service.DefaultBatchSize, "max records to process")
	flag.Parse()

	cfg := must(config.Load())
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		panic(err)
	}
	defer logger.Sync()

	db := must(database.InitDB(cfg))
	if err := database.Migrate(db); err != nil {
		panic(err)
	}

	creds := platform.NewCredentialStore(db, map[model.Platform]string{
		model.PlatformIndeed:   cfg.Platforms.Indeed.AccessToken,
		model.PlatformLinkedIn: cfg.Platforms.LinkedIn.AccessToken,
	})
	registry := platform.NewRegistry()
	registry.Register(model.PlatformIndeed, platform.NewIndeedAdapter(creds, cfg.Platforms.Indeed.BaseURL, cfg.Platforms.Indeed.RatePerSec))
	registry.Register(model.PlatformLinkedIn, platform.NewLinkedInAdapter(creds, cfg.Platforms.LinkedIn.BaseURL, cfg.Platforms.LinkedIn.RatePerSec))

	processor := service.NewProcessor(
		repository.NewSyndicationRepository(db),
		repository.NewJobRepository(db),
		registry, nil, cfg.PublicBaseURL,
	)

	stats := must(processor.ProcessPending(context.Background(), *batchSize))
	fmt.Printf("processed=%d succeeded=%d failed=%d\n", stats.Processed, stats.Succeeded, stats.Failed)
}
