package main

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/usman-fahimullah/canopy-syndication/config"
	"github.com/usman-fahimullah/canopy-syndication/internal/api"
	"github.com/usman-fahimullah/canopy-syndication/internal/api/handler"
	"github.com/usman-fahimullah/canopy-syndication/internal/model"
	"github.com/usman-fahimullah/canopy-syndication/internal/platform"
	"github.com/usman-fahimullah/canopy-syndication/internal/repository"
	"github.com/usman-fahimullah/canopy-syndication/internal/service"
	"github.com/usman-fahimullah/canopy-syndication/pkg/database"
	"github.com/usman-fahimullah/canopy-syndication/pkg/lock"
	"github.com/usman-fahimullah/canopy-syndication/pkg/logger"
	"github.com/usman-fahimullah/canopy-syndication/pkg/tracing"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// @title Canopy Syndication API
// @version 1.0
// @description 职位第三方招聘平台同步服务
func main() {
	cfg := must(config.Load())
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	if cfg.Tracing.Enabled {
		shutdown := must(tracing.Init(context.Background(), cfg.Tracing))
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
	}

	db := must(database.InitDB(cfg))
	if err := database.Migrate(db); err != nil {
		panic(err)
	}

	// 可选 redis：多实例部署时互斥跑批
	var lease *lock.Lease
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		lease = lock.New(rdb, cfg.Processor.LockKey, cfg.Processor.LockTTL)
	}

	// repositories & adapters
	syndRepo := repository.NewSyndicationRepository(db)
	jobRepo := repository.NewJobRepository(db)
	creds := platform.NewCredentialStore(db, map[model.Platform]string{
		model.PlatformIndeed:   cfg.Platforms.Indeed.AccessToken,
		model.PlatformLinkedIn: cfg.Platforms.LinkedIn.AccessToken,
	})

	registry := platform.NewRegistry()
	registry.Register(model.PlatformIndeed, platform.NewIndeedAdapter(creds, cfg.Platforms.Indeed.BaseURL, cfg.Platforms.Indeed.RatePerSec))
	registry.Register(model.PlatformLinkedIn, platform.NewLinkedInAdapter(creds, cfg.Platforms.LinkedIn.BaseURL, cfg.Platforms.LinkedIn.RatePerSec))
	// ziprecruiter 预留：枚举存在但未注册适配器

	svc := service.NewSyndicationService(syndRepo)
	processor := service.NewProcessor(syndRepo, jobRepo, registry, lease, cfg.PublicBaseURL)

	// 定时触发批处理（cron 为空则只靠 HTTP 触发）
	if spec := cfg.Processor.Cron; spec != "" {
		c := cron.New()
		must(c.AddFunc(spec, func() {
			if _, err := processor.ProcessPending(context.Background(), cfg.Processor.BatchSize); err != nil {
				logger.Error("scheduled syndication run failed", zap.Error(err))
			}
		}))
		c.Start()
		defer c.Stop()
	}

	r := api.NewRouter(cfg, handler.New(svc, processor))
	logger.Info("server starting", zap.Int("port", cfg.Server.Port))
	if err := r.Run(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		panic(err)
	}
}
