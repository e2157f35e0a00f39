package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vidhub/internal/config"
	"vidhub/internal/event"
	"vidhub/internal/infra/database"
	infraES "vidhub/internal/infra/elasticsearch"
	infraKafka "vidhub/internal/infra/kafka"
	"vidhub/internal/repository"
	"vidhub/internal/service"
	"vidhub/pkg/logger"

	"go.uber.org/zap"
)

// 索引同步 worker：消费互动事件，用最新计数刷新搜索文档
func main() {
	configPath := "configs/config.yaml"
	if p := os.Getenv("VIDHUB_CONFIG"); p != "" {
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	if !cfg.Kafka.Enabled || !cfg.Elasticsearch.Enabled {
		logger.Fatal("Index worker requires kafka and elasticsearch to be enabled")
	}

	if err := database.Init(&cfg.Database, cfg.Log.Level); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	if err := infraES.Init(&cfg.Elasticsearch); err != nil {
		logger.Fatal("Failed to init elasticsearch", zap.Error(err))
	}
	defer infraES.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	index := infraES.NewVideoIndex(infraES.Get(), cfg.Elasticsearch.IndexName("videos"))
	initCtx, initCancel := context.WithTimeout(ctx, 10*time.Second)
	if err := index.EnsureIndex(initCtx); err != nil {
		initCancel()
		logger.Fatal("Failed to ensure video index", zap.Error(err))
	}
	initCancel()

	db := database.Get()
	videoRepo := repository.NewVideoRepo(db)
	aggregator := service.NewAggregationService(repository.NewEngagementRepo(db), videoRepo, cfg.Engagement.ComposeConcurrency)
	searchService := service.NewSearchService(videoRepo, index, aggregator)

	handle := func(ctx context.Context, e *event.Event) error {
		if err := searchService.HandleEvent(ctx, e); err != nil {
			return fmt.Errorf("sync index for %s: %w", e.Type, err)
		}
		logger.Debug("Event applied to search index",
			zap.String("event_id", e.ID),
			zap.String("type", string(e.Type)),
			zap.Int64("video_id", e.VideoID),
		)
		return nil
	}

	infraKafka.ConsumeEvents(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic("video_events"), cfg.Kafka.GroupID, handle)
	logger.Info("Index worker stopped")
}
