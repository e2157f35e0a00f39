package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vidhub/internal/api/handler"
	"vidhub/internal/api/middleware"
	"vidhub/internal/api/router"
	"vidhub/internal/config"
	"vidhub/internal/event"
	"vidhub/internal/identity"
	"vidhub/internal/infra/database"
	infraES "vidhub/internal/infra/elasticsearch"
	infraKafka "vidhub/internal/infra/kafka"
	infraMinio "vidhub/internal/infra/minio"
	infraRedis "vidhub/internal/infra/redis"
	"vidhub/internal/model"
	"vidhub/internal/repository"
	"vidhub/internal/service"
	"vidhub/pkg/logger"
	"vidhub/pkg/utils"

	_ "vidhub/api/openapi"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title VidHub API
// @version 1.0
// @description 视频分享平台 API 服务
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 输入格式: Bearer {token}

const shutdownTimeout = 10 * time.Second

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

	// 初始化数据库
	if err := database.Init(&cfg.Database, cfg.Log.Level); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	if err := database.AutoMigrate(model.All()...); err != nil {
		logger.Fatal("Failed to auto migrate", zap.Error(err))
	}

	// Redis 只用于令牌注销
	redisClient, err := infraRedis.NewClient(context.Background(), &cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to init redis", zap.Error(err))
	}
	defer redisClient.Close()
	blacklist := infraRedis.NewTokenBlacklist(redisClient)

	if err := infraMinio.Init(&cfg.MinIO); err != nil {
		logger.Fatal("Failed to init minio", zap.Error(err))
	}
	uploader := infraMinio.NewUploader(infraMinio.Get(), &cfg.MinIO)

	// Kafka 未启用时事件直接丢弃
	var publisher event.Publisher = event.NopPublisher{}
	if cfg.Kafka.Enabled {
		producer := infraKafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic("video_events"))
		defer producer.Close()
		publisher = producer
	}

	// Elasticsearch 可选，不可用时搜索降级到 DB
	var videoIndex service.VideoIndex
	if cfg.Elasticsearch.Enabled {
		if err := infraES.Init(&cfg.Elasticsearch); err != nil {
			logger.Warn("Elasticsearch init failed, search will fallback to DB", zap.Error(err))
		} else {
			defer infraES.Close()
			idx := infraES.NewVideoIndex(infraES.Get(), cfg.Elasticsearch.IndexName("videos"))
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := idx.EnsureIndex(ctx); err != nil {
				logger.Warn("Elasticsearch index init failed", zap.Error(err))
			}
			cancel()
			videoIndex = idx
		}
	}

	// 初始化依赖（Repository -> Service -> Handler）
	db := database.Get()
	userRepo := repository.NewUserRepo(db)
	videoRepo := repository.NewVideoRepo(db)
	commentRepo := repository.NewCommentRepo(db)
	engagementRepo := repository.NewEngagementRepo(db)

	eng := cfg.Engagement
	tokens := utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpireDuration(), cfg.App.Name)

	aggregator := service.NewAggregationService(engagementRepo, videoRepo, eng.ComposeConcurrency)
	engagementService := service.NewEngagementService(videoRepo, userRepo, engagementRepo, publisher)
	videoService := service.NewVideoService(videoRepo, aggregator, publisher, uploader)
	commentService := service.NewCommentService(commentRepo, videoRepo, publisher)
	authService := service.NewAuthService(userRepo, tokens, blacklist)
	userService := service.NewUserService(userRepo, videoRepo, engagementRepo, aggregator, eng.RecommendedChannels)
	searchService := service.NewSearchService(videoRepo, videoIndex, aggregator)

	guard := identity.NewGuard(tokens, blacklist, userRepo)
	handler.ConfigurePaging(&eng)

	gin.SetMode(cfg.App.Mode)
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())

	r.GET("/healthz", healthCheckHandler)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.Setup(r, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(userService, engagementService, aggregator),
		Video:   handler.NewVideoHandler(videoService, engagementService, aggregator),
		Comment: handler.NewCommentHandler(commentService),
		Search:  handler.NewSearchHandler(searchService, userService),
	}, guard)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("mode", cfg.App.Mode),
		zap.String("addr", addr),
		zap.Bool("kafka", cfg.Kafka.Enabled),
		zap.Bool("search_index", videoIndex != nil),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}

// healthCheckHandler 健康检查接口
func healthCheckHandler(c *gin.Context) {
	cfg := config.Get()
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   cfg.App.Name,
		"version":   cfg.App.Version,
	})
}
