package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"eventtrader/internal/broker"
	"eventtrader/internal/config"
	cronrunner "eventtrader/internal/cron"
	"eventtrader/internal/db"
	"eventtrader/internal/dispatch"
	"eventtrader/internal/handler"
	"eventtrader/internal/logger"
	"eventtrader/internal/notify"
	"eventtrader/internal/oracle"
	"eventtrader/internal/pipeline"
	gormrepository "eventtrader/internal/repository/gorm"
	"eventtrader/internal/service"
	"eventtrader/internal/source"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("ET_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("ET_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sources := buildSources(cfg.Sources, store, logger)
	if len(sources) == 0 {
		logger.Warn("no sources enabled, cycles will be empty")
	}

	oracleChain := buildOracle(ctx, cfg, logger)

	var notifier notify.Notifier
	if tg, err := notify.NewTelegramNotifier(cfg.Notify); err != nil {
		logger.Warn("telegram disabled, notifications go to the log", zap.Error(err))
		notifier = &notify.LogNotifier{Logger: logger}
	} else {
		notifier = tg
	}

	var orderBroker broker.Broker
	if cfg.Broker.Enabled {
		alpacaBroker, err := broker.NewAlpacaBroker(cfg.Broker, logger)
		if err != nil {
			logger.Warn("broker disabled", zap.Error(err))
		} else {
			orderBroker = alpacaBroker
		}
	}

	pipe := &pipeline.Pipeline{
		Sources: sources,
		Oracle:  oracleChain,
		Store:   store,
		Dispatcher: &dispatch.Dispatcher{
			Broker:   orderBroker,
			Notifier: notifier,
			Logger:   logger,
		},
		Logger:              logger,
		ConfidenceThreshold: cfg.Pipeline.ConfidenceThreshold,
		ClassifyConcurrency: cfg.Pipeline.ClassifyConcurrency,
		Capital:             decimal.NewFromFloat(cfg.Loop.Capital),
		MaxPositionPct:      cfg.Loop.MaxPositionPct,
	}

	trader := &service.TraderService{
		Pipeline: pipe,
		Notifier: notifier,
		Logger:   logger,
		Config:   cfg.Loop,
	}
	go func() {
		if err := trader.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("trader loop stopped", zap.Error(err))
		}
	}()

	cronRunner := cronrunner.New(logger, ctx)
	if _, err := cronRunner.Add("0 0 0 * * *", cronrunner.DailyStatsJob(store, logger)); err != nil {
		logger.Warn("cron register daily stats failed", zap.Error(err))
	}
	retention := cfg.DB.Retention
	if retention <= 0 {
		retention = 90 * 24 * time.Hour
	}
	if _, err := cronRunner.Add("@every 6h", cronrunner.PruneJob(store, retention, logger)); err != nil {
		logger.Warn("cron register prune failed", zap.Error(err))
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	healthHandler := &handler.HealthHandler{DB: dbConn}
	healthHandler.Register(engine)
	eventHandler := &handler.EventHandler{Store: store}
	eventHandler.Register(engine)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func buildSources(cfg config.SourcesConfig, store *gormrepository.Store, logger *zap.Logger) []source.Source {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	var sources []source.Source
	if cfg.Feed.Enabled {
		sources = append(sources, &source.FeedSource{
			Logger: logger,
			Store:  store,
			Config: cfg.Feed,
			HTTP:   httpClient,
		})
	}
	if cfg.Social.Enabled {
		sources = append(sources, &source.SocialSource{
			HTTP:   httpClient,
			Logger: logger,
			Config: cfg.Social,
		})
	}
	if cfg.NewsAPI.Enabled {
		sources = append(sources, &source.NewsAPISource{
			HTTP:   httpClient,
			Logger: logger,
			Config: cfg.NewsAPI,
		})
	}
	if cfg.Finnhub.Enabled {
		sources = append(sources, &source.FinnhubSource{
			HTTP:   httpClient,
			Logger: logger,
			Config: cfg.Finnhub,
		})
	}
	if cfg.Polygon.Enabled {
		sources = append(sources, &source.PolygonSource{
			HTTP:   httpClient,
			Logger: logger,
			Config: cfg.Polygon,
		})
	}
	return sources
}

func buildOracle(ctx context.Context, cfg config.Config, logger *zap.Logger) oracle.Oracle {
	var primary oracle.Oracle
	if apiKey := os.Getenv(cfg.Oracle.Primary.APIKeyEnv); apiKey != "" {
		primary = oracle.NewOpenAIOracle(apiKey, cfg.Oracle.Primary.Model)
	} else {
		logger.Warn("primary oracle disabled, api key missing", zap.String("env", cfg.Oracle.Primary.APIKeyEnv))
	}

	var secondary oracle.Oracle
	if apiKey := os.Getenv(cfg.Oracle.Fallback.APIKeyEnv); apiKey != "" {
		gemini, err := oracle.NewGeminiOracle(ctx, apiKey, cfg.Oracle.Fallback.Model)
		if err != nil {
			logger.Warn("fallback oracle disabled", zap.Error(err))
		} else {
			secondary = gemini
		}
	} else {
		logger.Warn("fallback oracle disabled, api key missing", zap.String("env", cfg.Oracle.Fallback.APIKeyEnv))
	}

	return oracle.NewFallbackChain(primary, secondary, logger,
		cfg.Pipeline.ConfidenceThreshold, cfg.Oracle.Timeout, cfg.Oracle.RequestsPerMin)
}
