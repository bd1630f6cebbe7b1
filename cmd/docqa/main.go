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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/config"
	"github.com/kailas-cloud/docqa/internal/db"
	dbLevel "github.com/kailas-cloud/docqa/internal/db/leveldb"
	dbRedis "github.com/kailas-cloud/docqa/internal/db/redis"
	"github.com/kailas-cloud/docqa/internal/domain/topic"
	logpkg "github.com/kailas-cloud/docqa/internal/logger"
	"github.com/kailas-cloud/docqa/internal/metrics"
	budgetrepo "github.com/kailas-cloud/docqa/internal/repository/budget"
	"github.com/kailas-cloud/docqa/internal/repository/contentcache"
	documentrepo "github.com/kailas-cloud/docqa/internal/repository/document"
	chiTransport "github.com/kailas-cloud/docqa/internal/transport/chi"
	openaiChat "github.com/kailas-cloud/docqa/internal/transport/openai"
	chatuc "github.com/kailas-cloud/docqa/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/docqa/internal/usecase/health"
	retrievaluc "github.com/kailas-cloud/docqa/internal/usecase/retrieval"
	usageuc "github.com/kailas-cloud/docqa/internal/usecase/usage"
	"github.com/kailas-cloud/docqa/internal/version"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting docqa API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("knowledge_dir", cfg.Knowledge.Directory),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.Bool("chat_enabled", cfg.Chat.Enabled()),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterRetrievalMetrics()
	metrics.RegisterChatMetrics()

	ctx := context.Background()

	store, err := openStore(cfg.Cache)
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.Error(err))
	}
	if store != nil {
		defer store.Close()
		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to cache store", zap.String("driver", cfg.Cache.Driver))
	}

	catalog, err := loadCatalog(cfg.Knowledge.TopicsFile)
	if err != nil {
		logger.Fatal("Failed to load topic catalog", zap.Error(err))
	}

	loader, cachePinger := buildLoader(cfg, store, logger)
	retrievalSvc := retrievaluc.New(loader, catalog, cfg.Knowledge.Stemming)

	// Single BudgetTracker shared by the chat loop and the usage report.
	var budget *chatuc.BudgetTracker
	budgetCfg := cfg.Chat.Budget
	if budgetCfg.DailyTokenLimit > 0 || budgetCfg.MonthlyTokenLimit > 0 {
		action := chatuc.BudgetActionWarn
		if budgetCfg.Action == "reject" {
			action = chatuc.BudgetActionReject
		}
		budget = chatuc.NewBudgetTracker(
			cfg.Chat.Provider, budgetCfg.DailyTokenLimit, budgetCfg.MonthlyTokenLimit, action, logger,
		)
		if store != nil {
			budget.WithStore(ctx, budgetrepo.New(store, 48*time.Hour, 62*24*time.Hour))
		}
	}

	// Pass nil interfaces (not typed nil pointers) when budget or chat are not configured.
	var budgetChecker chatuc.BudgetChecker
	var budgetReader usageuc.BudgetReader
	if budget != nil {
		budgetChecker = budget
		budgetReader = budget
	}

	var completer chatuc.Completer
	var chatChecker healthuc.ChatChecker
	if cfg.Chat.Enabled() {
		c := openaiChat.NewCompleter(&openaiChat.Config{
			APIKey:   cfg.Chat.APIKey,
			BaseURL:  cfg.Chat.BaseURL,
			Model:    cfg.Chat.Model,
			Provider: cfg.Chat.Provider,
			Logger:   logger,
		})
		completer = c
		chatChecker = c
		logger.Info("Chat provider configured",
			zap.String("provider", cfg.Chat.Provider),
			zap.String("model", cfg.Chat.Model),
		)
	} else {
		logger.Warn("Chat provider not configured; /api/v1/chat/message will return 503")
	}

	chatSvc := chatuc.New(completer, retrievalSvc, budgetChecker, chatuc.Config{
		Provider:      cfg.Chat.Provider,
		Model:         cfg.Chat.Model,
		SystemPrompt:  cfg.Chat.SystemPrompt,
		HistoryLimit:  cfg.Chat.HistoryLimit,
		MaxToolRounds: cfg.Chat.MaxToolRounds,
	})
	usageSvc := usageuc.New(budgetReader)
	healthSvc := healthuc.New(loader, cachePinger, chatChecker)

	server := chiTransport.NewServer(retrievalSvc, chatSvc, loader, usageSvc, healthSvc, logger)
	handler := chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openStore creates the persistent KV store for the configured cache driver.
// It returns nil for none and memory.
func openStore(cfg config.CacheConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.CacheRedis, config.CacheValkey:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("%s store: %w", cfg.Driver, err)
		}
		return s, nil
	case config.CacheLevelDB:
		s, err := dbLevel.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("leveldb store: %w", err)
		}
		return s, nil
	default:
		return nil, nil
	}
}

func loadCatalog(path string) (*topic.Catalog, error) {
	if path == "" {
		return topic.Default(), nil
	}
	c, err := topic.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("topics file: %w", err)
	}
	return c, nil
}

// buildLoader assembles the document loader with its optional content cache.
// The returned pinger is nil when no cache is configured.
func buildLoader(cfg config.Config, store db.Store, logger *zap.Logger) (*documentrepo.Loader, healthuc.CachePinger) {
	registry := documentrepo.NewRegistry(time.Duration(cfg.Knowledge.PDFTimeoutSec) * time.Second)
	opts := []documentrepo.Option{
		documentrepo.WithMetrics(metrics.ExtractionFallbacksTotal, metrics.DocumentsLoaded),
	}

	ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
	var pinger healthuc.CachePinger
	switch {
	case store != nil:
		opts = append(opts, documentrepo.WithCache(contentcache.New(store, ttl, metrics.ContentCacheTotal, logger)))
		pinger = store
	case cfg.Cache.Driver == config.CacheMemory:
		mem := contentcache.NewMemoryStore()
		opts = append(opts, documentrepo.WithCache(contentcache.New(mem, ttl, metrics.ContentCacheTotal, logger)))
		pinger = mem
	}

	loader := documentrepo.New(documentrepo.Config{
		Directory:   cfg.Knowledge.Directory,
		Extensions:  cfg.Knowledge.Extensions,
		MaxFileSize: cfg.Knowledge.MaxFileSizeBytes,
		Concurrency: cfg.Knowledge.Concurrency,
	}, registry, logger, opts...)
	return loader, pinger
}
