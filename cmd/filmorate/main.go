package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filmorate/internal/api"
	"filmorate/internal/config"
	grpcServer "filmorate/internal/grpc"
	"filmorate/internal/migrate"
	"filmorate/internal/service"
	"filmorate/internal/store"
	"filmorate/internal/validation"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// healthInterval период проверки хранилища для gRPC health.
const healthInterval = 5 * time.Second

// redactURL возвращает строку подключения без пароля для логов.
func redactURL(dbURL string) string {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "<invalid url>"
	}
	return u.Redacted()
}

// connectToDB инициализирует пул соединений с базой данных.
func connectToDB(cfg config.DatabaseConfig, logger *slog.Logger) (*sqlx.DB, error) {
	logger.Info("Attempting to connect to Filmorate database", slog.String("dbURL_used", redactURL(cfg.URL)))

	db, err := sqlx.Connect("postgres", cfg.URL)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping PostgreSQL database", slog.String("error", err.Error()))
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	logger.Info("Successfully connected to PostgreSQL database.")
	return db, nil
}

// connectToRedis возвращает клиент Redis или nil, если кэш выключен или недоступен.
func connectToRedis(cfg config.RedisConfig, logger *slog.Logger) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, reference cache disabled", slog.String("addr", cfg.Addr), slog.String("error", err.Error()))
		rdb.Close()
		return nil
	}
	logger.Info("Connected to Redis", slog.String("addr", cfg.Addr))
	return rdb
}

// openStores выбирает бэкенд хранения. Возвращаемая функция освобождает ресурсы.
func openStores(cfg *config.Config, logger *slog.Logger) (*store.Stores, func(), error) {
	if cfg.Storage.Driver == config.DriverMemory {
		logger.Info("Using in-memory storage")
		return store.NewMemoryStores(), func() {}, nil
	}

	if cfg.Database.Migrate {
		if err := migrate.Up(cfg.Database.URL, logger); err != nil {
			return nil, nil, err
		}
	}
	db, err := connectToDB(cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	stores, err := store.NewPostgresStores(db, logger)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	closeDB := func() {
		logger.Info("Closing PostgreSQL database connection...")
		if err := db.Close(); err != nil {
			logger.Error("Failed to close PostgreSQL connection", slog.String("error", err.Error()))
		}
	}
	return stores, closeDB, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	stores, closeStores, err := openStores(cfg, logger)
	if err != nil {
		logger.Error("Filmorate failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStores()

	if rdb := connectToRedis(cfg.Redis, logger); rdb != nil {
		defer rdb.Close()
		stores.Reference = store.NewCachedReferenceStore(stores.Reference, rdb, cfg.Redis.TTL, logger)
	}

	validate := validation.New()
	films := service.NewFilmService(logger, stores, validate)
	handler := api.NewHandler(api.Services{
		Films:     films,
		Users:     service.NewUserService(logger, stores, films, validate),
		Directors: service.NewDirectorService(logger, stores, validate),
		Reviews:   service.NewReviewService(logger, stores, validate),
		Reference: service.NewReferenceService(stores),
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Настройка и запуск gRPC сервера здоровья ---
	health := grpcServer.NewHealthServer(stores.Ping, healthInterval, logger)
	grpcSrv := grpcServer.NewServer(health)
	if cfg.GRPC.Addr != "" {
		lis, err := net.Listen("tcp", cfg.GRPC.Addr)
		if err != nil {
			logger.Error("Failed to listen for gRPC", slog.String("addr", cfg.GRPC.Addr), slog.String("error", err.Error()))
			os.Exit(1)
		}
		go health.Run(ctx)
		go func() {
			logger.Info("Filmorate gRPC server starting", slog.String("addr", cfg.GRPC.Addr))
			if err := grpcSrv.Serve(lis); err != nil {
				logger.Error("gRPC server Serve() failed", slog.String("error", err.Error()))
			}
		}()
	}

	// --- Настройка и запуск HTTP сервера ---
	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      api.NewRouter(handler, api.NewMetrics()),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}
	go func() {
		logger.Info("Filmorate HTTP server starting", slog.String("addr", cfg.HTTP.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server ListenAndServe() failed", slog.String("error", err.Error()))
		}
	}()

	// Ожидание сигнала для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Filmorate shutting down...")

	health.Shutdown()
	cancel()

	ctxHttp, cancelHttp := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancelHttp()
	if err := httpSrv.Shutdown(ctxHttp); err != nil {
		logger.Error("HTTP Server Shutdown Failed", slog.String("error", err.Error()))
	} else {
		logger.Info("HTTP Server gracefully stopped.")
	}

	grpcSrv.GracefulStop()
	logger.Info("gRPC server gracefully stopped.")
}
