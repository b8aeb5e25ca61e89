package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nyumbani-data/internal/config"
	"nyumbani-data/internal/database"
	"nyumbani-data/internal/domain"
	httpapi "nyumbani-data/internal/http"
	"nyumbani-data/internal/logger"
	"nyumbani-data/internal/repository"
	"nyumbani-data/internal/service"
	"nyumbani-data/internal/store"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env 可选：容器环境直接用注入的环境变量
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "nyumbani-data")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Optional Postgres; fall back to the in-memory store when unavailable
	var db *sql.DB
	var dataStore *repository.Store
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			dataStore = repository.NewPostgresStore(db)
			log.Info("DB enabled for nyumbani-data")
		} else {
			log.Warn("DB enabled but connection failed, falling back to memory store", zap.Error(err))
		}
	}
	if dataStore == nil {
		dataStore = repository.NewMemoryBackedStore()
	}

	// Redis 可选：连不上就用 NopKV，未读计数直接回源
	var kv store.KV = store.NopKV{}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err == nil {
		kv = store.NewRedisKV(redisClient)
	} else {
		log.Warn("Redis unavailable, unread counts go straight to the store", zap.Error(err))
	}

	authService := service.NewAuthService(
		dataStore.Users,
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.TTLHours)*time.Hour,
		log,
	)
	notificationService := service.NewNotificationService(dataStore.Notifications, kv, log)
	reportService := service.NewReportService(dataStore.Payments, dataStore.Expenses, log)
	schedulerClient := service.NewSchedulerClient(cfg.Scheduler.BaseURL, cfg.Scheduler.APIKey, log)

	// Dev bootstrap: make sure an admin login exists so approvals can happen.
	if os.Getenv("SEED_ADMIN") != "false" {
		seedAdmin(dataStore.Users, log)
	}

	guard := httpapi.NewGuard(authService, log)
	router := httpapi.NewRouter(log)
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(authService, log))
	router.RegisterPublicRoutes(httpapi.NewPublicHandler(dataStore, log))
	router.RegisterLandlordRoutes(httpapi.NewLandlordHandler(dataStore, reportService, notificationService, log), guard)
	router.RegisterTenantRoutes(httpapi.NewTenantHandler(dataStore, log), guard)
	router.RegisterWorkerRoutes(httpapi.NewWorkerHandler(dataStore, log), guard)
	router.RegisterShopRoutes(httpapi.NewShopHandler(dataStore, log), guard)
	router.RegisterAdminRoutes(httpapi.NewAdminHandler(dataStore, log), guard)
	router.RegisterCommonRoutes(httpapi.NewCommonHandler(schedulerClient, notificationService, log), guard)

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error("server stopped", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	_ = redisClient.Close()
	if db != nil {
		_ = db.Close()
	}
}

// seedAdmin 幂等：admin 已存在就跳过。密码来自环境，缺省值只用于本地。
func seedAdmin(users repository.UsersRepository, log *zap.Logger) {
	ctx := context.Background()
	username := os.Getenv("SEED_ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "ChangeMe123!"
	}

	if _, err := users.GetUserByUsername(ctx, username); err == nil {
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		log.Warn("admin seed lookup failed", zap.Error(err))
		return
	}

	_, err := users.CreateUser(ctx, domain.NewUser{
		Username:     username,
		Email:        username + "@nyumbani.local",
		PasswordHash: service.HashPassword(password),
		Role:         domain.RoleAdmin,
		FullName:     "System Admin",
	})
	if err != nil {
		log.Warn("admin seed failed", zap.Error(err))
		return
	}
	log.Info("admin account seeded", zap.String("username", username))
}
