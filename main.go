package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/api"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/auth"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/config"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/logger"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/redis"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/service/ai"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/service/assistant"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/service/catalog"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/service/tts"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/session"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/storage"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/worker"
)

func main() {
	cfgPath := os.Getenv("COLLEGEVOICE_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := logger.Init(&cfg.BasicConfig); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zap.L().Sync()

	if cfg.BasicConfig.Mode != "" {
		gin.SetMode(cfg.BasicConfig.Mode)
	}

	dbType := os.Getenv("COLLEGEVOICE_DB")
	if dbType == "" {
		dbType = "sqlite3"
	}
	db, err := storage.Open(dbType, cfg)
	if err != nil {
		zap.L().Fatal("open database", zap.String("driver", dbType), zap.Error(err))
	}
	defer db.Close()
	if err := storage.Migrate(db, dbType); err != nil {
		zap.L().Fatal("migrate database", zap.Error(err))
	}

	rdb, err := redis.NewRedisClient(cfg)
	if err != nil {
		zap.L().Fatal("connect redis", zap.Error(err))
	}
	defer rdb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalogService := catalog.NewService(db, rdb)

	sessionOpts := session.Options{
		MaxMessages:   cfg.Session.MaxMessages,
		IdleTimeout:   time.Duration(cfg.Session.IdleTimeoutMinutes) * time.Minute,
		SweepInterval: time.Duration(cfg.Session.SweepIntervalMinutes) * time.Minute,
	}
	sessions := session.NewManager(sessionOpts)
	sessions.StartSweeper(ctx)
	courtSessions := session.NewManager(sessionOpts)
	courtSessions.StartSweeper(ctx)

	generator, err := ai.NewService(ctx, cfg)
	if err != nil {
		zap.L().Fatal("init model providers", zap.Error(err))
	}

	dispatcher := worker.NewDispatcher(
		cfg.BasicConfig.MinWorkers,
		cfg.BasicConfig.MaxWorkers,
		cfg.BasicConfig.QueueSize,
		time.Duration(cfg.BasicConfig.WorkerIdleTimeout)*time.Minute,
	)

	assistantService := assistant.NewService(sessions, courtSessions, catalogService, generator, dispatcher)
	ttsService := tts.NewService(cfg.TTS)

	authService := auth.NewService(rdb, cfg.Auth)
	deptTokens := auth.NewDepartmentTokens(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)

	handler := api.NewHandler(assistantService, ttsService, authService, deptTokens, catalogService, rdb, cfg.BasicConfig.AskRatePerMinute)

	router := gin.New()
	router.Use(logger.GinLogger(), logger.GinRecovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-CSRF-Token"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	handler.RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":8090"
	}
	zap.L().Info("server starting", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zap.L().Fatal("server stopped", zap.Error(err))
	}
}
