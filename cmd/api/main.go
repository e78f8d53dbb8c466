package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lumaensino/notify/internal/config"
	"github.com/lumaensino/notify/internal/database"
	"github.com/lumaensino/notify/internal/logger"
	"github.com/lumaensino/notify/internal/metrics"
	"github.com/lumaensino/notify/internal/queue"
	"github.com/lumaensino/notify/internal/server"
	"github.com/lumaensino/notify/internal/version"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Log().Fatalf("load config: %v", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(filepath.Dir(cfg.DatabasePath), "logs", "api.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	logger.Init(cfg.Environment == "development", io.MultiWriter(os.Stdout, rotator))

	logger.Log().Infof("starting %s api on version %s", version.Name, version.Full())

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.Log().Fatalf("open database: %v", err)
	}

	metrics.Register()

	producer := queue.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	srv, err := server.New(db, cfg, producer)
	if err != nil {
		logger.Log().Fatalf("build server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Log().Infof("listening on :%s", cfg.HTTPPort)
	if err := srv.Run(ctx); err != nil {
		logger.Log().Fatalf("server error: %v", err)
	}
}
