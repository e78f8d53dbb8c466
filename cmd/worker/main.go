package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lumaensino/notify/internal/channels"
	"github.com/lumaensino/notify/internal/config"
	"github.com/lumaensino/notify/internal/database"
	"github.com/lumaensino/notify/internal/dispatch"
	"github.com/lumaensino/notify/internal/logger"
	"github.com/lumaensino/notify/internal/metrics"
	"github.com/lumaensino/notify/internal/queue"
	"github.com/lumaensino/notify/internal/services"
	"github.com/lumaensino/notify/internal/version"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Log().Fatalf("load config: %v", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(filepath.Dir(cfg.DatabasePath), "logs", "worker.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	logger.Init(cfg.Environment == "development", io.MultiWriter(os.Stdout, rotator))

	logger.Log().Infof("starting %s worker on version %s", version.Name, version.Full())

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.Log().Fatalf("open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Log().Fatalf("migrate database: %v", err)
	}

	metrics.Register()
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		logger.Log().Infof("worker metrics on %s", cfg.WorkerMetricsAddr)
		if err := http.ListenAndServe(cfg.WorkerMetricsAddr, mux); err != nil {
			logger.Log().Errorf("metrics server: %v", err)
		}
	}()

	templateService := services.NewTemplateService(db)
	auditService := services.NewAuditService(db, cfg.Actor)

	email := channels.NewSendGrid(cfg.SendGridAPIKey, cfg.SendGridFromName, cfg.SendGridFromAddress)
	whatsapp := channels.NewBotmaker(cfg.BotmakerAPIKey, cfg.BotmakerURL, cfg.BotmakerChannel)

	orchestrator := dispatch.NewOrchestrator(templateService, auditService, email, whatsapp)

	// Daily retention sweep over the audit store.
	sweeper := cron.New()
	if _, err := sweeper.AddFunc("@daily", func() {
		removed, err := auditService.Prune(cfg.LogRetention())
		if err != nil {
			logger.Log().Errorf("audit retention sweep: %v", err)
			return
		}
		logger.WithFields(map[string]interface{}{"removed": removed}).Info("audit retention sweep completed")
	}); err != nil {
		logger.Log().Fatalf("schedule retention sweep: %v", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	consumer := queue.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithFields(map[string]interface{}{
		"topic": cfg.KafkaTopic,
		"group": cfg.KafkaGroupID,
	}).Info("consuming dispatch messages")

	if err := orchestrator.Run(ctx, consumer); err != nil {
		logger.Log().Fatalf("consumer error: %v", err)
	}
}
