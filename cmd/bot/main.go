package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"smabot/internal/audit"
	"smabot/internal/config"
	"smabot/internal/engine"
	"smabot/internal/exchange"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}

	log := newLogger(cfg)
	runID := generateRunID()

	store, err := audit.NewSQLiteSink(cfg.AuditDBPath)
	if err != nil {
		log.Fatalf("trade event store error: %v", err)
	}
	writer, err := audit.NewNDJSONSink(cfg.TradeLogPath)
	if err != nil {
		log.Fatalf("trade log error: %v", err)
	}
	sink := audit.MultiSink{store, writer}
	defer func() {
		if err := sink.Close(); err != nil {
			log.Errorf("failed to close audit sinks: %v", err)
		}
	}()

	gateway := exchange.NewBinance(cfg.APIKey, cfg.SecretKey, cfg.HTTPTimeout, log)
	bot := engine.New(cfg, gateway, sink, log, runID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalChan
		log.Info("shutdown signal received")
		cancel()
	}()

	if err := bot.Start(ctx); err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	log.WithFields(logrus.Fields{
		"run_id":   runID,
		"symbol":   cfg.Symbol,
		"interval": cfg.CandleInterval,
		"fast":     cfg.FastWindow,
		"slow":     cfg.SlowWindow,
		"every":    cfg.CycleInterval,
	}).Info("starting bot")

	// Cycles are serialized: one runs to completion before the next tick
	// is consumed, so they never overlap.
	bot.RunCycle(ctx)
	ticker := time.NewTicker(cfg.CycleInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("bot shutdown complete")
			return
		case <-ticker.C:
			bot.RunCycle(ctx)
		}
	}
}

func newLogger(cfg config.Config) *logrus.Logger {
	log := logrus.New()
	if cfg.LogJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func generateRunID() string {
	timestamp := time.Now().UTC().Format("20060102T150405")
	return timestamp + "-" + uuid.NewString()[:8]
}
