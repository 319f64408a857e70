package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/vignesh3030-hub/cyber-omega/internal/baseline"
	"github.com/vignesh3030-hub/cyber-omega/internal/config"
	"github.com/vignesh3030-hub/cyber-omega/internal/controller"
	"github.com/vignesh3030-hub/cyber-omega/internal/export"
	"github.com/vignesh3030-hub/cyber-omega/internal/server"
	"github.com/vignesh3030-hub/cyber-omega/pkg/narrative"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)

	cfg := config.DefaultControllerConfig()

	policy, err := config.LoadScoringPolicy(cfg.ScoringPolicyPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load scoring policy")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store baseline.Store
	if cfg.BaselinePath != "" {
		fileStore, err := baseline.NewFileStore(cfg.BaselinePath, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to load baselines")
		}
		go func() {
			if err := fileStore.Watch(ctx); err != nil {
				log.WithError(err).Error("Baseline watcher stopped")
			}
		}()
		store = fileStore
	} else {
		log.Warn("BASELINE_PATH not set, starting with an empty baseline store")
		store = baseline.NewMemoryStore()
	}

	ctrl := controller.New(cfg, policy, store, log)
	if cfg.NarrativeEnabled {
		ctrl.WithEnricher(narrative.NewClient(narrative.Config{
			APIEndpoint: cfg.NarrativeEndpoint,
			APIKey:      cfg.NarrativeAPIKey,
			Model:       cfg.NarrativeModel,
			Timeout:     cfg.NarrativeTimeout,
		}, log))
	}
	var sink *export.KafkaSink
	if cfg.KafkaEnabled {
		sink = export.NewKafkaSink(export.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		}, log)
		ctrl.WithSink(sink)
	}
	ctrl.Start(ctx)

	srv := server.New(cfg, ctrl, log)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Controller server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down controller")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	if sink != nil {
		_ = sink.Close()
	}
}
