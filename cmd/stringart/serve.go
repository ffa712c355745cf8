package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/anandology/stringart.in/internal/cache"
	"github.com/anandology/stringart.in/internal/config"
	h "github.com/anandology/stringart.in/internal/http"
	"github.com/anandology/stringart.in/internal/metrics"
	"github.com/anandology/stringart.in/internal/notify"
	"github.com/anandology/stringart.in/internal/payment"
	"github.com/anandology/stringart.in/internal/repository"
	"github.com/anandology/stringart.in/internal/service"
	"github.com/anandology/stringart.in/pkg/circuitbreaker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()
		return serve(cmd.Context(), cfg, log)
	},
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	repo, err := repository.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	defer repo.Close()
	log.Info("order store ready", zap.String("driver", cfg.Store.Driver))

	var orderCache cache.OrderCache = cache.NopCache{}
	if cfg.Cache.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			// The cache is optional; reads fall through to the store.
			log.Warn("redis unreachable", zap.String("addr", cfg.Cache.RedisAddr), zap.Error(err))
		}
		orderCache = cache.NewRedisCache(client, cfg.Cache.TTL)
	}

	sender, closeSender := newSender(cfg, log)
	defer closeSender()

	dispatcher := notify.NewDispatcher(sender, notify.DispatcherConfig{
		Workers:   cfg.Notify.Workers,
		QueueSize: cfg.Notify.QueueSize,
		Timeout:   cfg.Notify.Timeout,
	}, log, m)

	svc := service.NewCheckoutService(
		repo,
		orderCache,
		payment.NewLinkBuilder(cfg.Payment.PayeeID, cfg.Payment.PayeeName),
		dispatcher,
		service.Config{StoreTimeout: cfg.Store.Timeout, Metrics: m},
	)

	router := h.NewRouter(h.RouterConfig{
		Service:            svc,
		Logger:             log,
		Metrics:            m,
		Gatherer:           reg,
		RequestTimeout:     cfg.RequestTimeout,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		log.Warn("pending notifications abandoned", zap.Error(err))
	}

	log.Info("server exited")
	return nil
}

// newSender picks the notification sink. The returned func releases it.
func newSender(cfg *config.Config, log *zap.Logger) (notify.Sender, func()) {
	if cfg.Notify.Sink == config.SinkKafka {
		breaker := circuitbreaker.New(circuitbreaker.Settings{
			Name: "kafka-notify",
			OnStateChange: func(name, from, to string) {
				log.Warn("circuit breaker state changed",
					zap.String("breaker", name), zap.String("from", from), zap.String("to", to))
			},
		})
		publisher := notify.NewKafkaPublisher(cfg.Notify.KafkaBrokers, cfg.Notify.Topic, breaker)
		return publisher, func() {
			if err := publisher.Close(); err != nil {
				log.Warn("error closing kafka writer", zap.Error(err))
			}
		}
	}
	return notify.NewMailer(cfg.Notify.EmailFrom, cfg.Payment.BaseURL, log), func() {}
}
