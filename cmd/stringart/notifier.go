package main

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/anandology/stringart.in/internal/notify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var notifierCmd = &cobra.Command{
	Use:   "notifier",
	Short: "Consume order events from Kafka and send confirmation emails",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		if len(cfg.Notify.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required for the notifier")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		mailer := notify.NewMailer(cfg.Notify.EmailFrom, cfg.Payment.BaseURL, log)
		consumer := notify.NewConsumer(cfg.Notify.KafkaBrokers, cfg.Notify.Topic, cfg.Notify.GroupID, mailer, log)
		defer func() {
			if err := consumer.Close(); err != nil {
				log.Warn("error closing kafka reader", zap.Error(err))
			}
		}()

		log.Info("notifier started",
			zap.Strings("brokers", cfg.Notify.KafkaBrokers),
			zap.String("topic", cfg.Notify.Topic))
		consumer.Run(ctx)
		log.Info("notifier stopped")
		return nil
	},
}
