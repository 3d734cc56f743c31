// Command api serves the DevEvent HTTP API.
//
// @title DevEvent API
// @version 1.0
// @description Event listings with image upload and bookings.
// @BasePath /
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "devevent/docs"

	"devevent/config"
	"devevent/internal/adapters/email"
	"devevent/internal/adapters/media"
	deliveryhttp "devevent/internal/delivery/http"
	"devevent/internal/delivery/http/controllers"
	"devevent/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			logger.Error("close store", "driver", cfg.StoreDriver, "err", err)
		}
	}()

	uploader, err := media.NewUploader(media.Config{
		Provider: cfg.Media.Provider,
		MaxBytes: cfg.MaxUploadBytes,
		S3: media.S3Config{
			Bucket:          cfg.Media.Bucket,
			Region:          cfg.Media.Region,
			AccessKeyID:     cfg.Media.AccessKeyID,
			SecretAccessKey: cfg.Media.SecretAccessKey,
			Endpoint:        cfg.Media.Endpoint,
			PublicBaseURL:   cfg.Media.PublicBaseURL,
		},
	}, logger)
	if err != nil {
		return err
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mail.Provider,
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
		SES: email.SESConfig{
			Region:             cfg.Mail.SESRegion,
			AccessKeyID:        cfg.Mail.SESAccessKeyID,
			SecretAccessKey:    cfg.Mail.SESSecretAccessKey,
			Endpoint:           cfg.Mail.SESEndpoint,
			InsecureSkipVerify: cfg.Mail.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return err
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	eventService := services.NewEventService(st.events, st.bookings, uploader, cfg.Media.Folder, cfg.RequestTimeout, logger)
	bookingService := services.NewBookingService(st.bookings, st.events, emailService, cfg.RequestTimeout, logger)

	router := deliveryhttp.NewRouter(
		controllers.NewEventController(logger, eventService, cfg.MaxUploadBytes),
		controllers.NewBookingController(logger, bookingService),
		controllers.NewHealthController(logger, cfg.StoreDriver, st.check),
	)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           deliveryhttp.NewHandler(logger, router, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "env", cfg.Environment)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("caught signal to stop, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
