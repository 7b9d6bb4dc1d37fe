package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NdeyeSokhna722/loumshoes/internal/config"
	"github.com/NdeyeSokhna722/loumshoes/internal/handler"
	"github.com/NdeyeSokhna722/loumshoes/internal/logging"
	"github.com/NdeyeSokhna722/loumshoes/internal/mail"
	"github.com/NdeyeSokhna722/loumshoes/internal/metrics"
	"github.com/NdeyeSokhna722/loumshoes/internal/notify"
	"github.com/NdeyeSokhna722/loumshoes/internal/repository"
	"github.com/NdeyeSokhna722/loumshoes/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)
	metrics.Init()

	loc, _ := cfg.Location()

	store, err := repository.Open(ctx, repository.OpenOptions{
		Driver:      cfg.Store.Driver,
		Dir:         cfg.Store.Dir,
		DatabaseURL: cfg.Store.DatabaseURL,
		SQLitePath:  cfg.Store.SQLitePath,
	})
	if err != nil {
		logging.Fatal("failed to open message store", "driver", cfg.Store.Driver, "error", err)
	}
	defer store.Close()

	notifier, err := notify.New(newTransport(ctx, cfg.Mail), notify.Config{
		From:       cfg.Mail.From,
		AdminEmail: cfg.Mail.AdminEmail,
		Site: notify.Site{
			Name:           cfg.Site.Name,
			ContactPhone:   cfg.Site.ContactPhone,
			ContactAddress: cfg.Site.ContactAddress,
			WhatsAppNumber: cfg.Site.WhatsAppNumber,
		},
		Location: loc,
	})
	if err != nil {
		logging.Fatal("failed to load mail templates", "error", err)
	}

	contactService := service.NewContactService(store, notifier, service.WithLocation(loc))

	h := handler.New(store, handler.Options{
		AllowedOrigins: cfg.CORSOrigins,
		Production:     cfg.IsProduction(),
		SiteName:       cfg.Site.Name,
	})
	contactHandler := handler.NewContactHandler(contactService, cfg.IsProduction())

	var limiter *handler.RateLimiter
	if cfg.ContactRateLimit > 0 {
		limiter = handler.NewRateLimiter(cfg.ContactRateLimit, cfg.TrustedProxies)
		defer limiter.Close()
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler.Routes(h, contactHandler, limiter, metrics.Handler()),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slog.Info("server listening",
			"addr", server.Addr,
			"env", cfg.Env,
			"store", cfg.Store.Driver,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// newTransport returns an SMTP transport when EMAIL_HOST is set, otherwise one
// that only logs. The SMTP relay is checked once; a failed check is not fatal.
func newTransport(ctx context.Context, cfg config.MailConfig) mail.Transport {
	if cfg.Host == "" {
		slog.Warn("EMAIL_HOST not set, notifications will only be logged")
		return mail.NewLogTransport(slog.Default())
	}
	t := mail.NewSMTPTransport(mail.SMTPConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Secure:   cfg.Secure,
		Username: cfg.User,
		Password: cfg.Password,
	})
	verifyCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := t.Verify(verifyCtx); err != nil {
		slog.Error("SMTP relay check failed", "host", cfg.Host, "port", cfg.Port, "error", err)
	} else {
		slog.Info("SMTP relay ready", "host", cfg.Host, "port", cfg.Port)
	}
	return t
}
