package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/NdeyeSokhna722/loumshoes/internal/cli"
	"github.com/NdeyeSokhna722/loumshoes/internal/config"
	"github.com/NdeyeSokhna722/loumshoes/internal/logging"
	"github.com/NdeyeSokhna722/loumshoes/internal/mail"
	"github.com/NdeyeSokhna722/loumshoes/internal/notify"
	"github.com/NdeyeSokhna722/loumshoes/internal/repository"
	"github.com/NdeyeSokhna722/loumshoes/internal/service"
)

func main() {
	if err := cli.NewRootCommand(open).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}

// open builds a ContactService over the store configured in the environment.
// contactctl never submits, so the notifier only logs.
func open(ctx context.Context) (service.ContactService, func() error, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	// stdout carries command output
	slog.SetDefault(logging.New(os.Stderr, cfg.LogLevel))

	loc, _ := cfg.Location()
	store, err := repository.Open(ctx, repository.OpenOptions{
		Driver:      cfg.Store.Driver,
		Dir:         cfg.Store.Dir,
		DatabaseURL: cfg.Store.DatabaseURL,
		SQLitePath:  cfg.Store.SQLitePath,
	})
	if err != nil {
		return nil, nil, err
	}

	notifier, err := notify.New(mail.NewLogTransport(slog.Default()), notify.Config{
		From:       cfg.Mail.From,
		AdminEmail: cfg.Mail.AdminEmail,
		Location:   loc,
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return service.NewContactService(store, notifier, service.WithLocation(loc)), store.Close, nil
}
