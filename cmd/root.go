package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-AppointmentService/internal/app"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

const defaultConfigPath = "config.toml"

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "appointments",
		Short:        "SMC-AppointmentService: слоты, бронирование, напоминания и дайджест",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", defaultConfigPath, "путь к TOML конфигурации")

	cmd.AddCommand(
		newServeCmd(opts),
		newRemindCmd(opts),
		newDigestCmd(opts),
		newMigrateCmd(opts),
	)

	return cmd
}

// loadConfig загружает конфигурацию и создает логгер
func (o *rootOptions) loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log.Info("Configuration loaded from %s", o.configPath)
	return cfg, log, nil
}

// bootstrap собирает приложение; вызывающий обязан выполнить cleanup
func (o *rootOptions) bootstrap(ctx context.Context) (*app.App, func(), error) {
	cfg, log, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		_ = log.Close()
		return nil, nil, err
	}

	cleanup := func() {
		a.Close()
		_ = log.Close()
	}
	return a, cleanup, nil
}

// parseNow разбирает флаг --now, пустое значение - текущее время
func parseNow(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	now, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q, expected RFC3339: %w", raw, err)
	}
	return now, nil
}
