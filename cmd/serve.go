package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-AppointmentService/internal/app"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduler"
)

const poolStatsInterval = 15 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP API и внутрипроцессный планировщик",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, cleanup, err := opts.bootstrap(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return serve(ctx, a)
		},
	}
}

func serve(ctx context.Context, a *app.App) error {
	cfg := a.Config
	log := a.Logger

	log.Info("Starting SMC-AppointmentService...")

	// Задачи регистрируются до старта сервера
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(a.Location, time.Duration(cfg.Scheduler.JobTimeout)*time.Second, log)
		if err := sched.Add("reminders", cfg.Scheduler.RemindersCron, a.Reminders.Execute); err != nil {
			return err
		}
		if err := sched.Add("digest", cfg.Scheduler.DigestCron, digestJob(a)); err != nil {
			return err
		}
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      a.Router(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
		)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown: %v", err)
		}
		return nil
	})

	// Метрики connection pool
	if a.Metrics != nil {
		g.Go(func() error {
			a.DB.CollectPoolStats(gctx, poolStatsInterval)
			return nil
		})
	}

	// Планировщик напоминаний и дайджеста
	if sched != nil {
		g.Go(func() error {
			return sched.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("Server stopped gracefully")
	return nil
}

func digestJob(a *app.App) scheduler.JobFunc {
	return func(ctx context.Context, now time.Time) {
		res := a.Digest.Execute(ctx, now)
		a.Logger.Info("Digest for %s: businesses=%d, sent=%d, skipped=%d, failed=%d",
			res.Day.Format(time.DateOnly), res.Businesses, res.Sent, res.Skipped, res.Failed)
	}
}
