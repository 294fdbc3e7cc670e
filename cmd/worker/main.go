// Package main is the entry point for the domus background worker.
// It sweeps overdue payments, generates monthly obligations, advances
// building tax dates and prunes expired refresh tokens.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"domus/internal/app"
	"domus/internal/core/config"
	"domus/internal/core/types"
	"domus/internal/domain"
	"domus/internal/infrastructure/storage/postgres"
	"domus/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(logger.WithLogger(context.Background(), log))
	defer cancel()

	log.Info("starting domus worker")

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	services, err := app.Build(pool, cfg)
	if err != nil {
		log.Fatalw("failed to build services", "error", err)
	}

	w := &worker{cfg: cfg, log: log, services: services}

	var wg sync.WaitGroup
	w.run(ctx, &wg, "overdue sweep", cfg.SweepInterval, w.sweepOverdue)
	w.run(ctx, &wg, "payment generation", cfg.GenerateInterval, w.generatePayments)
	w.run(ctx, &wg, "tax date advance", cfg.GenerateInterval, w.advanceTaxDates)
	w.run(ctx, &wg, "token cleanup", 24*time.Hour, w.cleanupTokens)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()
	wg.Wait()
	log.Info("worker stopped")
}

type worker struct {
	cfg      *config.Config
	log      *logger.Logger
	services *app.Services
}

// run executes the task once at startup and then on every tick.
func (w *worker) run(ctx context.Context, wg *sync.WaitGroup, name string, interval time.Duration, task func(context.Context) error) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		runOnce := func() {
			if err := task(ctx); err != nil {
				w.log.Errorw("task failed", "task", name, "error", err)
			}
		}
		runOnce()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()
}

func (w *worker) sweepOverdue(ctx context.Context) error {
	flagged, err := w.services.Payments.OverdueSweep(ctx, time.Now())
	if err != nil {
		return err
	}
	if flagged > 0 {
		w.log.Infow("overdue payments flagged", "count", flagged)
	}
	return nil
}

func (w *worker) generatePayments(ctx context.Context) error {
	now := time.Now()
	month := types.MonthOf(now)
	dueDate := time.Date(now.Year(), now.Month(), w.cfg.PaymentDueDay, 0, 0, 0, 0, time.UTC)

	created, err := w.services.Payments.GeneratePayments(ctx, month, dueDate)
	if err != nil {
		return err
	}
	if created > 0 {
		w.log.Infow("payments generated", "month", month, "count", created)
	}
	return nil
}

func (w *worker) advanceTaxDates(ctx context.Context) error {
	filter := domain.DefaultListFilter()
	filter.Limit = 1000

	result, err := w.services.Buildings.List(ctx, filter)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, b := range result.Items {
		if err := w.services.Buildings.AdvanceTaxDate(ctx, b.ID, now); err != nil {
			w.log.Errorw("advance tax date failed", "building_id", b.ID, "error", err)
		}
	}
	return nil
}

func (w *worker) cleanupTokens(ctx context.Context) error {
	removed, err := w.services.Auth.CleanupExpiredTokens(ctx)
	if err != nil {
		return err
	}
	if removed > 0 {
		w.log.Infow("expired tokens removed", "count", removed)
	}
	return nil
}
