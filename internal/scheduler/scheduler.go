// Package scheduler runs the periodic maintenance jobs: finishing event
// instances that already took place and expiring checkout sessions that were
// never paid.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/robfig/cron/v3"
)

type instanciaFinalizer interface {
	FinalizePastInstancias(ctx context.Context, before time.Time) (int64, error)
}

type paymentExpirer interface {
	ExpirePending(ctx context.Context, createdBefore time.Time) ([]domain.Payment, error)
}

type Config struct {
	// FinalizeSpec and ExpireSpec are standard five field cron expressions.
	FinalizeSpec string
	ExpireSpec   string
	// PaymentTTL is how long a pending payment may wait for its webhook.
	PaymentTTL time.Duration
	Location   *time.Location
}

type Scheduler struct {
	cron       *cron.Cron
	eventos    instanciaFinalizer
	payments   paymentExpirer
	paymentTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

func New(eventos instanciaFinalizer, payments paymentExpirer, cfg Config, logger *slog.Logger) (*Scheduler, error) {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	s := &Scheduler{
		cron:       cron.New(cron.WithLocation(loc)),
		eventos:    eventos,
		payments:   payments,
		paymentTTL: cfg.PaymentTTL,
		logger:     logger,
		now:        time.Now,
	}

	if _, err := s.cron.AddFunc(cfg.FinalizeSpec, s.job("finalize_instancias", s.FinalizeInstancias)); err != nil {
		return nil, fmt.Errorf("invalid finalize schedule %q: %w", cfg.FinalizeSpec, err)
	}

	if _, err := s.cron.AddFunc(cfg.ExpireSpec, s.job("expire_payments", s.ExpirePayments)); err != nil {
		return nil, fmt.Errorf("invalid expire schedule %q: %w", cfg.ExpireSpec, err)
	}

	return s, nil
}

// Start runs the jobs until ctx is cancelled and waits for running jobs to
// finish before returning.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	s.cron.Start()

	<-ctx.Done()

	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) FinalizeInstancias(ctx context.Context) error {
	n, err := s.eventos.FinalizePastInstancias(ctx, s.now())
	if err != nil {
		return err
	}

	if n > 0 {
		s.logger.Info("instancias finalized", "count", n)
	}

	return nil
}

func (s *Scheduler) ExpirePayments(ctx context.Context) error {
	expired, err := s.payments.ExpirePending(ctx, s.now().Add(-s.paymentTTL))
	if err != nil {
		return err
	}

	for _, p := range expired {
		s.logger.Info("payment expired",
			"payment_id", p.ID,
			"recorrido_id", p.RecorridoID,
			"user_id", p.UserID,
		)
	}

	return nil
}

func (s *Scheduler) job(name string, fn func(ctx context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := fn(ctx); err != nil {
			s.logger.Error("scheduled job failed", "job", name, "error", err)
		}
	}
}
