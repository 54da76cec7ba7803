// Package jobs runs the service's background refresh tasks.
package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fadhlanhapp/congno-backend/models"
)

// BankRefresher reloads the bank directory from upstream
type BankRefresher interface {
	Refresh(ctx context.Context) ([]models.BankInfo, error)
}

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron     *cron.Cron
	banks    BankRefresher
	schedule string
	timeout  time.Duration
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(banks BankRefresher, schedule string) *Scheduler {
	c := cron.New(cron.WithChain(cron.Recover(cron.PrintfLogger(log.Default()))))
	return &Scheduler{
		cron:     c,
		banks:    banks,
		schedule: schedule,
		timeout:  time.Minute,
	}
}

// Start registers the jobs and starts the cron scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.RefreshBankDirectory); err != nil {
		return fmt.Errorf("failed to schedule bank directory refresh %q: %w", s.schedule, err)
	}
	log.Printf("level=info component=jobs msg=\"scheduled bank directory refresh\" schedule=%q", s.schedule)

	s.cron.Start()
	return nil
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RefreshBankDirectory reloads the bank list once
func (s *Scheduler) RefreshBankDirectory() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	banks, err := s.banks.Refresh(ctx)
	if err != nil {
		log.Printf("level=error component=jobs msg=\"bank directory refresh failed\" err=%v", err)
		return
	}
	log.Printf("level=info component=jobs msg=\"bank directory refreshed\" banks=%d", len(banks))
}
