// Package scheduler owns the periodic reminder scan: an explicitly started,
// cancellable cron job tied to the process lifecycle.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	borrowsvc "github.com/delak101/librarysystem/service/borrow"

	"github.com/robfig/cron/v3"
)

type ReminderScheduler struct {
	reminder borrowsvc.Reminder
	log      *slog.Logger
	spec     string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.Mutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

func NewReminderScheduler(reminder borrowsvc.Reminder, spec string, log *slog.Logger) *ReminderScheduler {
	return &ReminderScheduler{
		reminder: reminder,
		log:      log,
		spec:     spec,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start schedules the scan and begins ticking. Stops itself when ctx is done.
func (s *ReminderScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancelFunc = cancel

	entryID, err := s.cron.AddFunc(s.spec, func() {
		if err := s.reminder.Run(runCtx); err != nil {
			s.log.Error("reminder scan failed", "err", err)
		}
	})
	if err != nil {
		cancel()
		return fmt.Errorf("schedule reminder scan: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true
	s.log.Info("reminder scheduler started", "schedule", s.spec)

	go func() {
		<-runCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts scheduling and waits for an in-flight scan to finish.
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()

	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	s.isRunning = false
	s.log.Info("reminder scheduler stopped")
}
