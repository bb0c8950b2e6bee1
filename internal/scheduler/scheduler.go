package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler fires the daily habit reminder.
type Scheduler struct {
	cron       *cron.Cron
	ctx        context.Context
	cancel     context.CancelFunc
	remindFunc func(ctx context.Context) error
}

func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetRemindFunction sets the callback that nudges users about habits
// still incomplete today.
func (s *Scheduler) SetRemindFunction(f func(ctx context.Context) error) {
	s.remindFunc = f
}

// Start registers the reminder job with the given cron spec (UTC).
func (s *Scheduler) Start(spec string) error {
	if s.remindFunc == nil {
		log.Println("reminder function not set, scheduler will not run")
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() {
		log.Printf("triggered daily habit reminder (%s UTC)", spec)
		if err := s.remindFunc(s.ctx); err != nil {
			log.Printf("daily reminder failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("register reminder job: %w", err)
	}
	s.cron.Start()
	log.Printf("scheduler started, reminder cron %q (UTC)", spec)
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Println("scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
