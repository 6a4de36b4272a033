package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"huskerbot-go/logging"
)

// Scheduler drives the weekly pick'em cycle on a cron schedule evaluated in
// the configured timezone.
type Scheduler struct {
	cron   *cron.Cron
	pickem *PickemService
	logger *logging.Logger
}

func NewScheduler(pickem *PickemService, loc *time.Location) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		pickem: pickem,
		logger: logging.WithPrefix("scheduler"),
	}
}

// Start registers the weekly job and begins the cron loop. Each run gets its
// own deadline so a hung upstream call cannot stall the next week's run.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := s.pickem.RunWeekly(ctx); err != nil {
			s.logger.Errorf("Weekly pick'em run failed: %v", err)
			return
		}
		s.logger.Info("Weekly pick'em run completed")
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Infof("Scheduler started with spec %q", spec)
	return nil
}

// Stop halts the cron loop and waits for any in-flight run to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}
