package job

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	PurgeSchedule    = "@hourly"
	SlotSyncSchedule = "5 0 * * *"

	jobTimeout = 5 * time.Minute
)

// RegistrationPurger removes pending sign-ups whose code expired.
type RegistrationPurger interface {
	PurgeExpiredRegistrations(ctx context.Context) (int64, error)
}

// SlotSyncer rebuilds slot claims from the appointment store.
type SlotSyncer interface {
	SyncOnStartup(ctx context.Context) error
}

type Scheduler struct {
	cron *cron.Cron
	log  *logrus.Logger
}

// NewScheduler registers the hourly purge and, when syncer is non-nil, the nightly slot claim re-sync.
func NewScheduler(log *logrus.Logger, location *time.Location, purger RegistrationPurger, syncer SlotSyncer) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(cron.WithLocation(location)),
		log:  log,
	}

	if _, err := s.cron.AddFunc(PurgeSchedule, func() { s.purge(purger) }); err != nil {
		return nil, err
	}
	if syncer != nil {
		if _, err := s.cron.AddFunc(SlotSyncSchedule, func() { s.syncSlots(syncer) }); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infof("Scheduler started with %d jobs", len(s.cron.Entries()))
}

// Stop prevents new runs and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("Scheduler stop timed out with jobs still running")
	}
}

func (s *Scheduler) purge(purger RegistrationPurger) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := purger.PurgeExpiredRegistrations(ctx); err != nil {
		s.log.Errorf("Expired registration purge failed: %+v", err)
	}
}

func (s *Scheduler) syncSlots(syncer SlotSyncer) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := syncer.SyncOnStartup(ctx); err != nil {
		s.log.Errorf("Slot claim re-sync failed: %+v", err)
	}
}
