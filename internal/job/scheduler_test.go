package job

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPurger struct {
	calls int
	err   error
}

func (p *countingPurger) PurgeExpiredRegistrations(context.Context) (int64, error) {
	p.calls++
	return 0, p.err
}

type countingSyncer struct{ calls int }

func (s *countingSyncer) SyncOnStartup(context.Context) error {
	s.calls++
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestNewScheduler_RegistersJobs(t *testing.T) {
	s, err := NewScheduler(quietLogger(), time.UTC, &countingPurger{}, nil)
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 1)

	s, err = NewScheduler(quietLogger(), time.UTC, &countingPurger{}, &countingSyncer{})
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 2)
}

func TestScheduler_NextRunsFollowLocation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	s, err := NewScheduler(quietLogger(), loc, &countingPurger{}, &countingSyncer{})
	require.NoError(t, err)

	schedule, err := cron.ParseStandard(SlotSyncSchedule)
	require.NoError(t, err)
	next := schedule.Next(time.Date(2030, 6, 1, 12, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2030, 6, 2, 0, 5, 0, 0, loc), next)
	assert.Equal(t, loc, s.cron.Location())
}

func TestScheduler_JobFailuresAreLogged(t *testing.T) {
	log, hook := test.NewNullLogger()
	purger := &countingPurger{err: errors.New("mongo down")}
	syncer := &countingSyncer{}

	s, err := NewScheduler(log, time.UTC, purger, syncer)
	require.NoError(t, err)

	s.purge(purger)
	s.syncSlots(syncer)

	assert.Equal(t, 1, purger.calls)
	assert.Equal(t, 1, syncer.calls)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := NewScheduler(quietLogger(), time.UTC, &countingPurger{}, nil)
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
