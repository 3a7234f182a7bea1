package service

import (
	"context"
	"io"
	"testing"
	"time"

	"clinic-booking-service/internal/domain/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type claimedRepo struct {
	claimed []entity.Appointment
	calls   int
}

func (r *claimedRepo) Create(context.Context, *entity.Appointment) error { return nil }

func (r *claimedRepo) FindByID(context.Context, primitive.ObjectID) (*entity.Appointment, error) {
	return nil, nil
}

func (r *claimedRepo) FindAll(context.Context, entity.AppointmentFilter, int, int) ([]entity.Appointment, int64, error) {
	return nil, 0, nil
}

func (r *claimedRepo) UpdateStatus(context.Context, primitive.ObjectID, entity.AppointmentStatus, bool) error {
	return nil
}

func (r *claimedRepo) FindClaimed(_ context.Context, _ time.Time, limit, offset int) ([]entity.Appointment, error) {
	r.calls++
	if offset >= len(r.claimed) {
		return nil, nil
	}
	end := offset + limit
	if end > len(r.claimed) {
		end = len(r.claimed)
	}
	return r.claimed[offset:end], nil
}

func (r *claimedRepo) EnsureIndexes(context.Context) error { return nil }

func newTestSlotClaimService(t *testing.T, repo *claimedRepo) (*SlotClaimService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewSlotClaimService(client, repo, log), mr
}

func TestSlotClaimService_SecondClaimFails(t *testing.T) {
	svc, mr := newTestSlotClaimService(t, &claimedRepo{})
	ctx := context.Background()
	at := time.Now().Add(48 * time.Hour)

	require.NoError(t, svc.Claim(ctx, "doc:slot", "appt-1", at))
	assert.ErrorIs(t, svc.Claim(ctx, "doc:slot", "appt-2", at), ErrSlotTaken)

	got, err := mr.Get(RedisSlotClaimKeyPrefix + "doc:slot")
	require.NoError(t, err)
	assert.Equal(t, "appt-1", got)
	assert.Greater(t, mr.TTL(RedisSlotClaimKeyPrefix+"doc:slot"), 48*time.Hour)
}

func TestSlotClaimService_ReleaseOnlyByHolder(t *testing.T) {
	svc, mr := newTestSlotClaimService(t, &claimedRepo{})
	ctx := context.Background()
	at := time.Now().Add(time.Hour)

	require.NoError(t, svc.Claim(ctx, "doc:slot", "appt-1", at))

	require.NoError(t, svc.Release(ctx, "doc:slot", "appt-2"))
	assert.True(t, mr.Exists(RedisSlotClaimKeyPrefix+"doc:slot"))

	require.NoError(t, svc.Release(ctx, "doc:slot", "appt-1"))
	assert.False(t, mr.Exists(RedisSlotClaimKeyPrefix+"doc:slot"))

	require.NoError(t, svc.Claim(ctx, "doc:slot", "appt-3", at))
}

func TestSlotClaimService_SyncOnStartupBatches(t *testing.T) {
	repo := &claimedRepo{}
	at := time.Now().Add(24 * time.Hour)
	for i := 0; i < syncBatchSize+3; i++ {
		id := primitive.NewObjectID()
		repo.claimed = append(repo.claimed, entity.Appointment{
			ID:              id,
			SlotKey:         entity.SlotKey(id, at),
			AppointmentDate: at,
		})
	}

	svc, mr := newTestSlotClaimService(t, repo)
	require.NoError(t, svc.SyncOnStartup(context.Background()))

	assert.Equal(t, 2, repo.calls)
	assert.Len(t, mr.Keys(), syncBatchSize+3)

	first := repo.claimed[0]
	got, err := mr.Get(RedisSlotClaimKeyPrefix + first.SlotKey)
	require.NoError(t, err)
	assert.Equal(t, first.ID.Hex(), got)
}

func TestSlotClaimService_CalculateTTL(t *testing.T) {
	svc, _ := newTestSlotClaimService(t, &claimedRepo{})
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	assert.Equal(t, 25*time.Hour, svc.calculateTTL(now.Add(time.Hour)))
	assert.Equal(t, time.Minute, svc.calculateTTL(now.AddDate(0, 0, -2)))
}
