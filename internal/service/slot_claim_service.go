package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-booking-service/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrSlotTaken is returned when another appointment already holds the slot
var ErrSlotTaken = errors.New("time slot is already booked")

// releaseClaimScript deletes a claim only while it is still held by ARGV[1].
var releaseClaimScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

const (
	RedisSlotClaimKeyPrefix = "slot:claim:"

	// Batch size for startup sync; one pipeline is executed per batch
	syncBatchSize = 500
)

// SlotClaimService holds exclusive doctor/time claims in Redis for strict booking.
// The value of a claim key is the id of the appointment holding it.
type SlotClaimService struct {
	redisClient     *redis.Client
	appointmentRepo repository.AppointmentRepository
	log             *logrus.Logger
	now             func() time.Time
}

func NewSlotClaimService(redisClient *redis.Client, appointmentRepo repository.AppointmentRepository, log *logrus.Logger) *SlotClaimService {
	return &SlotClaimService{
		redisClient:     redisClient,
		appointmentRepo: appointmentRepo,
		log:             log,
		now:             time.Now,
	}
}

// Claim atomically takes slotKey for holder. It returns ErrSlotTaken if the key exists.
func (s *SlotClaimService) Claim(ctx context.Context, slotKey, holder string, at time.Time) error {
	ok, err := s.redisClient.SetNX(ctx, RedisSlotClaimKeyPrefix+slotKey, holder, s.calculateTTL(at)).Result()
	if err != nil {
		s.log.Warnf("Failed to claim slot %s: %+v", slotKey, err)
		return fmt.Errorf("claim slot %s: %w", slotKey, err)
	}
	if !ok {
		return ErrSlotTaken
	}

	s.log.Debugf("Claimed slot %s for %s", slotKey, holder)
	return nil
}

// Release frees slotKey if holder still owns it.
func (s *SlotClaimService) Release(ctx context.Context, slotKey, holder string) error {
	if _, err := releaseClaimScript.Run(ctx, s.redisClient, []string{RedisSlotClaimKeyPrefix + slotKey}, holder).Int(); err != nil {
		s.log.Warnf("Failed to release slot %s: %+v", slotKey, err)
		return fmt.Errorf("release slot %s: %w", slotKey, err)
	}

	s.log.Debugf("Released slot %s held by %s", slotKey, holder)
	return nil
}

// SyncOnStartup rebuilds claim keys from appointments that still hold a slot.
// Should be called before accepting traffic.
func (s *SlotClaimService) SyncOnStartup(ctx context.Context) error {
	s.log.Info("Starting slot claim re-sync from database...")
	startTime := s.now()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		s.log.Warnf("Redis is not available, skipping sync: %+v", err)
		return fmt.Errorf("redis ping failed: %w", err)
	}

	from := startTime.UTC().Truncate(24 * time.Hour)
	offset := 0
	totalSynced := 0

	for {
		appointments, err := s.appointmentRepo.FindClaimed(ctx, from, syncBatchSize, offset)
		if err != nil {
			s.log.Errorf("Failed to query claimed appointments at offset %d: %+v", offset, err)
			return fmt.Errorf("query claimed appointments at offset %d: %w", offset, err)
		}

		if len(appointments) == 0 {
			break
		}

		pipe := s.redisClient.TxPipeline()
		for _, a := range appointments {
			pipe.Set(ctx, RedisSlotClaimKeyPrefix+a.SlotKey, a.ID.Hex(), s.calculateTTL(a.AppointmentDate))
		}

		if _, err := pipe.Exec(ctx); err != nil {
			s.log.Errorf("Failed to execute pipeline for batch at offset %d: %+v", offset, err)
			return fmt.Errorf("pipeline exec at offset %d: %w", offset, err)
		}

		totalSynced += len(appointments)

		if len(appointments) < syncBatchSize {
			break
		}
		offset += syncBatchSize

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	s.log.Infof("Slot claim re-sync completed: %d claims synced in %v", totalSynced, time.Since(startTime))
	return nil
}

// calculateTTL keeps a claim until a day after the appointment
func (s *SlotClaimService) calculateTTL(at time.Time) time.Duration {
	ttl := at.AddDate(0, 0, 1).Sub(s.now())
	if ttl <= 0 {
		return time.Minute
	}
	return ttl
}
