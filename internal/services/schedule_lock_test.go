package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftride/bus-booking-backend/internal/models"
)

func TestScheduleLocker_AcquireRelease(t *testing.T) {
	locker := NewScheduleLocker()
	scheduleID := uuid.New()

	require.NoError(t, locker.Acquire(context.Background(), scheduleID, time.Second))
	locker.Release(scheduleID)
	require.NoError(t, locker.Acquire(context.Background(), scheduleID, time.Second))
	locker.Release(scheduleID)
}

func TestScheduleLocker_TimesOutWhenHeld(t *testing.T) {
	locker := NewScheduleLocker()
	scheduleID := uuid.New()

	require.NoError(t, locker.Acquire(context.Background(), scheduleID, time.Second))
	defer locker.Release(scheduleID)

	err := locker.Acquire(context.Background(), scheduleID, 20*time.Millisecond)
	assert.ErrorIs(t, err, models.ErrReservationBusy)
}

func TestScheduleLocker_IndependentSchedules(t *testing.T) {
	locker := NewScheduleLocker()
	first := uuid.New()
	second := uuid.New()

	require.NoError(t, locker.Acquire(context.Background(), first, time.Second))
	defer locker.Release(first)

	// Holding one schedule's lock must not block another's
	require.NoError(t, locker.Acquire(context.Background(), second, 20*time.Millisecond))
	locker.Release(second)
}

func TestScheduleLocker_ContextCancelled(t *testing.T) {
	locker := NewScheduleLocker()
	scheduleID := uuid.New()

	require.NoError(t, locker.Acquire(context.Background(), scheduleID, time.Second))
	defer locker.Release(scheduleID)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := locker.Acquire(ctx, scheduleID, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScheduleLocker_SerializesWaiters(t *testing.T) {
	locker := NewScheduleLocker()
	scheduleID := uuid.New()

	var mu sync.Mutex
	inSection := 0
	maxInSection := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !assert.NoError(t, locker.Acquire(context.Background(), scheduleID, 5*time.Second)) {
				return
			}
			defer locker.Release(scheduleID)

			mu.Lock()
			inSection++
			if inSection > maxInSection {
				maxInSection = inSection
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inSection--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInSection, "at most one holder at a time")
}
