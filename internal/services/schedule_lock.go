package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/swiftride/bus-booking-backend/internal/models"
)

// ScheduleLocker serializes mutating operations per schedule. Different
// schedules proceed independently; two operations on the same schedule take
// turns. Acquisition is bounded: callers that cannot get the lock in time
// fail with the retriable ErrReservationBusy instead of queueing forever.
//
// This is the in-process half of the exclusive section; the row-level
// FOR UPDATE inside the reservation transaction covers deployments with
// more than one server instance.
type ScheduleLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]chan struct{}
}

// NewScheduleLocker creates a new ScheduleLocker
func NewScheduleLocker() *ScheduleLocker {
	return &ScheduleLocker{
		locks: make(map[uuid.UUID]chan struct{}),
	}
}

func (l *ScheduleLocker) sem(scheduleID uuid.UUID) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	sem, ok := l.locks[scheduleID]
	if !ok {
		sem = make(chan struct{}, 1)
		l.locks[scheduleID] = sem
	}
	return sem
}

// Acquire takes the exclusive section for a schedule, waiting at most
// timeout. Returns ErrReservationBusy on timeout and the context error if
// the caller's request is cancelled while waiting.
func (l *ScheduleLocker) Acquire(ctx context.Context, scheduleID uuid.UUID, timeout time.Duration) error {
	sem := l.sem(scheduleID)

	select {
	case sem <- struct{}{}:
		return nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case sem <- struct{}{}:
		return nil
	case <-timer.C:
		return models.ErrReservationBusy
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release leaves the exclusive section. Must only be called after a
// successful Acquire for the same schedule.
func (l *ScheduleLocker) Release(scheduleID uuid.UUID) {
	<-l.sem(scheduleID)
}
