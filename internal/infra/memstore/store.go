// Package memstore is an in-memory implementation of the booking and
// resource store ports. It keeps a per-resource, start-sorted interval index
// for overlap queries and serializes writes per resource, so conflicting
// concurrent admissions resolve to exactly one winner while requests against
// different resources never block each other.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"roombook/internal/domain/booking"
	"roombook/internal/infra"

	"github.com/google/uuid"
)

type Store struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]*booking.Booking
	byRes    map[uuid.UUID][]uuid.UUID // booking ids per resource, kept start-sorted

	lockMu   sync.Mutex
	resLocks map[uuid.UUID]*sync.Mutex
}

func New() *Store {
	return &Store{
		bookings: make(map[uuid.UUID]*booking.Booking),
		byRes:    make(map[uuid.UUID][]uuid.UUID),
		resLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// resLock returns the serialization point for one resource's timeline.
func (s *Store) resLock(resourceID uuid.UUID) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l, ok := s.resLocks[resourceID]
	if !ok {
		l = &sync.Mutex{}
		s.resLocks[resourceID] = l
	}
	return l
}

// Insert commits a new booking. The overlap re-check and the write happen
// under the resource lock, making the check-then-commit sequence atomic with
// respect to other admissions on the same resource.
func (s *Store) Insert(_ context.Context, b *booking.Booking) error {
	l := s.resLock(b.ResourceID())
	l.Lock()
	defer l.Unlock()

	if s.hasConflict(b.ResourceID(), b.Slot(), uuid.Nil) {
		return infra.WrapRepoErr("slot already taken", nil, infra.KindConflict)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID()] = b.Clone()
	ids := append(s.byRes[b.ResourceID()], b.ID())
	sort.Slice(ids, func(i, j int) bool {
		return s.bookings[ids[i]].Slot().Start().Before(s.bookings[ids[j]].Slot().Start())
	})
	s.byRes[b.ResourceID()] = ids
	return nil
}

func (s *Store) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return b.Clone(), nil
}

// Update applies mutate to one record atomically under the record's resource
// lock. A mutate error aborts the update and is returned untouched, so
// domain transition failures keep their identity.
func (s *Store) Update(_ context.Context, id uuid.UUID, mutate func(*booking.Booking) error) (*booking.Booking, error) {
	s.mu.RLock()
	current, ok := s.bookings[id]
	s.mu.RUnlock()
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}

	l := s.resLock(current.ResourceID())
	l.Lock()
	defer l.Unlock()

	// re-read under the lock; a concurrent update may have won
	s.mu.RLock()
	current = s.bookings[id]
	s.mu.RUnlock()

	next := current.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.bookings[id] = next
	s.mu.Unlock()
	return next.Clone(), nil
}

func (s *Store) Conflicts(_ context.Context, resourceID uuid.UUID, slot booking.TimeSlot, excludeID uuid.UUID) (bool, error) {
	return s.hasConflict(resourceID, slot, excludeID), nil
}

// hasConflict scans the resource's start-sorted ids. The slice is sorted by
// start, so the scan stops at the first booking starting at or after the
// candidate's end.
func (s *Store) hasConflict(resourceID uuid.UUID, slot booking.TimeSlot, excludeID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.byRes[resourceID] {
		b := s.bookings[id]
		if !b.Slot().Start().Before(slot.End()) {
			break
		}
		if id == excludeID || !b.Status().Blocks() {
			continue
		}
		if b.Slot().Overlaps(slot) {
			return true
		}
	}
	return false
}

func (s *Store) ListActive(_ context.Context, resourceID, ownerID *uuid.UUID) ([]*booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*booking.Booking
	for _, b := range s.bookings {
		if b.Status() == booking.StatusCancelled {
			continue
		}
		if resourceID != nil && b.ResourceID() != *resourceID {
			continue
		}
		if ownerID != nil && b.Owner().ID != *ownerID {
			continue
		}
		out = append(out, b.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Slot().Start().Before(out[j].Slot().Start())
	})
	return out, nil
}

func (s *Store) ListAll(_ context.Context) ([]*booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*booking.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out, nil
}

func (s *Store) DueForCompletion(_ context.Context, now time.Time) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []uuid.UUID
	for id, b := range s.bookings {
		if b.Status() == booking.StatusConfirmed && b.Slot().ElapsedAt(now) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (s *Store) DueForReminder(_ context.Context, from, to time.Time) ([]*booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*booking.Booking
	for _, b := range s.bookings {
		if b.Status() != booking.StatusConfirmed || b.ReminderSent() {
			continue
		}
		start := b.Slot().Start()
		if !start.Before(from) && start.Before(to) {
			out = append(out, b.Clone())
		}
	}
	return out, nil
}
