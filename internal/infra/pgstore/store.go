// Package pgstore implements the store ports on PostgreSQL with pgx. Overlap
// protection is delegated to the bookings_no_overlap exclusion constraint, so
// the insert itself is the authoritative admission check; lifecycle updates
// are row-locked read-modify-writes.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"roombook/internal/domain/booking"
	"roombook/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeExclusionViolation = "23P01"
	pgErrCodeUniqueViolation    = "23505"
)

type BookingStore struct {
	pool *pgxpool.Pool
}

func NewBookingStore(pool *pgxpool.Pool) *BookingStore {
	return &BookingStore{pool: pool}
}

type attendeeRow struct {
	Name string `json:"name"`
}

func attendeesToJSON(attendees []booking.Attendee) ([]byte, error) {
	rows := make([]attendeeRow, len(attendees))
	for i, a := range attendees {
		rows[i] = attendeeRow{Name: a.Name}
	}
	return json.Marshal(rows)
}

func attendeesFromJSON(data []byte) ([]booking.Attendee, error) {
	var rows []attendeeRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	out := make([]booking.Attendee, len(rows))
	for i, r := range rows {
		out[i] = booking.Attendee{Name: r.Name}
	}
	return out, nil
}

const bookingColumns = `id, resource_id, owner_id, owner_name, owner_email,
	starts_at, ends_at, status, purpose, attendees, reminder_sent, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*booking.Booking, error) {
	var (
		id, resourceID, ownerID uuid.UUID
		ownerName, ownerEmail   string
		startsAt, endsAt        time.Time
		status, purpose         string
		attendeesJSON           []byte
		reminderSent            bool
		createdAt               time.Time
	)
	if err := row.Scan(
		&id, &resourceID, &ownerID, &ownerName, &ownerEmail,
		&startsAt, &endsAt, &status, &purpose, &attendeesJSON,
		&reminderSent, &createdAt,
	); err != nil {
		return nil, err
	}

	slot, err := booking.NewTimeSlot(startsAt, endsAt)
	if err != nil {
		return nil, err
	}
	attendees, err := attendeesFromJSON(attendeesJSON)
	if err != nil {
		return nil, err
	}

	return booking.Reconstruct(
		id, resourceID,
		booking.Owner{ID: ownerID, Name: ownerName, Email: ownerEmail},
		slot,
		booking.Status(status),
		purpose,
		attendees,
		reminderSent,
		createdAt,
	), nil
}

func (s *BookingStore) Insert(ctx context.Context, b *booking.Booking) error {
	attendeesJSON, err := attendeesToJSON(b.Attendees())
	if err != nil {
		return infra.WrapRepoErr("failed to encode attendees", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO bookings (id, resource_id, owner_id, owner_name, owner_email,
			starts_at, ends_at, status, purpose, attendees, reminder_sent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		b.ID(), b.ResourceID(), b.Owner().ID, b.Owner().Name, b.Owner().Email,
		b.Slot().Start(), b.Slot().End(), b.Status().String(), b.Purpose(),
		attendeesJSON, b.ReminderSent(), b.CreatedAt(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgErrCodeExclusionViolation, pgErrCodeUniqueViolation:
				return infra.WrapRepoErr("slot already taken", err, infra.KindConflict)
			}
		}
		return infra.WrapRepoErr("failed to insert booking", err)
	}
	return nil
}

func (s *BookingStore) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)

	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return b, nil
}

// Update locks the row, applies mutate to the rehydrated entity, and writes
// the mutable fields back in the same transaction. A mutate error rolls the
// transaction back and is returned untouched.
func (s *BookingStore) Update(ctx context.Context, id uuid.UUID, mutate func(*booking.Booking) error) (*booking.Booking, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to begin transaction", err, infra.KindUnavailable)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)

	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read booking for update", err)
	}

	if err := mutate(b); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE bookings SET status = $2, reminder_sent = $3 WHERE id = $1`,
		id, b.Status().String(), b.ReminderSent(),
	); err != nil {
		return nil, infra.WrapRepoErr("failed to update booking", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, infra.WrapRepoErr("failed to commit booking update", err)
	}
	return b, nil
}

func (s *BookingStore) Conflicts(ctx context.Context, resourceID uuid.UUID, slot booking.TimeSlot, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE resource_id = $1
			  AND status <> 'cancelled'
			  AND id <> $4
			  AND tstzrange(starts_at, ends_at) && tstzrange($2, $3)
		)`,
		resourceID, slot.Start(), slot.End(), excludeID,
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check conflicts", err)
	}
	return exists, nil
}

func (s *BookingStore) ListActive(ctx context.Context, resourceID, ownerID *uuid.UUID) ([]*booking.Booking, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE status <> 'cancelled'
		  AND ($1::uuid IS NULL OR resource_id = $1)
		  AND ($2::uuid IS NULL OR owner_id = $2)
		ORDER BY starts_at ASC`,
		resourceID, ownerID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active bookings", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (s *BookingStore) ListAll(ctx context.Context) ([]*booking.Booking, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (s *BookingStore) DueForCompletion(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id FROM bookings WHERE status = 'confirmed' AND ends_at <= $1`, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings due for completion", err)
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking id", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bookings", err)
	}
	return out, nil
}

func (s *BookingStore) DueForReminder(ctx context.Context, from, to time.Time) ([]*booking.Booking, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE status = 'confirmed'
		  AND reminder_sent = false
		  AND starts_at >= $1 AND starts_at < $2`,
		from, to,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings due for reminder", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]*booking.Booking, error) {
	var out []*booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bookings", err)
	}
	return out, nil
}
