package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/anurags10/medibook/pkg/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the bookings table. Migrate applies it.
const Schema = `
CREATE TABLE IF NOT EXISTS bookings (
	id                  TEXT PRIMARY KEY,
	appointment_type    TEXT NOT NULL,
	date                TEXT NOT NULL,
	start_time          TEXT NOT NULL,
	end_time            TEXT NOT NULL,
	patient_name        TEXT NOT NULL,
	patient_email       TEXT NOT NULL,
	patient_phone       TEXT NOT NULL,
	reason              TEXT NOT NULL DEFAULT '',
	status              TEXT NOT NULL,
	confirmation_code   TEXT NOT NULL DEFAULT '',
	previous_booking_id TEXT NOT NULL DEFAULT '',
	cancel_reason       TEXT NOT NULL DEFAULT '',
	created_at          TIMESTAMPTZ NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS bookings_date_idx ON bookings (date, start_time);
`

const columns = `id, appointment_type, date, start_time, end_time,
	patient_name, patient_email, patient_phone, reason, status,
	confirmation_code, previous_booking_id, cancel_reason, created_at, updated_at`

// Store implements ports.BookingStore on PostgreSQL.
type Store struct {
	DB *pgxpool.Pool
}

// New connects to dsn.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	return &Store{DB: pool}, nil
}

// Migrate creates the schema if missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.DB.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Save upserts the booking.
func (s *Store) Save(ctx context.Context, b *domain.Booking) error {
	q := `INSERT INTO bookings (` + columns + `)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	      ON CONFLICT (id) DO UPDATE SET
	          appointment_type=EXCLUDED.appointment_type, date=EXCLUDED.date,
	          start_time=EXCLUDED.start_time, end_time=EXCLUDED.end_time,
	          patient_name=EXCLUDED.patient_name, patient_email=EXCLUDED.patient_email,
	          patient_phone=EXCLUDED.patient_phone, reason=EXCLUDED.reason,
	          status=EXCLUDED.status, confirmation_code=EXCLUDED.confirmation_code,
	          previous_booking_id=EXCLUDED.previous_booking_id,
	          cancel_reason=EXCLUDED.cancel_reason, updated_at=EXCLUDED.updated_at`

	_, err := s.DB.Exec(ctx, q,
		b.ID, string(b.AppointmentType), b.Date, b.StartTime, b.EndTime,
		b.Patient.Name, b.Patient.Email, b.Patient.Phone, b.Reason, b.Status,
		b.ConfirmationCode, b.PreviousBookingID, b.CancelReason, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save booking %s: %w", b.ID, err)
	}
	return nil
}

// Get loads a booking by id.
func (s *Store) Get(ctx context.Context, id string) (*domain.Booking, error) {
	q := `SELECT ` + columns + ` FROM bookings WHERE id=$1`
	b, err := scanBooking(s.DB.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking %s: %w", id, err)
	}
	return b, nil
}

// ListByDate returns the bookings of date ordered by start time.
func (s *Store) ListByDate(ctx context.Context, date string) ([]domain.Booking, error) {
	q := `SELECT ` + columns + ` FROM bookings WHERE date=$1 ORDER BY start_time, id`
	rows, err := s.DB.Query(ctx, q, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// Close releases the pool.
func (s *Store) Close() {
	s.DB.Close()
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	var typ string
	err := row.Scan(&b.ID, &typ, &b.Date, &b.StartTime, &b.EndTime,
		&b.Patient.Name, &b.Patient.Email, &b.Patient.Phone, &b.Reason, &b.Status,
		&b.ConfirmationCode, &b.PreviousBookingID, &b.CancelReason, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.AppointmentType = domain.AppointmentTypeKey(typ)
	return &b, nil
}
