// Package bookings persists and manages confirmed appointment bookings.
package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Booking is one persisted appointment slot.
type Booking struct {
	ID              uuid.UUID `json:"id"`
	OrgID           string    `json:"org_id"`
	PatientName     string    `json:"patient_name"`
	PatientPhone    string    `json:"patient_phone"`
	Date            time.Time `json:"date"`
	StartTime       string    `json:"start_time"` // canonical HH:mm
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Booking statuses.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// ErrNotFound is returned when a booking does not exist for the org.
var ErrNotFound = errors.New("bookings: not found")

// DB is the pgx query surface the repository needs. *pgxpool.Pool
// satisfies it; pgxmock stands in for tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository provides Postgres persistence for bookings.
type Repository struct {
	db DB
}

// NewRepository creates a repository backed by a pgx pool (or mock).
func NewRepository(db DB) *Repository {
	if db == nil {
		panic("bookings: db required")
	}
	return &Repository{db: db}
}

// Insert stores a new booking row and fills in its timestamps.
func (r *Repository) Insert(ctx context.Context, b *Booking) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO bookings (id, org_id, patient_name, patient_phone, booking_date, start_time, duration_minutes, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		b.ID, b.OrgID, b.PatientName, b.PatientPhone, b.Date, b.StartTime, b.DurationMinutes, b.Status).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("bookings: insert: %w", err)
	}
	return nil
}

// GetForOrg returns a booking scoped to the org.
func (r *Repository) GetForOrg(ctx context.Context, orgID string, bookingID uuid.UUID) (*Booking, error) {
	var b Booking
	err := r.db.QueryRow(ctx,
		`SELECT id, org_id, patient_name, patient_phone, booking_date, start_time, duration_minutes, status, created_at, updated_at
		 FROM bookings WHERE id = $1 AND org_id = $2`,
		bookingID, orgID).
		Scan(&b.ID, &b.OrgID, &b.PatientName, &b.PatientPhone, &b.Date, &b.StartTime,
			&b.DurationMinutes, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("bookings: load for org: %w", err)
	}
	return &b, nil
}

// ListForOrg returns the org's bookings, soonest slot first.
func (r *Repository) ListForOrg(ctx context.Context, orgID string) ([]Booking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, org_id, patient_name, patient_phone, booking_date, start_time, duration_minutes, status, created_at, updated_at
		 FROM bookings WHERE org_id = $1
		 ORDER BY booking_date, start_time`,
		orgID)
	if err != nil {
		return nil, fmt.Errorf("bookings: list for org: %w", err)
	}
	defer rows.Close()

	var list []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.OrgID, &b.PatientName, &b.PatientPhone, &b.Date, &b.StartTime,
			&b.DurationMinutes, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("bookings: scan row: %w", err)
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bookings: list for org: %w", err)
	}
	return list, nil
}

// MarkCancelled flips a booking to cancelled.
func (r *Repository) MarkCancelled(ctx context.Context, orgID string, bookingID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE bookings SET status = $1, updated_at = now() WHERE id = $2 AND org_id = $3`,
		StatusCancelled, bookingID, orgID)
	if err != nil {
		return fmt.Errorf("bookings: mark cancelled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
