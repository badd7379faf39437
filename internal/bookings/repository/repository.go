package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stayfinder_backend/internal/bookings/model"
	"stayfinder_backend/platform/apperr"
)

const MsgBookingNotFound = "Booking not found"

// Repository is the booking store.
type Repository interface {
	Create(ctx context.Context, b model.Booking) (model.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.Booking, error)
	ListByGuest(ctx context.Context, guestID uuid.UUID) ([]model.Booking, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Booking, error)
	// Transition moves a booking to status only if its current status is one
	// of from. It reports false when the row exists but was in another state.
	Transition(ctx context.Context, id uuid.UUID, from []model.Status, to model.Status) (model.Booking, bool, error)
}

type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

const selectBooking = `
	SELECT b.id, b.listing_id, l.name, l.created_by, b.guest_id, b.status,
		b.move_in_date, b.room_type, b.message, b.created_at, b.updated_at
	FROM bookings b
	JOIN listings l ON l.id = b.listing_id`

func (r *Repo) Create(ctx context.Context, b model.Booking) (model.Booking, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO bookings (id, listing_id, guest_id, status, move_in_date, room_type, message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		b.ID, b.ListingID, b.GuestID, string(b.Status), b.MoveInDate, b.RoomType, b.Message, b.CreatedAt)
	if err != nil {
		return model.Booking{}, fmt.Errorf("create booking: %w", err)
	}
	return r.GetByID(ctx, b.ID)
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (model.Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, selectBooking+` WHERE b.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Booking{}, apperr.NotFound(MsgBookingNotFound)
		}
		return model.Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

func (r *Repo) ListByGuest(ctx context.Context, guestID uuid.UUID) ([]model.Booking, error) {
	return r.list(ctx, "list guest bookings", selectBooking+` WHERE b.guest_id = $1 ORDER BY b.created_at DESC, b.id`, guestID)
}

func (r *Repo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Booking, error) {
	return r.list(ctx, "list owner bookings", selectBooking+` WHERE l.created_by = $1 ORDER BY b.created_at DESC, b.id`, ownerID)
}

func (r *Repo) Transition(ctx context.Context, id uuid.UUID, from []model.Status, to model.Status) (model.Booking, bool, error) {
	allowed := make([]string, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE bookings SET status = $2, updated_at = now()
		WHERE id = $1 AND status = ANY($3)`, id, string(to), allowed)
	if err != nil {
		return model.Booking{}, false, fmt.Errorf("transition booking: %w", err)
	}

	b, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Booking{}, false, err
	}
	return b, tag.RowsAffected() == 1, nil
}

func (r *Repo) list(ctx context.Context, op, query string, arg interface{}) ([]model.Booking, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

func scanBooking(row pgx.Row) (model.Booking, error) {
	var (
		b      model.Booking
		status string
	)
	err := row.Scan(&b.ID, &b.ListingID, &b.ListingName, &b.OwnerID, &b.GuestID, &status,
		&b.MoveInDate, &b.RoomType, &b.Message, &b.CreatedAt, &b.UpdatedAt)
	b.Status = model.Status(status)
	return b, err
}
