package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayfinder_backend/internal/auth"
	"stayfinder_backend/internal/bookings/model"
	"stayfinder_backend/internal/bookings/transport"
	"stayfinder_backend/internal/email"
	"stayfinder_backend/internal/events"
	listingmodel "stayfinder_backend/internal/listings/model"
	"stayfinder_backend/platform/apperr"
	"stayfinder_backend/platform/logger"
)

type memBookings struct {
	items map[uuid.UUID]model.Booking
}

func (m *memBookings) Create(_ context.Context, b model.Booking) (model.Booking, error) {
	m.items[b.ID] = b
	return b, nil
}

func (m *memBookings) GetByID(_ context.Context, id uuid.UUID) (model.Booking, error) {
	b, ok := m.items[id]
	if !ok {
		return model.Booking{}, apperr.NotFound("Booking not found")
	}
	return b, nil
}

func (m *memBookings) ListByGuest(_ context.Context, guestID uuid.UUID) ([]model.Booking, error) {
	out := []model.Booking{}
	for _, b := range m.items {
		if b.GuestID == guestID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBookings) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]model.Booking, error) {
	out := []model.Booking{}
	for _, b := range m.items {
		if b.OwnerID != nil && *b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBookings) Transition(_ context.Context, id uuid.UUID, from []model.Status, to model.Status) (model.Booking, bool, error) {
	b, ok := m.items[id]
	if !ok {
		return model.Booking{}, false, apperr.NotFound("Booking not found")
	}
	for _, s := range from {
		if b.Status == s {
			b.Status = to
			m.items[id] = b
			return b, true, nil
		}
	}
	return b, false, nil
}

type listingStub map[uuid.UUID]listingmodel.Listing

func (l listingStub) GetByID(_ context.Context, id uuid.UUID) (listingmodel.Listing, error) {
	listing, ok := l[id]
	if !ok {
		return listingmodel.Listing{}, apperr.NotFound("Hostel not found")
	}
	return listing, nil
}

type userStub map[uuid.UUID]auth.Profile

func (u userStub) GetUserByID(_ context.Context, id uuid.UUID) (auth.Profile, error) {
	p, ok := u[id]
	if !ok {
		return auth.Profile{}, apperr.NotFound("user not found")
	}
	return p, nil
}

type recordingMailer struct {
	email.NoopSender
	reminders []string
}

func (m *recordingMailer) SendBookingReminderEmail(_ context.Context, to string, _ email.BookingDetails) error {
	m.reminders = append(m.reminders, to)
	return nil
}

type recordingScheduler struct {
	ids   []uuid.UUID
	runAt []time.Time
}

func (s *recordingScheduler) ScheduleBookingReminder(_ context.Context, id uuid.UUID, runAt time.Time) error {
	s.ids = append(s.ids, id)
	s.runAt = append(s.runAt, runAt)
	return nil
}

type collectBus struct{ got []events.Event }

func (b *collectBus) Publish(_ context.Context, e events.Event) { b.got = append(b.got, e) }
func (b *collectBus) PublishSync(_ context.Context, e events.Event) error {
	b.got = append(b.got, e)
	return nil
}
func (b *collectBus) Subscribe(string, events.Handler) {}

type delayConfig time.Duration

func (d delayConfig) GetBookingReminderDelay() time.Duration { return time.Duration(d) }

type fixture struct {
	svc       *Service
	repo      *memBookings
	mailer    *recordingMailer
	scheduler *recordingScheduler
	bus       *collectBus
	listing   listingmodel.Listing
	owner     auth.Profile
	guest     auth.Profile
}

var fixedNow = time.Date(2026, time.May, 10, 9, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	owner := auth.Profile{ID: uuid.New(), Email: "owner@example.com", Name: "Ravi"}
	guest := auth.Profile{ID: uuid.New(), Email: "guest@example.com", Name: "Asha"}
	listing := listingmodel.Listing{ID: uuid.New(), Name: "Sunrise PG", CreatedBy: &owner.ID}

	f := &fixture{
		repo:      &memBookings{items: map[uuid.UUID]model.Booking{}},
		mailer:    &recordingMailer{},
		scheduler: &recordingScheduler{},
		bus:       &collectBus{},
		listing:   listing,
		owner:     owner,
		guest:     guest,
	}
	f.svc = New(f.repo,
		listingStub{listing.ID: listing},
		userStub{owner.ID: owner, guest.ID: guest},
		f.mailer, f.scheduler, f.bus, delayConfig(24*time.Hour), logger.Discard())
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) request(t *testing.T) model.Booking {
	t.Helper()
	b, err := f.svc.Request(context.Background(), f.guest.ID, transport.CreateBookingRequest{
		HostelID:   f.listing.ID.String(),
		MoveInDate: "2026-06-01",
		RoomType:   "Double",
	})
	require.NoError(t, err)
	return b
}

func TestRequestCreatesPendingBooking(t *testing.T) {
	f := newFixture()
	b := f.request(t)

	assert.Equal(t, model.StatusPending, b.Status)
	assert.Equal(t, "Sunrise PG", b.ListingName)
	require.NotNil(t, b.OwnerID)
	assert.Equal(t, f.owner.ID, *b.OwnerID)

	require.Len(t, f.bus.got, 1)
	requested, ok := f.bus.got[0].(events.BookingRequested)
	require.True(t, ok)
	assert.Equal(t, f.owner.ID, requested.OwnerID)

	require.Equal(t, []uuid.UUID{b.ID}, f.scheduler.ids)
	assert.Equal(t, fixedNow.Add(24*time.Hour), f.scheduler.runAt[0])
}

func TestRequestValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Request(ctx, f.guest.ID, transport.CreateBookingRequest{HostelID: f.listing.ID.String(), MoveInDate: "2026-05-01"})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "past move-in date")

	_, err = f.svc.Request(ctx, f.owner.ID, transport.CreateBookingRequest{HostelID: f.listing.ID.String(), MoveInDate: "2026-06-01"})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "own listing")

	_, err = f.svc.Request(ctx, f.guest.ID, transport.CreateBookingRequest{HostelID: uuid.NewString(), MoveInDate: "2026-06-01"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "unknown listing")

	_, err = f.svc.Request(ctx, f.guest.ID, transport.CreateBookingRequest{HostelID: f.listing.ID.String(), MoveInDate: "10/06/2026"})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "bad date layout")
}

func TestDecideOnlyFromPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.request(t)

	_, err := f.svc.Decide(ctx, f.guest.ID, b.ID, model.StatusAccepted)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	accepted, err := f.svc.Decide(ctx, f.owner.ID, b.ID, model.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, accepted.Status)

	_, err = f.svc.Decide(ctx, f.owner.ID, b.ID, model.StatusRejected)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	changed, ok := f.bus.got[len(f.bus.got)-1].(events.BookingStatusChanged)
	require.True(t, ok)
	assert.Equal(t, "pending", changed.OldStatus)
	assert.Equal(t, "accepted", changed.NewStatus)
}

func TestDecideRejectsUnknownStatus(t *testing.T) {
	f := newFixture()
	b := f.request(t)

	_, err := f.svc.Decide(context.Background(), f.owner.ID, b.ID, model.StatusCancelled)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCancelByGuest(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.request(t)

	_, err := f.svc.Cancel(ctx, f.owner.ID, b.ID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	cancelled, err := f.svc.Cancel(ctx, f.guest.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)

	_, err = f.svc.Cancel(ctx, f.guest.ID, b.ID)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestReminderOnlyForPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.request(t)

	require.NoError(t, f.svc.ReminderHandler().Handle(ctx, events.BookingReminderDue{BookingID: b.ID}))
	assert.Equal(t, []string{"owner@example.com"}, f.mailer.reminders)

	_, err := f.svc.Decide(ctx, f.owner.ID, b.ID, model.StatusRejected)
	require.NoError(t, err)
	require.NoError(t, f.svc.HandleReminderDue(ctx, b.ID))
	assert.Len(t, f.mailer.reminders, 1)

	assert.NoError(t, f.svc.HandleReminderDue(ctx, uuid.New()))
}

func TestListsSplitByRole(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.request(t)

	mine, err := f.svc.ListForGuest(ctx, f.guest.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	owned, err := f.svc.ListForOwner(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Len(t, owned, 1)

	none, err := f.svc.ListForOwner(ctx, f.guest.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
