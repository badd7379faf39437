// Package bookings implements booking requests (enquiries) between guests
// and listing owners.
package bookings

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"stayfinder_backend/internal/bookings/handler"
	"stayfinder_backend/internal/bookings/ports"
	"stayfinder_backend/internal/bookings/repository"
	"stayfinder_backend/internal/bookings/service"
	"stayfinder_backend/internal/email"
	"stayfinder_backend/internal/events"
	apphttp "stayfinder_backend/internal/http"
	"stayfinder_backend/platform/config"
	"stayfinder_backend/platform/logger"
	"stayfinder_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
	svc     *service.Service
	repo    *repository.Repo
}

// NewModule wires the booking module and subscribes the reminder handler to the bus.
func NewModule(pool *pgxpool.Pool, listings ports.ListingReader, users ports.UserDirectory, mailer email.Sender, reminders ports.ReminderScheduler, bus events.Bus, val *validator.Validator, cfg config.BookingConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, listings, users, mailer, reminders, bus, cfg, log)
	if bus != nil {
		bus.Subscribe(events.BookingReminderDue{}.EventName(), svc.ReminderHandler())
	}

	return &Module{handler: handler.New(svc, val), svc: svc, repo: repo}
}

func (m *Module) Service() *service.Service {
	return m.svc
}

// Repository exposes the booking store to other modules.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

func (m *Module) Name() string {
	return "bookings"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
}

var _ apphttp.Module = (*Module)(nil)
