package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stayfinder_backend/internal/bookings/model"
	"stayfinder_backend/internal/bookings/service"
	"stayfinder_backend/internal/bookings/transport"
	"stayfinder_backend/platform/httpkit"
	"stayfinder_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid booking id"
	msgFailed           = "request failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the booking routes; every route needs a signed-in user.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.Create)
	rg.PATCH("/bookings/:id/status", h.UpdateStatus)
	rg.POST("/bookings/:id/cancel", h.Cancel)
	rg.GET("/user/bookings", h.ListMine)
	rg.GET("/owner/bookings", h.ListForOwner)
}

func (h *Handler) Create(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req transport.CreateBookingRequest
	if !h.bind(c, &req) {
		return
	}

	booking, err := h.svc.Request(c.Request.Context(), id.UserID(), req)
	if httpkit.HandleEnvelopeError(c, err, msgFailed) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.BookingResponse{Success: true, Message: "Booking request sent", Data: booking})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	bookingID, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateStatusRequest
	if !h.bind(c, &req) {
		return
	}

	booking, err := h.svc.Decide(c.Request.Context(), id.UserID(), bookingID, model.Status(req.Status))
	if httpkit.HandleEnvelopeError(c, err, msgFailed) {
		return
	}
	httpkit.OK(c, transport.BookingResponse{Success: true, Message: "Booking " + req.Status, Data: booking})
}

func (h *Handler) Cancel(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	bookingID, ok := parseID(c)
	if !ok {
		return
	}

	booking, err := h.svc.Cancel(c.Request.Context(), id.UserID(), bookingID)
	if httpkit.HandleEnvelopeError(c, err, msgFailed) {
		return
	}
	httpkit.OK(c, transport.BookingResponse{Success: true, Message: "Booking cancelled", Data: booking})
}

func (h *Handler) ListMine(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	items, err := h.svc.ListForGuest(c.Request.Context(), id.UserID())
	if httpkit.HandleEnvelopeError(c, err, msgFailed) {
		return
	}
	httpkit.OK(c, transport.BookingListResponse{Success: true, Data: items, Count: len(items)})
}

func (h *Handler) ListForOwner(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	items, err := h.svc.ListForOwner(c.Request.Context(), id.UserID())
	if httpkit.HandleEnvelopeError(c, err, msgFailed) {
		return
	}
	httpkit.OK(c, transport.BookingListResponse{Success: true, Data: items, Count: len(items)})
}

func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}
