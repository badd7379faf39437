package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stayfinder_backend/internal/auth/repository"
	"stayfinder_backend/internal/auth/service"
	"stayfinder_backend/internal/auth/transport"
	"stayfinder_backend/platform/httpkit"
	"stayfinder_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgFailed           = "request failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the public credential routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
}

func (h *Handler) Register(c *gin.Context) {
	var req transport.RegisterRequest
	if !h.bind(c, &req) {
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if httpkit.HandleEnvelopeError(c, err, msgFailed) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.UserEnvelope{
		Success: true,
		Message: "User registered successfully",
		User:    toUserResponse(user),
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if !h.bind(c, &req) {
		return
	}

	token, user, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if httpkit.HandleEnvelopeError(c, err, msgFailed) {
		return
	}
	httpkit.OK(c, transport.LoginResponse{Success: true, AccessToken: token, User: toUserResponse(user)})
}

// Verify echoes the user behind a valid bearer token.
func (h *Handler) Verify(c *gin.Context) {
	h.GetProfile(c)
}

func (h *Handler) GetProfile(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	user, err := h.svc.Me(c.Request.Context(), id.UserID())
	if httpkit.HandleEnvelopeError(c, err, msgFailed) {
		return
	}
	httpkit.OK(c, transport.UserEnvelope{Success: true, User: toUserResponse(user)})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req transport.UpdateProfileRequest
	if !h.bind(c, &req) {
		return
	}

	user, err := h.svc.UpdateProfile(c.Request.Context(), id.UserID(), req.Name, req.Phone)
	if httpkit.HandleEnvelopeError(c, err, msgFailed) {
		return
	}
	httpkit.OK(c, transport.UserEnvelope{Success: true, Message: "Profile updated", User: toUserResponse(user)})
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

func toUserResponse(u repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}
