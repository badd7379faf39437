package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stayfinder_backend/internal/listings/service"
	"stayfinder_backend/internal/listings/transport"
	"stayfinder_backend/platform/httpkit"
	"stayfinder_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid hostel id"
	msgFailed           = "request failed"
	photoFormField      = "photo"
)

// Handler handles HTTP requests for listings.
type Handler struct {
	svc       *service.Service
	val       *validator.Validator
	maxUpload int64
}

// New creates a new listings handler. maxUpload bounds multipart photo bodies.
func New(svc *service.Service, val *validator.Validator, maxUpload int64) *Handler {
	return &Handler{svc: svc, val: val, maxUpload: maxUpload}
}

// RegisterPublic mounts the read routes.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/qr", h.QRCode)
}

// RegisterProtected mounts the owner routes.
func (h *Handler) RegisterProtected(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/photos/presign", h.PresignPhoto)
	rg.POST("/:id/photos", h.UploadPhoto)
}

// List handles GET /api/hostels
func (h *Handler) List(c *gin.Context) {
	var req transport.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	items, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleEnvelopeError(c, err, msgFailed) {
		return
	}
	httpkit.OK(c, transport.ListingListResponse{Success: true, Data: items, Count: len(items)})
}

// Get handles GET /api/hostels/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	listing, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleEnvelopeError(c, err, msgFailed) {
		return
	}
	httpkit.OK(c, transport.ListingResponse{Success: true, Data: listing})
}

// ListMine handles GET /api/owner/hostels
func (h *Handler) ListMine(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	items, err := h.svc.ListMine(c.Request.Context(), identity.UserID())
	if httpkit.HandleEnvelopeError(c, err, msgFailed) {
		return
	}
	httpkit.OK(c, transport.ListingListResponse{Success: true, Data: items, Count: len(items)})
}

// Create handles POST /api/hostels
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	listing, err := h.svc.Create(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleEnvelopeError(c, err, msgFailed) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ListingResponse{Success: true, Data: listing})
}

// Update handles PUT /api/hostels/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	listing, err := h.svc.Update(c.Request.Context(), identity.UserID(), id, req)
	if httpkit.HandleEnvelopeError(c, err, msgFailed) {
		return
	}
	httpkit.OK(c, transport.ListingResponse{Success: true, Data: listing})
}

// Delete handles DELETE /api/hostels/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), identity.UserID(), id); httpkit.HandleEnvelopeError(c, err, msgFailed) {
		return
	}
	httpkit.OK(c, transport.MessageResponse{Success: true, Message: "Hostel deleted"})
}

// PresignPhoto handles POST /api/hostels/:id/photos/presign
func (h *Handler) PresignPhoto(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.PresignPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	presigned, err := h.svc.PresignPhoto(c.Request.Context(), identity.UserID(), id, req)
	if httpkit.HandleEnvelopeError(c, err, msgFailed) {
		return
	}
	httpkit.OK(c, gin.H{"success": true, "data": presigned})
}

// UploadPhoto handles multipart POST /api/hostels/:id/photos
func (h *Handler) UploadPhoto(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+1<<20)
	header, err := c.FormFile(photoFormField)
	if err != nil {
		httpkit.Fail(c, http.StatusBadRequest, "photo file is required", nil)
		return
	}
	if header.Size > h.maxUpload {
		httpkit.Fail(c, http.StatusRequestEntityTooLarge, "photo is too large", nil)
		return
	}
	file, err := header.Open()
	if err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	defer func() {
		_ = file.Close()
	}()
	data, err := io.ReadAll(file)
	if err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	listing, err := h.svc.UploadPhoto(c.Request.Context(), identity.UserID(), id, header.Filename, contentType, data)
	if httpkit.HandleEnvelopeError(c, err, msgFailed) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ListingResponse{Success: true, Data: listing})
}

// QRCode handles GET /api/hostels/:id/qr
func (h *Handler) QRCode(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	png, err := h.svc.QRCode(c.Request.Context(), id)
	if httpkit.HandleEnvelopeError(c, err, msgFailed) {
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", png)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}
