package maps

import (
	"errors"
	"net/http"

	"stayfinder_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	msgLookupQuery       = "query 'q' is required (min 3 chars)"
	msgLookupUnavailable = "address lookup service unavailable"
)

// Handler serves address autocomplete for the listing form.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type lookupResponse struct {
	Success bool                `json:"success"`
	Data    []AddressSuggestion `json:"data"`
	Count   int                 `json:"count"`
}

// LookupAddress handles GET /api/maps/address-lookup?q=...
func (h *Handler) LookupAddress(c *gin.Context) {
	var req LookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgLookupQuery, nil)
		return
	}

	results, err := h.svc.SearchAddress(c.Request.Context(), req.Query)
	if err != nil {
		_ = c.Error(err)
		status := http.StatusBadGateway
		// Breaker open: stop hammering Nominatim until it recovers.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			status = http.StatusServiceUnavailable
		}
		httpkit.Fail(c, status, msgLookupUnavailable, nil)
		return
	}
	if results == nil {
		results = []AddressSuggestion{}
	}

	httpkit.OK(c, lookupResponse{Success: true, Data: results, Count: len(results)})
}
