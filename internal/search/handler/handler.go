package handler

import (
	"fmt"
	"math"
	"net/http"
	"strings"

	"stayfinder_backend/internal/search/domain"
	"stayfinder_backend/internal/search/service"
	"stayfinder_backend/internal/search/transport"
	"stayfinder_backend/platform/config"
	"stayfinder_backend/platform/httpkit"
	"stayfinder_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgSearchFailed     = "search failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
	cfg config.SearchConfig
}

func New(svc *service.Service, val *validator.Validator, cfg config.SearchConfig) *Handler {
	return &Handler{svc: svc, val: val, cfg: cfg}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/search", h.SearchText)
	rg.POST("/search/college", h.SearchCollege)
}

func (h *Handler) SearchText(c *gin.Context) {
	var req transport.TextSearchRequest
	if !h.bind(c, &req) {
		return
	}

	price := domain.PriceRange{Min: h.cfg.GetSearchDefaultMinPrice(), Max: h.cfg.GetSearchDefaultMaxPrice()}
	if req.MinPrice != nil {
		price.Min = *req.MinPrice
	}
	if req.MaxPrice != nil {
		price.Max = *req.MaxPrice
	} else if price.Min > price.Max {
		// Only a floor was given; the default ceiling must not undercut it.
		price.Max = math.MaxInt32
	}

	result, err := h.svc.Search(c.Request.Context(), domain.SearchQuery{
		RawText:      req.Query,
		PropertyType: strings.TrimSpace(req.PropertyType),
		Price:        price,
		Amenities:    trimAll(req.Amenities),
	})
	if httpkit.HandleEnvelopeError(c, err, msgSearchFailed) {
		return
	}

	httpkit.OK(c, transport.TextSearchResponse{
		Success:      true,
		Data:         result.Listings,
		Count:        len(result.Listings),
		Query:        req.Query,
		PropertyType: req.PropertyType,
	})
}

func (h *Handler) SearchCollege(c *gin.Context) {
	var req transport.CollegeSearchRequest
	if !h.bind(c, &req) {
		return
	}

	maxDistance := h.cfg.GetSearchDefaultMaxDistanceKm()
	if req.MaxDistance != nil && *req.MaxDistance > 0 {
		maxDistance = *req.MaxDistance
	}
	if limit := h.cfg.GetSearchMaxDistanceLimitKm(); maxDistance > limit {
		httpkit.Fail(c, http.StatusBadRequest, fmt.Sprintf("max_distance must not exceed %g km", limit), nil)
		return
	}

	result, err := h.svc.SearchCollege(c.Request.Context(), domain.SearchQuery{
		CollegeName:  strings.TrimSpace(req.CollegeName),
		MaxDistance:  maxDistance,
		PropertyType: strings.TrimSpace(req.PropertyType),
	})
	if httpkit.HandleEnvelopeError(c, err, msgSearchFailed) {
		return
	}

	httpkit.OK(c, transport.CollegeSearchResponse{
		Success:     true,
		Data:        result.Listings,
		Count:       len(result.Listings),
		College:     result.Reference.Name,
		MaxDistance: maxDistance,
		Query:       req.CollegeName,
	})
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

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
