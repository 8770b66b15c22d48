package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkstitch_backend/internal/pricing/service"
	"inkstitch_backend/internal/pricing/transport"
	"inkstitch_backend/platform/httpkit"
	"inkstitch_backend/platform/validator"
)

// Handler handles HTTP requests for the pricing policy and previews.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new pricing handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GetDiscounts returns the current discount brackets.
// GET /api/v1/pricing/discounts
func (h *Handler) GetDiscounts(c *gin.Context) {
	result, err := h.svc.GetDiscountPolicy(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SaveDiscounts replaces the discount brackets wholesale.
// PUT /api/v1/pricing/discounts
func (h *Handler) SaveDiscounts(c *gin.Context) {
	var req transport.SaveDiscountPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.SaveDiscountPolicy(c.Request.Context(), req, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetMarkup returns the global markup percentage.
// GET /api/v1/pricing/markup
func (h *Handler) GetMarkup(c *gin.Context) {
	result, err := h.svc.GetMarkup(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SaveMarkup replaces the global markup percentage.
// PUT /api/v1/pricing/markup
func (h *Handler) SaveMarkup(c *gin.Context) {
	var req transport.SaveMarkupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.SaveMarkup(c.Request.Context(), req, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// PreviewProduct prices a candidate product line.
// POST /api/v1/pricing/preview/product
func (h *Handler) PreviewProduct(c *gin.Context) {
	var req transport.PreviewProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.PreviewProduct(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// PreviewService prices a standalone decoration service.
// POST /api/v1/pricing/preview/service
func (h *Handler) PreviewService(c *gin.Context) {
	var req transport.PreviewServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.PreviewService(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
