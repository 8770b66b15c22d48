package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkstitch_backend/internal/services/service"
	"inkstitch_backend/internal/services/transport"
	"inkstitch_backend/platform/httpkit"
	"inkstitch_backend/platform/validator"
)

// Handler handles HTTP requests for decoration services.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new decoration services handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List retrieves decoration services.
// GET /api/v1/services?kind=printing|embroidery
func (h *Handler) List(c *gin.Context) {
	kind := c.Query("kind")
	if kind != "" && kind != "printing" && kind != "embroidery" {
		httpkit.Error(c, http.StatusBadRequest, "kind must be printing or embroidery", nil)
		return
	}

	result, err := h.svc.List(c.Request.Context(), kind)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetByID retrieves a decoration service.
// GET /api/v1/services/:id
func (h *Handler) GetByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		httpkit.Error(c, http.StatusBadRequest, "service ID is required", nil)
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Upsert creates or replaces a decoration service.
// PUT /api/v1/services
func (h *Handler) Upsert(c *gin.Context) {
	var req transport.UpsertServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Upsert(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete removes a decoration service.
// DELETE /api/v1/services/:id
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		httpkit.Error(c, http.StatusBadRequest, "service ID is required", nil)
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}
