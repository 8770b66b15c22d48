package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"inkstitch_backend/internal/quotes/service"
	"inkstitch_backend/internal/quotes/transport"
	"inkstitch_backend/platform/httpkit"
	"inkstitch_backend/platform/validator"
)

// Handler handles HTTP requests for working and saved quotes.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new quotes handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Working returns the current working quote.
// GET /api/v1/quotes/working
func (h *Handler) Working(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Working(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// AddProductLine adds a garment line to the working quote.
// POST /api/v1/quotes/working/lines/product
func (h *Handler) AddProductLine(c *gin.Context) {
	var req transport.AddProductLineRequest
	if !h.bind(c, &req) {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.AddProductLine(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// AddServiceLine adds a standalone decoration line to the working quote.
// POST /api/v1/quotes/working/lines/service
func (h *Handler) AddServiceLine(c *gin.Context) {
	var req transport.AddServiceLineRequest
	if !h.bind(c, &req) {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.AddServiceLine(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateLine changes a line's quantity.
// PATCH /api/v1/quotes/working/lines/:lineId
func (h *Handler) UpdateLine(c *gin.Context) {
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid line ID", nil)
		return
	}
	var req transport.UpdateLineRequest
	if !h.bind(c, &req) {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.UpdateLine(c.Request.Context(), identity.UserID(), lineID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// RemoveLine deletes a line from the working quote.
// DELETE /api/v1/quotes/working/lines/:lineId
func (h *Handler) RemoveLine(c *gin.Context) {
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid line ID", nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.RemoveLine(c.Request.Context(), identity.UserID(), lineID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SetCustomer fills in the quote header.
// PUT /api/v1/quotes/working/customer
func (h *Handler) SetCustomer(c *gin.Context) {
	var req transport.SetCustomerRequest
	if !h.bind(c, &req) {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.SetCustomer(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Clear discards the working quote.
// DELETE /api/v1/quotes/working
func (h *Handler) Clear(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := h.svc.Clear(c.Request.Context(), identity.UserID()); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// Save persists the working quote.
// POST /api/v1/quotes/working/save
func (h *Handler) Save(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.SaveWorking(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// List pages through saved quotes.
// GET /api/v1/quotes
func (h *Handler) List(c *gin.Context) {
	var req transport.ListQuotesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Get retrieves a saved quote.
// GET /api/v1/quotes/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := h.quoteID(c)
	if !ok {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete removes a saved quote.
// DELETE /api/v1/quotes/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := h.quoteID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// Send emails the quote to the customer with its public link.
// POST /api/v1/quotes/:id/send
func (h *Handler) Send(c *gin.Context) {
	id, ok := h.quoteID(c)
	if !ok {
		return
	}
	// The body is optional; an empty send uses the stored customer email.
	var req transport.SendQuoteRequest
	if c.Request.ContentLength > 0 && !h.bind(c, &req) {
		return
	}

	result, err := h.svc.Send(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// QRCode renders the public link as a PNG.
// GET /api/v1/quotes/:id/qr
func (h *Handler) QRCode(c *gin.Context) {
	id, ok := h.quoteID(c)
	if !ok {
		return
	}

	png, err := h.svc.QRCode(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Profit returns the cost and profit breakdown of a saved quote.
// GET /api/v1/quotes/:id/profit
func (h *Handler) Profit(c *gin.Context) {
	id, ok := h.quoteID(c)
	if !ok {
		return
	}

	result, err := h.svc.Profit(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Public is the customer view of a sent quote.
// GET /api/v1/public/quotes/:token
func (h *Handler) Public(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		httpkit.Error(c, http.StatusBadRequest, "missing token", nil)
		return
	}

	result, err := h.svc.PublicByToken(c.Request.Context(), token, c.ClientIP())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) quoteID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid quote ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}
