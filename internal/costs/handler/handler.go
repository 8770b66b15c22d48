package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"inkstitch_backend/internal/costs/service"
	"inkstitch_backend/internal/costs/transport"
	"inkstitch_backend/platform/httpkit"
	"inkstitch_backend/platform/validator"
)

// Handler handles HTTP requests for cost settings and profitability.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid cost ID"
)

// New creates a new costs handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GetSettings returns machines, electricity rate and process times.
// GET /api/v1/costs/settings
func (h *Handler) GetSettings(c *gin.Context) {
	result, err := h.svc.Settings(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SetElectricityRate replaces the cost per kWh.
// PUT /api/v1/costs/settings/electricity-rate
func (h *Handler) SetElectricityRate(c *gin.Context) {
	var req transport.SetElectricityRateRequest
	if !h.bind(c, &req) {
		return
	}
	if httpkit.HandleError(c, h.svc.SetElectricityRate(c.Request.Context(), req)) {
		return
	}
	httpkit.OK(c, gin.H{"costPerKwh": req.CostPerKWh})
}

// UpsertMachine creates or replaces a machine.
// PUT /api/v1/costs/settings/machines
func (h *Handler) UpsertMachine(c *gin.Context) {
	var req transport.MachineDTO
	if !h.bind(c, &req) {
		return
	}
	if httpkit.HandleError(c, h.svc.UpsertMachine(c.Request.Context(), req)) {
		return
	}
	httpkit.OK(c, req)
}

// SetMachineWattage updates a machine's power draw.
// PUT /api/v1/costs/settings/machines/:name/wattage
func (h *Handler) SetMachineWattage(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		httpkit.Error(c, http.StatusBadRequest, "machine name is required", nil)
		return
	}
	var req transport.SetWattageRequest
	if !h.bind(c, &req) {
		return
	}
	if httpkit.HandleError(c, h.svc.SetMachineWattage(c.Request.Context(), name, req)) {
		return
	}
	httpkit.OK(c, gin.H{"name": name, "wattage": req.Wattage})
}

// UpsertProcessTime creates or replaces a process duration.
// PUT /api/v1/costs/settings/process-times
func (h *Handler) UpsertProcessTime(c *gin.Context) {
	var req transport.ProcessTimeDTO
	if !h.bind(c, &req) {
		return
	}
	if httpkit.HandleError(c, h.svc.UpsertProcessTime(c.Request.Context(), req)) {
		return
	}
	httpkit.OK(c, req)
}

// GetMaterialCosts returns the consumable cost table.
// GET /api/v1/costs/materials
func (h *Handler) GetMaterialCosts(c *gin.Context) {
	result, err := h.svc.MaterialCosts(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ReplaceMaterialCosts wholesale-replaces the consumable cost table.
// PUT /api/v1/costs/materials
func (h *Handler) ReplaceMaterialCosts(c *gin.Context) {
	var req transport.ReplaceMaterialCostsRequest
	if !h.bind(c, &req) {
		return
	}
	if httpkit.HandleError(c, h.svc.ReplaceMaterialCosts(c.Request.Context(), req)) {
		return
	}
	httpkit.OK(c, gin.H{"count": len(req.Costs)})
}

// ListBusinessCosts returns recurring operating costs.
// GET /api/v1/costs/business?category=...
func (h *Handler) ListBusinessCosts(c *gin.Context) {
	result, err := h.svc.ListBusinessCosts(c.Request.Context(), c.Query("category"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": result, "total": len(result)})
}

// CreateBusinessCost records a new operating cost.
// POST /api/v1/costs/business
func (h *Handler) CreateBusinessCost(c *gin.Context) {
	var req transport.CreateBusinessCostRequest
	if !h.bind(c, &req) {
		return
	}
	result, err := h.svc.CreateBusinessCost(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// UpdateBusinessCost applies partial updates to an operating cost.
// PUT /api/v1/costs/business/:id
func (h *Handler) UpdateBusinessCost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.UpdateBusinessCostRequest
	if !h.bind(c, &req) {
		return
	}
	result, err := h.svc.UpdateBusinessCost(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteBusinessCost removes an operating cost.
// DELETE /api/v1/costs/business/:id
func (h *Handler) DeleteBusinessCost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	if httpkit.HandleError(c, h.svc.DeleteBusinessCost(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// EstimatePrint estimates the supplier cost of a printing job.
// POST /api/v1/costs/estimate/print
func (h *Handler) EstimatePrint(c *gin.Context) {
	var req transport.EstimateJobRequest
	if !h.bind(c, &req) {
		return
	}
	result, err := h.svc.EstimatePrintJob(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// EstimateEmbroidery estimates the supplier cost of an embroidery job.
// POST /api/v1/costs/estimate/embroidery
func (h *Handler) EstimateEmbroidery(c *gin.Context) {
	var req transport.EstimateJobRequest
	if !h.bind(c, &req) {
		return
	}
	result, err := h.svc.EstimateEmbroideryJob(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ProfitAnalysis computes cost and profit for a supplied line item set.
// POST /api/v1/costs/profit-analysis
func (h *Handler) ProfitAnalysis(c *gin.Context) {
	var req transport.ProfitAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	httpkit.OK(c, h.svc.QuoteProfit(c.Request.Context(), req.LineItems))
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
