package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/repository"
	"fleet/internal/service"
)

// MaintenanceHandler handles HTTP requests for maintenances.
type MaintenanceHandler struct {
	maintenanceService *service.MaintenanceService
}

// NewMaintenanceHandler creates a new MaintenanceHandler.
func NewMaintenanceHandler(maintenanceService *service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: maintenanceService}
}

// MaintenanceRequest is the HTTP request body for creating or updating a maintenance.
type MaintenanceRequest struct {
	Type                   *domain.MaintenanceType `json:"type"`
	Description            *string                 `json:"description"`
	Cost                   *float64                `json:"cost"`
	Date                   *time.Time              `json:"date"`
	TruckID                *string                 `json:"truckId"`
	TireID                 *string                 `json:"tireId"`
	ReplacedParts          []string                `json:"replacedParts"`
	OdometerAtIntervention *float64                `json:"odometerAtIntervention"`
	NextDueOdometer        *float64                `json:"nextDueOdometer"`
}

// MaintenanceTypeStatsResponse is one row of GET /api/maintenances/stats/type.
type MaintenanceTypeStatsResponse struct {
	Type        domain.MaintenanceType `json:"type"`
	Count       int64                  `json:"count"`
	TotalCost   float64                `json:"totalCost"`
	AverageCost float64                `json:"averageCost"`
}

// TruckCostResponse is the body of GET /api/maintenances/truck/:truckId/cost.
type TruckCostResponse struct {
	TruckID     string  `json:"truckId"`
	Count       int64   `json:"count"`
	TotalCost   float64 `json:"totalCost"`
	AverageCost float64 `json:"averageCost"`
}

// Create handles POST /api/maintenances
func (h *MaintenanceHandler) Create(c *gin.Context) {
	var req MaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	m, err := h.maintenanceService.Create(c.Request.Context(), service.MaintenanceInput(req))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, newMaintenanceResponse(m))
}

// GetAll handles GET /api/maintenances
func (h *MaintenanceHandler) GetAll(c *gin.Context) {
	r, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	list, err := h.maintenanceService.GetAll(c.Request.Context(), repository.MaintenanceFilter{
		Status:  c.Query("status"),
		Type:    c.Query("type"),
		TruckID: c.Query("truckId"),
		TireID:  c.Query("tireId"),
		Range:   r,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, mapAll(list, newMaintenanceResponse))
}

// GetPlanned handles GET /api/maintenances/planned
func (h *MaintenanceHandler) GetPlanned(c *gin.Context) {
	list, err := h.maintenanceService.GetPlanned(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, mapAll(list, newMaintenanceResponse))
}

// GetByID handles GET /api/maintenances/:id
func (h *MaintenanceHandler) GetByID(c *gin.Context) {
	m, err := h.maintenanceService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newMaintenanceResponse(m))
}

// Update handles PUT /api/maintenances/:id
func (h *MaintenanceHandler) Update(c *gin.Context) {
	var req MaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	m, err := h.maintenanceService.Update(c.Request.Context(), c.Param("id"), service.MaintenanceInput(req))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newMaintenanceResponse(m))
}

// Delete handles DELETE /api/maintenances/:id
func (h *MaintenanceHandler) Delete(c *gin.Context) {
	m, err := h.maintenanceService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "maintenance deleted", newMaintenanceResponse(m))
}

// Start handles PATCH /api/maintenances/:id/start
func (h *MaintenanceHandler) Start(c *gin.Context) {
	m, err := h.maintenanceService.Start(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "maintenance started", newMaintenanceResponse(m))
}

// Finish handles PATCH /api/maintenances/:id/finish
func (h *MaintenanceHandler) Finish(c *gin.Context) {
	m, err := h.maintenanceService.Finish(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "maintenance finished", newMaintenanceResponse(m))
}

// Cancel handles PATCH /api/maintenances/:id/cancel
func (h *MaintenanceHandler) Cancel(c *gin.Context) {
	m, err := h.maintenanceService.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "maintenance cancelled", newMaintenanceResponse(m))
}

// StatsByType handles GET /api/maintenances/stats/type
func (h *MaintenanceHandler) StatsByType(c *gin.Context) {
	r, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.maintenanceService.StatsByType(c.Request.Context(), r)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, mapAll(stats, func(s repository.MaintenanceTypeStats) MaintenanceTypeStatsResponse {
		return MaintenanceTypeStatsResponse{
			Type:        s.Type,
			Count:       s.Count,
			TotalCost:   s.TotalCost,
			AverageCost: s.AverageCost,
		}
	}))
}

// CostByTruck handles GET /api/maintenances/truck/:truckId/cost
func (h *MaintenanceHandler) CostByTruck(c *gin.Context) {
	r, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	cost, err := h.maintenanceService.CostByTruck(c.Request.Context(), c.Param("truckId"), r)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, TruckCostResponse{
		TruckID:     cost.TruckID,
		Count:       cost.Count,
		TotalCost:   cost.TotalCost,
		AverageCost: cost.AverageCost,
	})
}
