package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/service"
)

// TireHandler handles HTTP requests for tires.
type TireHandler struct {
	tireService  *service.TireService
	assetService *service.AssetService
}

// NewTireHandler creates a new TireHandler.
func NewTireHandler(tireService *service.TireService, assetService *service.AssetService) *TireHandler {
	return &TireHandler{tireService: tireService, assetService: assetService}
}

// TireRequest is the HTTP request body for creating or updating a tire.
type TireRequest struct {
	TruckID     *string              `json:"truckId"`
	Position    *domain.TirePosition `json:"position"`
	Wear        *float64             `json:"wear"`
	InstallDate *time.Time           `json:"installDate"`
}

// WearRequest is the HTTP request body for PATCH /api/tires/:id/wear.
type WearRequest struct {
	Wear *float64 `json:"wear" binding:"required"`
}

// Create handles POST /api/tires
func (h *TireHandler) Create(c *gin.Context) {
	var req TireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	tire, err := h.tireService.Create(c.Request.Context(), service.TireInput(req))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, newTireResponse(tire))
}

// GetAll handles GET /api/tires
func (h *TireHandler) GetAll(c *gin.Context) {
	tires, err := h.tireService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, mapAll(tires, newTireResponse))
}

// GetCritical handles GET /api/tires/critical
func (h *TireHandler) GetCritical(c *gin.Context) {
	tires, err := h.tireService.GetCritical(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, mapAll(tires, newTireResponse))
}

// GetByTruck handles GET /api/tires/truck/:truckId
func (h *TireHandler) GetByTruck(c *gin.Context) {
	tires, err := h.tireService.GetByTruck(c.Request.Context(), c.Param("truckId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, mapAll(tires, newTireResponse))
}

// GetByID handles GET /api/tires/:id
func (h *TireHandler) GetByID(c *gin.Context) {
	tire, err := h.tireService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newTireResponse(tire))
}

// Update handles PUT /api/tires/:id
func (h *TireHandler) Update(c *gin.Context) {
	var req TireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	tire, err := h.tireService.Update(c.Request.Context(), c.Param("id"), service.TireInput(req))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newTireResponse(tire))
}

// UpdateWear handles PATCH /api/tires/:id/wear
func (h *TireHandler) UpdateWear(c *gin.Context) {
	var req WearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	tire, err := h.tireService.UpdateWear(c.Request.Context(), c.Param("id"), *req.Wear)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newTireResponse(tire))
}

// Delete handles DELETE /api/tires/:id
func (h *TireHandler) Delete(c *gin.Context) {
	tire, err := h.assetService.DeleteTire(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "tire deleted", newTireResponse(tire))
}
