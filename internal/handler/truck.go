package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/service"
)

// TruckHandler handles HTTP requests for trucks.
type TruckHandler struct {
	truckService *service.TruckService
	assetService *service.AssetService
}

// NewTruckHandler creates a new TruckHandler.
func NewTruckHandler(truckService *service.TruckService, assetService *service.AssetService) *TruckHandler {
	return &TruckHandler{truckService: truckService, assetService: assetService}
}

// TruckRequest is the HTTP request body for creating or updating a truck.
type TruckRequest struct {
	Plate           *string             `json:"plate"`
	Make            *string             `json:"make"`
	Model           *string             `json:"model"`
	TankCapacity    *float64            `json:"tankCapacity"`
	CurrentOdometer *float64            `json:"currentOdometer"`
	Status          *domain.TruckStatus `json:"status"`
}

func (r TruckRequest) input() service.TruckInput {
	return service.TruckInput{
		Plate:           r.Plate,
		Make:            r.Make,
		Model:           r.Model,
		TankCapacity:    r.TankCapacity,
		CurrentOdometer: r.CurrentOdometer,
		Status:          r.Status,
	}
}

// Create handles POST /api/trucks
func (h *TruckHandler) Create(c *gin.Context) {
	var req TruckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	truck, err := h.truckService.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, newTruckResponse(truck))
}

// GetAll handles GET /api/trucks
func (h *TruckHandler) GetAll(c *gin.Context) {
	trucks, err := h.truckService.GetAll(c.Request.Context(), domain.TruckStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, mapAll(trucks, newTruckResponse))
}

// GetAvailable handles GET /api/trucks/available
func (h *TruckHandler) GetAvailable(c *gin.Context) {
	trucks, err := h.truckService.GetAvailable(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, mapAll(trucks, newTruckResponse))
}

// GetByID handles GET /api/trucks/:id
func (h *TruckHandler) GetByID(c *gin.Context) {
	truck, err := h.truckService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newTruckResponse(truck))
}

// Update handles PUT /api/trucks/:id
func (h *TruckHandler) Update(c *gin.Context) {
	var req TruckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	truck, err := h.truckService.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newTruckResponse(truck))
}

// Delete handles DELETE /api/trucks/:id
func (h *TruckHandler) Delete(c *gin.Context) {
	truck, err := h.assetService.DeleteTruck(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "truck deleted", newTruckResponse(truck))
}
