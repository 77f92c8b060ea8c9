package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/middleware"
	"fleet/internal/repository"
	"fleet/internal/service"
)

// FuelHandler handles HTTP requests for fuel logs.
type FuelHandler struct {
	fuelService *service.FuelService
}

// NewFuelHandler creates a new FuelHandler.
func NewFuelHandler(fuelService *service.FuelService) *FuelHandler {
	return &FuelHandler{fuelService: fuelService}
}

// FuelLogRequest is the HTTP request body for creating or updating a fuel log.
// A pricePerLiter sent by the client is ignored.
type FuelLogRequest struct {
	TripID     *string    `json:"tripId"`
	Liters     *float64   `json:"liters"`
	TotalPrice *float64   `json:"totalPrice"`
	Station    *string    `json:"station"`
	Date       *time.Time `json:"date"`
}

// TripFuelTotalResponse is the body of GET /api/fuel-logs/trip/:tripId/total.
type TripFuelTotalResponse struct {
	TripID               string  `json:"tripId"`
	TotalLiters          float64 `json:"totalLiters"`
	TotalCost            float64 `json:"totalCost"`
	AveragePricePerLiter float64 `json:"averagePricePerLiter"`
	Count                int64   `json:"count"`
}

// ConsumptionResponse is the body of GET /api/fuel-logs/truck/:truckId/consumption.
type ConsumptionResponse struct {
	TruckID             string  `json:"truckId"`
	ConsommationMoyenne float64 `json:"consommationMoyenne"`
	TotalCarburant      float64 `json:"totalCarburant"`
	TotalDistance       float64 `json:"totalDistance"`
	NombreTrajets       int64   `json:"nombreTrajets"`
}

// FuelPeriodResponse is one row of GET /api/fuel-logs/stats/period.
type FuelPeriodResponse struct {
	Period               string  `json:"period"`
	TotalLiters          float64 `json:"totalLiters"`
	TotalCost            float64 `json:"totalCost"`
	AveragePricePerLiter float64 `json:"averagePricePerLiter"`
	Count                int64   `json:"count"`
}

// Create handles POST /api/fuel-logs
func (h *FuelHandler) Create(c *gin.Context) {
	var req FuelLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	log, err := h.fuelService.Create(c.Request.Context(), driverScope(c), service.FuelLogInput(req))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, newFuelLogResponse(log))
}

// GetAll handles GET /api/fuel-logs
func (h *FuelHandler) GetAll(c *gin.Context) {
	logs, err := h.fuelService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, mapAll(logs, newFuelLogResponse))
}

// GetByID handles GET /api/fuel-logs/:id
func (h *FuelHandler) GetByID(c *gin.Context) {
	log, err := h.fuelService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newFuelLogResponse(log))
}

// GetByTrip handles GET /api/fuel-logs/trip/:tripId
func (h *FuelHandler) GetByTrip(c *gin.Context) {
	logs, err := h.fuelService.GetByTrip(c.Request.Context(), c.Param("tripId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, mapAll(logs, newFuelLogResponse))
}

// Update handles PUT /api/fuel-logs/:id
func (h *FuelHandler) Update(c *gin.Context) {
	var req FuelLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	log, err := h.fuelService.Update(c.Request.Context(), c.Param("id"), service.FuelLogInput(req))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newFuelLogResponse(log))
}

// Delete handles DELETE /api/fuel-logs/:id
func (h *FuelHandler) Delete(c *gin.Context) {
	log, err := h.fuelService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "fuel log deleted", newFuelLogResponse(log))
}

// TotalByTrip handles GET /api/fuel-logs/trip/:tripId/total
func (h *FuelHandler) TotalByTrip(c *gin.Context) {
	totals, err := h.fuelService.TotalByTrip(c.Request.Context(), c.Param("tripId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, TripFuelTotalResponse{
		TripID:               totals.TripID,
		TotalLiters:          totals.TotalLiters,
		TotalCost:            totals.TotalCost,
		AveragePricePerLiter: totals.AveragePricePerLiter,
		Count:                totals.Count,
	})
}

// ConsumptionByTruck handles GET /api/fuel-logs/truck/:truckId/consumption
func (h *FuelHandler) ConsumptionByTruck(c *gin.Context) {
	r, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	cons, err := h.fuelService.AverageConsumptionByTruck(c.Request.Context(), c.Param("truckId"), r)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, ConsumptionResponse{
		TruckID:             cons.TruckID,
		ConsommationMoyenne: cons.AverageConsumption,
		TotalCarburant:      cons.TotalFuel,
		TotalDistance:       cons.TotalDistance,
		NombreTrajets:       cons.TripCount,
	})
}

// StatsByPeriod handles GET /api/fuel-logs/stats/period
func (h *FuelHandler) StatsByPeriod(c *gin.Context) {
	r, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.fuelService.StatsByPeriod(c.Request.Context(), r)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, mapAll(stats, func(s repository.FuelPeriodStats) FuelPeriodResponse {
		return FuelPeriodResponse(s)
	}))
}

// driverScope returns the caller's ID when the caller is a driver, so
// services restrict the call to the driver's own trips. Admins get "".
func driverScope(c *gin.Context) string {
	if role, _ := middleware.RoleFromContext(c); role != domain.RoleDriver {
		return ""
	}
	id, _ := middleware.UserIDFromContext(c)
	return id
}
