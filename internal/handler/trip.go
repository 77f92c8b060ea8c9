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

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// CreateTripRequest is the HTTP request body for planning a trip.
type CreateTripRequest struct {
	DriverID    string            `json:"driverId" binding:"required"`
	TruckID     string            `json:"truckId" binding:"required"`
	TrailerID   string            `json:"trailerId"`
	Origin      string            `json:"origin" binding:"required"`
	Destination string            `json:"destination" binding:"required"`
	StartDate   *time.Time        `json:"startDate"`
	Notes       string            `json:"notes"`
	Status      domain.TripStatus `json:"status"`
}

// UpdateTripRequest is the HTTP request body for PUT /api/trips/:id.
type UpdateTripRequest struct {
	Origin      *string    `json:"origin"`
	Destination *string    `json:"destination"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Notes       *string    `json:"notes"`
}

// UpdateStatusRequest is the HTTP request body for PUT /api/trips/driver/:id/status.
type UpdateStatusRequest struct {
	Status        domain.TripStatus `json:"status" binding:"required"`
	EndOdometer   *float64          `json:"endOdometer"`
	RemainingFuel *float64          `json:"remainingFuel"`
}

// FinalizeTripRequest is the HTTP request body for POST /api/trips/driver/:id/finalize.
type FinalizeTripRequest struct {
	EndOdometer   *float64 `json:"endOdometer"`
	RemainingFuel *float64 `json:"remainingFuel"`
}

// TripOutcomeResponse is a trip after a lifecycle change with the
// maintenance alerts raised for its truck.
type TripOutcomeResponse struct {
	Trip   TripResponse              `json:"trip"`
	Alerts []domain.MaintenanceAlert `json:"alerts"`
}

// Create handles POST /api/trips
func (h *TripHandler) Create(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	in := service.CreateTripRequest{
		DriverID:    req.DriverID,
		TruckID:     req.TruckID,
		TrailerID:   req.TrailerID,
		Origin:      req.Origin,
		Destination: req.Destination,
		Notes:       req.Notes,
		Status:      req.Status,
	}
	if req.StartDate != nil {
		in.StartDate = req.StartDate.UTC()
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusCreated, "trip created", newTripResponse(trip))
}

// GetAll handles GET /api/trips
func (h *TripHandler) GetAll(c *gin.Context) {
	filter, err := tripFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	trips, err := h.tripService.GetAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, mapAll(trips, newTripResponse))
}

// GetInProgress handles GET /api/trips/in-progress
func (h *TripHandler) GetInProgress(c *gin.Context) {
	trips, err := h.tripService.GetInProgress(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, mapAll(trips, newTripResponse))
}

// GetMine handles GET /api/trips/driver/mine
func (h *TripHandler) GetMine(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c)
	h.listByDriver(c, userID)
}

// GetByDriver handles GET /api/trips/driver/:id
func (h *TripHandler) GetByDriver(c *gin.Context) {
	h.listByDriver(c, c.Param("id"))
}

func (h *TripHandler) listByDriver(c *gin.Context, driverID string) {
	filter, err := tripFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	trips, err := h.tripService.GetByDriver(c.Request.Context(), driverID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, mapAll(trips, newTripResponse))
}

// GetByID handles GET /api/trips/:id
func (h *TripHandler) GetByID(c *gin.Context) {
	trip, err := h.tripService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if driverID := driverScope(c); driverID != "" && trip.DriverID != driverID {
		respondError(c, service.ErrTripNotAssignedToDriver)
		return
	}

	respondJSON(c, http.StatusOK, newTripResponse(trip))
}

// Update handles PUT /api/trips/:id
func (h *TripHandler) Update(c *gin.Context) {
	var req UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	trip, err := h.tripService.UpdateTrip(c.Request.Context(), c.Param("id"), service.UpdateTripRequest(req))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newTripResponse(trip))
}

// Delete handles DELETE /api/trips/:id
func (h *TripHandler) Delete(c *gin.Context) {
	trip, err := h.tripService.DeleteTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "trip deleted", newTripResponse(trip))
}

// UpdateStatus handles PUT /api/trips/driver/:id/status
func (h *TripHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	outcome, err := h.tripService.UpdateTripStatus(c.Request.Context(), c.Param("id"), driverScope(c), service.UpdateStatusRequest{
		Status:        req.Status,
		EndOdometer:   req.EndOdometer,
		RemainingFuel: req.RemainingFuel,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "trip status updated", newTripOutcomeResponse(outcome))
}

// Finalize handles POST /api/trips/driver/:id/finalize
func (h *TripHandler) Finalize(c *gin.Context) {
	var req FinalizeTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	outcome, err := h.tripService.FinalizeTrip(c.Request.Context(), c.Param("id"), driverScope(c), service.FinalizeTripRequest(req))
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "trip finalized", newTripOutcomeResponse(outcome))
}

// Sheet handles GET /api/trips/driver/:id/pdf
func (h *TripHandler) Sheet(c *gin.Context) {
	sheet, err := h.tripService.TripSheet(c.Request.Context(), c.Param("id"), driverScope(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="trip-`+c.Param("id")+`.txt"`)
	c.String(http.StatusOK, sheet)
}

func tripFilter(c *gin.Context) (repository.TripFilter, error) {
	r, err := parseDateRange(c)
	if err != nil {
		return repository.TripFilter{}, err
	}
	return repository.TripFilter{
		Status:    c.Query("status"),
		DriverID:  c.Query("driverId"),
		TruckID:   c.Query("truckId"),
		TrailerID: c.Query("trailerId"),
		Range:     r,
	}, nil
}

func newTripOutcomeResponse(o *service.TripOutcome) TripOutcomeResponse {
	alerts := o.Alerts
	if alerts == nil {
		alerts = []domain.MaintenanceAlert{}
	}
	return TripOutcomeResponse{Trip: newTripResponse(o.Trip), Alerts: alerts}
}
