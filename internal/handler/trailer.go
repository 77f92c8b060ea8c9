package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/service"
)

// TrailerHandler handles HTTP requests for trailers.
type TrailerHandler struct {
	trailerService *service.TrailerService
	assetService   *service.AssetService
}

// NewTrailerHandler creates a new TrailerHandler.
func NewTrailerHandler(trailerService *service.TrailerService, assetService *service.AssetService) *TrailerHandler {
	return &TrailerHandler{trailerService: trailerService, assetService: assetService}
}

// TrailerRequest is the HTTP request body for creating or updating a trailer.
type TrailerRequest struct {
	Plate    *string               `json:"plate"`
	Type     *domain.TrailerType   `json:"type"`
	Status   *domain.TrailerStatus `json:"status"`
	Capacity *float64              `json:"capacity"`
}

func (r TrailerRequest) input() service.TrailerInput {
	return service.TrailerInput{
		Plate:    r.Plate,
		Type:     r.Type,
		Status:   r.Status,
		Capacity: r.Capacity,
	}
}

// Create handles POST /api/trailers
func (h *TrailerHandler) Create(c *gin.Context) {
	var req TrailerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	trailer, err := h.trailerService.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, newTrailerResponse(trailer))
}

// GetAll handles GET /api/trailers
func (h *TrailerHandler) GetAll(c *gin.Context) {
	trailers, err := h.trailerService.GetAll(c.Request.Context(), domain.TrailerStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, mapAll(trailers, newTrailerResponse))
}

// GetAvailable handles GET /api/trailers/available
func (h *TrailerHandler) GetAvailable(c *gin.Context) {
	trailers, err := h.trailerService.GetAvailable(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, mapAll(trailers, newTrailerResponse))
}

// GetByID handles GET /api/trailers/:id
func (h *TrailerHandler) GetByID(c *gin.Context) {
	trailer, err := h.trailerService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newTrailerResponse(trailer))
}

// Update handles PUT /api/trailers/:id
func (h *TrailerHandler) Update(c *gin.Context) {
	var req TrailerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	trailer, err := h.trailerService.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newTrailerResponse(trailer))
}

// Delete handles DELETE /api/trailers/:id
func (h *TrailerHandler) Delete(c *gin.Context) {
	trailer, err := h.assetService.DeleteTrailer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "trailer deleted", newTrailerResponse(trailer))
}
