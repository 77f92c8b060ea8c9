package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/service"
)

// maxPhotoSize caps profile picture uploads.
const maxPhotoSize = 5 << 20

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserRequest is the HTTP request body for creating or updating a user.
type UserRequest struct {
	FullName      *string      `json:"fullName"`
	Email         *string      `json:"email"`
	Password      *string      `json:"password"`
	Role          *domain.Role `json:"role"`
	Phone         *string      `json:"phone"`
	HireDate      *time.Time   `json:"hireDate"`
	LicenseNumber *string      `json:"licenseNumber"`
	LicenseExpiry *time.Time   `json:"licenseExpiry"`
}

// Create handles POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), service.UserInput(req))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, newUserResponse(user))
}

// GetAll handles GET /api/users
func (h *UserHandler) GetAll(c *gin.Context) {
	users, err := h.userService.GetAll(c.Request.Context(), domain.Role(c.Query("role")))
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, mapAll(users, newUserResponse))
}

// GetDrivers handles GET /api/users/drivers
func (h *UserHandler) GetDrivers(c *gin.Context) {
	users, err := h.userService.GetDrivers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, mapAll(users, newUserResponse))
}

// GetByID handles GET /api/users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	user, err := h.userService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newUserResponse(user))
}

// Update handles PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), c.Param("id"), service.UserInput(req))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newUserResponse(user))
}

// Delete handles DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	user, err := h.userService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "user deleted", newUserResponse(user))
}

// UploadPhoto handles PUT /api/users/:id/photo (multipart field "photo").
func (h *UserHandler) UploadPhoto(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoSize)

	header, err := c.FormFile("photo")
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	file, err := header.Open()
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	user, err := h.userService.UploadProfileImage(c.Request.Context(), c.Param("id"), header.Filename, contentType, file)
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "profile image updated", newUserResponse(user))
}
