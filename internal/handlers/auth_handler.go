package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/exam-portal/registration-service/internal/services"
	"github.com/exam-portal/registration-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	userService         services.UserService
	registrationService services.RegistrationService
}

func NewAuthHandler(userService services.UserService, registrationService services.RegistrationService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler:         NewBaseHandler(logger),
		userService:         userService,
		registrationService: registrationService,
	}
}

// GoogleLogin handles the mocked Google sign-in and returns an access token.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req services.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	response, err := h.userService.GoogleLogin(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetMe returns the authenticated user's profile.
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateMobile sets the caller's mobile number, completing the profile.
func (h *AuthHandler) UpdateMobile(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.MobileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	profile, err := h.userService.UpdateMobile(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetMyRegistrations lists the caller's registrations.
func (h *AuthHandler) GetMyRegistrations(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	filters := parseRegistrationFilters(c)
	registrations, err := h.registrationService.GetUserRegistrations(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, registrations)
}
