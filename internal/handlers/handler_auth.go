package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	portssvc "github.com/freightdesk/backend/internal/core/ports/services"
	"github.com/freightdesk/backend/internal/dto"
	"github.com/freightdesk/backend/internal/middleware"
)

const authHeading = "Authentication"

// authHandler handles login and logout.
type authHandler struct {
	authService portssvc.AuthSvcFacade
}

func newAuthHandler(as portssvc.AuthSvcFacade) *authHandler {
	return &authHandler{authService: as}
}

// registerAuthRoutes registers the auth routes. The login route gets
// the rate limiter; everything under /auth bypasses the permission
// guard.
func registerAuthRoutes(rg *gin.RouterGroup, authService portssvc.AuthSvcFacade, loginLimiter gin.HandlerFunc) {
	h := newAuthHandler(authService)

	auth := rg.Group("/auth")
	{
		if loginLimiter != nil {
			auth.POST("/login", loginLimiter, h.login)
		} else {
			auth.POST("/login", h.login)
		}
		auth.POST("/refresh", h.refresh)
		auth.POST("/logout", h.logout)
	}
}

// login godoc
// @Summary Log in
// @Description Verifies credentials and issues an access/refresh token pair
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   credentials body dto.LoginRequest true "Email and password"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse "Invalid request format"
// @Failure 401 {object} dto.APIResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for login", slog.String("error", err.Error()))
		respondBindError(c, err, authHeading)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, authHeading)
		return
	}

	c.JSON(http.StatusOK, dto.Success(resp, "Logged in successfully", authHeading, http.StatusOK))
}

// refresh godoc
// @Summary Refresh the access token
// @Description Redeems a refresh token for a new access/refresh token pair
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   token body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse "Invalid request format"
// @Failure 401 {object} dto.APIResponse "Unknown, revoked or expired refresh token"
// @Router /auth/refresh [post]
func (h *authHandler) refresh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for refresh", slog.String("error", err.Error()))
		respondBindError(c, err, authHeading)
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, authHeading)
		return
	}

	c.JSON(http.StatusOK, dto.Success(resp, "Token refreshed successfully", authHeading, http.StatusOK))
}

// logout godoc
// @Summary Log out
// @Description Revokes the presented bearer token
// @Tags auth
// @Produce  json
// @Success 200 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse "Missing or unknown token"
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !found || token == "" {
		c.JSON(http.StatusUnauthorized, dto.Error("Authorization header missing or invalid", authHeading, http.StatusUnauthorized))
		return
	}

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		respondError(c, err, authHeading)
		return
	}

	c.JSON(http.StatusOK, dto.Success(nil, "Logged out successfully", authHeading, http.StatusOK))
}
