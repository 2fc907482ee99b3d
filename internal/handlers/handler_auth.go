package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	portssvc "github.com/SscSPs/expense_sharing_app/internal/core/ports/services"
	"github.com/SscSPs/expense_sharing_app/internal/dto"
	"github.com/SscSPs/expense_sharing_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// authHandler handles the public authentication endpoints.
type authHandler struct {
	userService  portssvc.UserCredentialSvc
	tokenService portssvc.TokenSvcFacade
}

// RegisterAuthRoutes sets up the rate-limited /auth routes.
func RegisterAuthRoutes(r gin.IRouter, userService portssvc.UserCredentialSvc, tokenService portssvc.TokenSvcFacade, rateLimiter *limiter.Limiter) {
	registerValidators()
	h := &authHandler{userService: userService, tokenService: tokenService}

	auth := r.Group("/auth", middleware.RateLimit(rateLimiter))
	{
		auth.POST("/login", h.login)
		auth.GET("/token/:token", h.exchangeToken)
		auth.PATCH("/credentials", h.updateCredentials)
	}
}

// login godoc
// @Summary User login
// @Description Authenticates a user with username and password and returns a JWT.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.AuthenticateByPassword(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err, "Failed to authenticate")
		return
	}
	h.respondAccessToken(c, user)
}

// exchangeToken godoc
// @Summary Exchange a login token
// @Description Trades a single-use login token for a JWT. The token stays valid until credentials are set.
// @Tags auth
// @Produce json
// @Param token path string true "Login token"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/token/{token} [get]
func (h *authHandler) exchangeToken(c *gin.Context) {
	user, err := h.userService.AuthenticateByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err, "Failed to authenticate")
		return
	}
	h.respondAccessToken(c, user)
}

// updateCredentials godoc
// @Summary Set username and password
// @Description Sets the username and/or password of the token holder and consumes the token.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.UpdateCredentialsRequest true "Token and new credentials"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Username already taken"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/credentials [patch]
func (h *authHandler) updateCredentials(c *gin.Context) {
	var req dto.UpdateCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.UpdateCredentials(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to update credentials")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Credentials updated", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *authHandler) respondAccessToken(c *gin.Context, user *domain.User) {
	token, expiresAt, err := h.tokenService.GenerateAccessToken(c.Request.Context(), user)
	if err != nil {
		respondError(c, err, "Failed to generate token")
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		UserID:      user.UserID,
	})
}
