package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	portssvc "github.com/SscSPs/expense_sharing_app/internal/core/ports/services"
	"github.com/SscSPs/expense_sharing_app/internal/dto"
	"github.com/SscSPs/expense_sharing_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// userHandler handles HTTP requests related to users.
type userHandler struct {
	userService    portssvc.UserSvcFacade
	balanceService portssvc.BalanceSvcFacade
}

// newUserHandler creates a new userHandler.
func newUserHandler(us portssvc.UserSvcFacade, bs portssvc.BalanceSvcFacade) *userHandler {
	return &userHandler{
		userService:    us,
		balanceService: bs,
	}
}

// RegisterUserRoutes registers all user-related routes. Writes require ROLE_ADMIN.
func RegisterUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade, balanceService portssvc.BalanceSvcFacade) {
	registerValidators()
	h := newUserHandler(userService, balanceService)
	admin := middleware.RequireRole(domain.RoleAdmin)

	users := rg.Group("/users")
	{
		users.GET("", h.listUsers)
		users.GET("/me", h.getMe)
		users.GET("/:id", h.getUser)
		users.POST("", admin, h.createUser)
		users.PATCH("/:id", admin, h.updateUser)
		users.PUT("/:id/partner", admin, h.setPartner)
		users.GET("/:id/token", admin, h.issueToken)
	}
}

// listUsers godoc
// @Summary List users
// @Description Lists users with their pooled balances, optionally filtered by a partial username.
// @Tags users
// @Produce  json
// @Param   username query string false "Part of the username"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListUsersResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list users"
// @Security BearerAuth
// @Router /users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list users")
		return
	}
	balances, err := h.balanceService.GetUserBalances(c.Request.Context(), users, true)
	if err != nil {
		respondError(c, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, dto.ToListUserResponse(users, balances))
}

// getMe godoc
// @Summary Get the current user
// @Description Returns the authenticated user with their pooled balance.
// @Tags users
// @Produce  json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve user"
// @Security BearerAuth
// @Router /users/me [get]
func (h *userHandler) getMe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	h.respondUserWithBalance(c, userID, true)
}

// getUser godoc
// @Summary Get a user by ID
// @Description Returns the user with their balance, pooled with the partner's unless includePartner=false.
// @Tags users
// @Produce  json
// @Param   id path string true "User ID"
// @Param   includePartner query bool false "Pool the partner's balance" default(true)
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve user"
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *userHandler) getUser(c *gin.Context) {
	includePartner := true
	if raw, ok := c.GetQuery("includePartner"); ok {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondBindError(c, err)
			return
		}
		includePartner = parsed
	}
	h.respondUserWithBalance(c, c.Param("id"), includePartner)
}

func (h *userHandler) respondUserWithBalance(c *gin.Context, userID string, includePartner bool) {
	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve user")
		return
	}
	balance, err := h.balanceService.GetUserBalance(c.Request.Context(), userID, includePartner)
	if err != nil {
		respondError(c, err, "Failed to compute balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponseWithBalance(user, balance))
}

// createUser godoc
// @Summary Create a new user
// @Description Creates a user. Admin only.
// @Tags users
// @Accept  json
// @Produce  json
// @Param   user body dto.CreateUserRequest true "User details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 409 {object} dto.ErrorResponse "Username already taken"
// @Failure 500 {object} dto.ErrorResponse "Failed to create user"
// @Security BearerAuth
// @Router /users [post]
func (h *userHandler) createUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	actorID, ok := requireUserID(c)
	if !ok {
		return
	}

	logger.Info("Received request to create user", slog.String("username", req.Username))
	user, err := h.userService.CreateUser(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, err, "Failed to create user")
		return
	}

	logger.Info("User created successfully", slog.String("new_user_id", user.UserID))
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// updateUser godoc
// @Summary Update a user
// @Description Changes username, roles or tags. Admin only.
// @Tags users
// @Accept  json
// @Produce  json
// @Param   id path string true "User ID"
// @Param   user body dto.UpdateUserRequest true "Fields to change"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "Username already taken"
// @Failure 500 {object} dto.ErrorResponse "Failed to update user"
// @Security BearerAuth
// @Router /users/{id} [patch]
func (h *userHandler) updateUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	actorID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), c.Param("id"), req, actorID)
	if err != nil {
		respondError(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// setPartner godoc
// @Summary Link or unlink a partner
// @Description Links both users to each other, dropping any previous links. A null partnerID unlinks. Admin only.
// @Tags users
// @Accept  json
// @Produce  json
// @Param   id path string true "User ID"
// @Param   partner body dto.SetPartnerRequest true "Partner ID or null"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or self link"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "User or partner not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to update partner"
// @Security BearerAuth
// @Router /users/{id}/partner [put]
func (h *userHandler) setPartner(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("id")
	var req dto.SetPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	actorID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.SetPartner(c.Request.Context(), userID, req.PartnerID, actorID)
	if err != nil {
		respondError(c, err, "Failed to update partner")
		return
	}

	logger.Info("Partner link updated", slog.String("target_user_id", userID))
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// issueToken godoc
// @Summary Issue a login token
// @Description Generates a single-use token the user exchanges for a JWT or uses to set credentials. Admin only.
// @Tags users
// @Produce  json
// @Param   id path string true "User ID"
// @Success 200 {object} dto.IssuedTokenResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to issue token"
// @Security BearerAuth
// @Router /users/{id}/token [get]
func (h *userHandler) issueToken(c *gin.Context) {
	issued, err := h.userService.IssueLoginToken(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to issue token")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Login token issued", slog.String("target_user_id", issued.UserID))
	c.JSON(http.StatusOK, dto.IssuedTokenResponse{
		Token:    issued.Token,
		UserID:   issued.UserID,
		Username: issued.Username,
		Message:  "Token generated successfully",
	})
}
