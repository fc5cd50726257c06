package handlers

import (
	"net/http"

	"github.com/CHOJUNGHO96/algo-reference/internal/metrics"
	"github.com/CHOJUNGHO96/algo-reference/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"admin@algoref.com"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// RefreshRequest carries the refresh token to exchange.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// @Summary      Log in
// @Description  Exchanges email and password for an access/refresh token pair. Rate limited per client IP.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "credentials"
// @Success      200   {object}  service.TokenPair
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/v1/auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input LoginRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	pair, err := h.services.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		h.opts.Metrics.RecordLogin(metrics.LoginFailure)
		h.respondError(c, err, "auth_login_failed", "email", input.Email)
		return
	}

	h.opts.Metrics.RecordLogin(metrics.LoginSuccess)
	c.JSON(http.StatusOK, pair)
}

// @Summary      Refresh tokens
// @Description  Issues a new token pair. The presented refresh token stays valid until it expires.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      RefreshRequest  true  "refresh token"
// @Success      200   {object}  service.TokenPair
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/auth/refresh [post]
func (h *Handler) refresh(c *gin.Context) {
	var input RefreshRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	pair, err := h.services.Refresh(c.Request.Context(), input.RefreshToken)
	if err != nil {
		h.respondError(c, err, "auth_refresh_failed")
		return
	}
	c.JSON(http.StatusOK, pair)
}

// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  models.User
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/auth/me [get]
// @Security     BearerAuth
func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

// CreateUserRequest is the admin payload for new accounts.
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required" example:"editor@algoref.com"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=admin editor" example:"editor"`
}

// @Summary      Create user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      CreateUserRequest  true  "new user"
// @Success      201   {object}  models.User
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/admin/users [post]
// @Security     BearerAuth
func (h *Handler) createUser(c *gin.Context) {
	var input CreateUserRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	u, err := h.services.CreateUser(c.Request.Context(), service.CreateUserParams{
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
	})
	if err != nil {
		h.respondError(c, err, "admin_create_user_failed", "email", input.Email)
		return
	}

	h.log.Infow("admin_user_created", "user_id", u.ID, "role", u.Role, "by", currentUser(c).ID)
	c.JSON(http.StatusCreated, u)
}
