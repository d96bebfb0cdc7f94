package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/admitdesk/admission-api/internal/models"
	appErrors "github.com/admitdesk/admission-api/pkg/errors"
	"github.com/admitdesk/admission-api/pkg/response"
)

type userService interface {
	List(ctx context.Context) []models.UserInfo
	UpgradeToAdmin(ctx context.Context, email string) (*models.UserInfo, error)
}

type upgradeUserRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// UserHandler exposes account management over HTTP.
type UserHandler struct {
	service userService
}

// NewUserHandler constructs the handler.
func NewUserHandler(service userService) *UserHandler {
	return &UserHandler{service: service}
}

// List godoc
// @Summary List user accounts
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.List(c.Request.Context()), nil)
}

// Upgrade godoc
// @Summary Upgrade a user account to the admin role
// @Tags Users
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /users/upgrade [post]
func (h *UserHandler) Upgrade(c *gin.Context) {
	var req upgradeUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid upgrade payload"))
		return
	}

	user, err := h.service.UpgradeToAdmin(c.Request.Context(), req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}
