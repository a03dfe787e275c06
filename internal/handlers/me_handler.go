package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
)

type MeHandler struct {
	repo domain.Repository
}

func NewMeHandler(repo domain.Repository) *MeHandler {
	return &MeHandler{repo: repo}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	user, err := h.repo.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httperr.Unauthorized(c, "user_not_found", "User not found.")
			return
		}
		httperr.FromError(c, err)
		return
	}

	view := userView(user)
	view["block_reason"] = user.BlockReason
	view["last_warning_at"] = user.LastWarningAt

	c.JSON(http.StatusOK, gin.H{"user": view})
}
