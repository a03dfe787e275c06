package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

type UserHandler struct {
	unblockUC *ucAppointment.UnblockUser
}

func NewUserHandler(unblockUC *ucAppointment.UnblockUser) *UserHandler {
	return &UserHandler{unblockUC: unblockUC}
}

type UnblockUserRequest struct {
	ClearWarnings bool `json:"clear_warnings"`
}

// Unblock answers PATCH /admin/users/:id/unblock. The body is optional.
func (h *UserHandler) Unblock(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	var req UnblockUserRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", err.Error())
			return
		}
	}

	user, err := h.unblockUC.Execute(c.Request.Context(), actorFrom(c), id, req.ClearWarnings)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, gin.H{"user": userView(user)})
}
