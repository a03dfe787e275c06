package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

// actorFrom reads the caller set by AuthMiddleware.
func actorFrom(c *gin.Context) ucAppointment.Actor {
	return ucAppointment.Actor{
		UserID: c.GetUint(middleware.ContextUserID),
		Role:   c.GetString(middleware.ContextUserRole),
	}
}

func paramID(c *gin.Context, name string) (uint, error) {
	return validators.ParseID(name, c.Param(name))
}
