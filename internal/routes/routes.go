package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

// Deps are the singletons the HTTP layer is built from.
type Deps struct {
	Repo        domain.Repository
	Locker      lock.Locker
	Clock       *timezone.Clock
	Policy      ucAppointment.Policy
	Audit       *audit.Dispatcher
	AuditLogger *audit.Logger
	JWTSecret   string
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// USE CASES
	// ======================================================
	createUC := ucAppointment.NewCreateAppointment(d.Repo, d.Locker, d.Clock, d.Policy, d.Audit)
	cancelUC := ucAppointment.NewCancelAppointment(d.Repo, d.Clock, d.Audit)
	rescheduleUC := ucAppointment.NewRescheduleAppointment(d.Repo, d.Locker, d.Clock, d.Policy, d.Audit)
	completeUC := ucAppointment.NewCompleteAppointment(d.Repo, d.Clock, d.Audit)
	noShowUC := ucAppointment.NewMarkNoShow(d.Repo, d.Clock, d.Audit)

	listMineUC := ucAppointment.NewListMyAppointments(d.Repo)
	listByDateUC := ucAppointment.NewListAppointmentsByDate(d.Repo)
	listByMonthUC := ucAppointment.NewListAppointmentsByMonth(d.Repo)

	availabilityUC := ucAppointment.NewGetAvailability(d.Repo, d.Clock, d.Policy)
	listBarbersUC := ucAppointment.NewListBarbers(d.Repo)

	getHoursUC := ucAppointment.NewGetWorkingHours(d.Repo)
	replaceHoursUC := ucAppointment.NewReplaceWorkingHours(d.Repo, d.Clock, d.Audit)
	timeOffUC := ucAppointment.NewTimeOffAdmin(d.Repo, d.Clock, d.Audit)
	unblockUC := ucAppointment.NewUnblockUser(d.Repo, d.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.Repo, d.JWTSecret)
	meHandler := handlers.NewMeHandler(d.Repo)
	publicHandler := handlers.NewPublicHandler(listBarbersUC, availabilityUC)

	appointmentHandler := handlers.NewAppointmentHandler(
		createUC,
		cancelUC,
		rescheduleUC,
		completeUC,
		noShowUC,
		listMineUC,
		listByDateUC,
		listByMonthUC,
	)

	workingHoursHandler := handlers.NewWorkingHoursHandler(getHoursUC, replaceHoursUC)
	timeOffHandler := handlers.NewTimeOffHandler(timeOffUC)
	userHandler := handlers.NewUserHandler(unblockUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.AuditLogger)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		api.GET("/barbers", publicHandler.ListBarbers)
		api.GET("/barbers/:id/availability", publicHandler.Availability)

		// ------------------------------
		// CUSTOMER
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(d.JWTSecret))
		{
			secured.GET("", meHandler.GetMe)

			secured.GET("/appointments", appointmentHandler.ListMine)
			secured.POST("/appointments", appointmentHandler.Create)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(
			middleware.AuthMiddleware(d.JWTSecret),
			middleware.RequireRole(models.RoleAdmin),
		)
		{
			admin.GET("/appointments", appointmentHandler.ListByDate)
			admin.GET("/appointments/month", appointmentHandler.ListByMonth)
			admin.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			admin.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)
			admin.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			admin.PATCH("/appointments/:id/no-show", appointmentHandler.NoShow)

			admin.GET("/barbers/:id/working-hours", workingHoursHandler.Get)
			admin.PUT("/barbers/:id/working-hours", workingHoursHandler.Update)

			admin.GET("/barbers/:id/time-off", timeOffHandler.List)
			admin.POST("/barbers/:id/time-off", timeOffHandler.Create)
			admin.DELETE("/time-off/:id", timeOffHandler.Delete)

			admin.PATCH("/users/:id/unblock", userHandler.Unblock)

			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
