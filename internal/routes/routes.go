package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
	"github.com/BruksfildServices01/clinic-scheduler/internal/payments"
	"github.com/BruksfildServices01/clinic-scheduler/internal/settings"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
	ucProfessional "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/professional"
	ucRendering "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/rendering"
	ucSettlement "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/settlement"
)

// Deps carries the collaborators built by the serve command. Optional
// collaborators are left as untyped nil when their integration is disabled.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Audit    *audit.Dispatcher
	Settings *settings.Store

	Notifier   notify.Notifier
	Verifier   payments.Verifier
	Queue      ucSettlement.StatementQueue
	Statements *ucSettlement.Statements
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORSMiddleware(),
	)

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	professionalRepo := infraRepo.NewProfessionalGormRepository(d.DB)
	renderingRepo := infraRepo.NewRenderingGormRepository(d.DB)
	settlementRepo := infraRepo.NewSettlementGormRepository(d.DB)

	settlementClock := ucSettlement.Clock(func() time.Time {
		return timezone.NowIn(d.Config.Timezone)
	})

	statements := d.Statements
	if statements == nil {
		statements = ucSettlement.NewStatements(settlementRepo, d.Settings, nil)
	}

	// ======================================================
	// USE CASES
	// ======================================================
	appointmentHandler := handlers.NewAppointmentHandler(
		ucAppointment.NewBookAppointment(appointmentRepo, d.Audit, d.Notifier),
		ucAppointment.NewUpdateAppointment(appointmentRepo, d.Audit),
		ucAppointment.NewConfirmPayment(appointmentRepo, d.Audit, d.Verifier),
		ucAppointment.NewDeleteAppointment(appointmentRepo, d.Audit),
		ucAppointment.NewGetAppointment(appointmentRepo),
		ucAppointment.NewListAppointments(appointmentRepo),
		ucAppointment.NewGetAvailability(appointmentRepo),
	)

	professionalHandler := handlers.NewProfessionalHandler(
		ucProfessional.NewGetSchedule(professionalRepo),
		ucProfessional.NewUpdateSchedule(professionalRepo, d.Audit),
		ucProfessional.NewAvailableSlots(professionalRepo),
		ucProfessional.NewDeactivate(professionalRepo, d.Audit),
	)

	renderingHandler := handlers.NewRenderingHandler(
		ucRendering.NewCreateRendering(renderingRepo, d.Audit),
		ucRendering.NewUpdateRendering(renderingRepo, d.Audit),
		ucRendering.NewDeleteRendering(renderingRepo, d.Audit),
		ucRendering.NewGetRendering(renderingRepo),
		ucRendering.NewListRenderings(renderingRepo),
		ucRendering.NewProfessionalSummary(renderingRepo),
	)

	settlementHandler := handlers.NewSettlementHandler(
		ucSettlement.NewGenerateSettlement(settlementRepo, d.Audit, settlementClock),
		ucSettlement.NewSimulateSettlement(settlementRepo, settlementClock),
		ucSettlement.NewPaySettlement(settlementRepo, d.Audit, d.Queue, settlementClock),
		ucSettlement.NewVoidSettlement(settlementRepo, d.Audit),
		ucSettlement.NewGetSettlement(settlementRepo),
		ucSettlement.NewListSettlements(settlementRepo),
		ucSettlement.NewProfessionalSummary(settlementRepo),
		statements,
	)

	authHandler := handlers.NewAuthHandler(d.DB, d.Config)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)
	settingsHandler := handlers.NewSettingsHandler(d.Settings)

	// ======================================================
	// PUBLIC
	// ======================================================
	if sqlDB, err := d.DB.DB(); err == nil {
		r.GET("/health", handlers.NewHealthHandler(sqlDB).Check)
	}

	api := r.Group("/api")
	api.POST("/auth/login", authHandler.Login)
	api.GET("/appointments/availability/:professionalId", appointmentHandler.Availability)
	api.GET("/professionals/:id/available-slots", professionalHandler.AvailableSlots)

	// ======================================================
	// AUTHENTICATED
	// ======================================================
	auth := api.Group("")
	auth.Use(middleware.AuthMiddleware(d.Config))

	admin := middleware.RequireRole(models.RoleAdmin)
	office := middleware.RequireRole(models.RoleAdmin, models.RoleStaff)

	appointments := auth.Group("/appointments")
	{
		appointments.GET("", appointmentHandler.List)
		appointments.POST("", appointmentHandler.Create)
		appointments.GET("/:id", appointmentHandler.Get)
		appointments.PUT("/:id", appointmentHandler.Update)
		appointments.DELETE("/:id", office, appointmentHandler.Delete)
		appointments.PUT("/:id/confirm-payment", office, appointmentHandler.ConfirmPayment)
	}

	professionals := auth.Group("/professionals")
	{
		professionals.GET("/:id/schedule", professionalHandler.GetSchedule)
		professionals.PUT("/:id/schedule", office, professionalHandler.UpdateSchedule)
		professionals.DELETE("/:id", admin, professionalHandler.Delete)
	}

	renderings := auth.Group("/service-renderings")
	{
		renderings.GET("", renderingHandler.List)
		renderings.POST("", office, renderingHandler.Create)
		renderings.GET("/professional/:id/summary", renderingHandler.Summary)
		renderings.GET("/:id", renderingHandler.Get)
		renderings.PUT("/:id", office, renderingHandler.Update)
		renderings.DELETE("/:id", office, renderingHandler.Delete)
	}

	settlements := auth.Group("/settlements")
	{
		settlements.GET("", settlementHandler.List)
		settlements.POST("", admin, settlementHandler.Generate)
		settlements.POST("/simulate", settlementHandler.Simulate)
		settlements.GET("/professional/:id/summary", settlementHandler.Summary)
		settlements.GET("/:id", settlementHandler.Get)
		settlements.GET("/:id/statement", settlementHandler.Statement)
		settlements.PUT("/:id/pay", admin, settlementHandler.Pay)
		settlements.PUT("/:id/void", admin, settlementHandler.Void)
	}

	auth.GET("/audit-logs", admin, auditLogsHandler.List)
	auth.GET("/settings", settingsHandler.List)
}
