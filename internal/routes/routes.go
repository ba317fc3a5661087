package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BruksfildServices01/rehearsal-scheduler/internal/audit"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/config"
	domain "github.com/BruksfildServices01/rehearsal-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/handlers"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/middleware"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/notify"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/pkg/metrics"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/timezone"
	ucReservation "github.com/BruksfildServices01/rehearsal-scheduler/internal/usecase/reservation"
)

// Deps are the singletons built in main.
type Deps struct {
	Config  *config.Config
	Repo    domain.Repository
	Members domain.Membership
	Hook    notify.Hook
	Metrics *metrics.Metrics
	Audit   *audit.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware(d.Config.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// USE CASES
	// ======================================================
	loc := timezone.Default()

	reservationHandler := handlers.NewReservationHandler(handlers.ReservationUseCases{
		Create:    ucReservation.NewCreateReservation(d.Repo, d.Members, d.Hook, d.Metrics),
		Update:    ucReservation.NewUpdateReservation(d.Repo, d.Members, d.Hook),
		Cancel:    ucReservation.NewCancelReservation(d.Repo, d.Members, d.Hook, d.Metrics),
		Override:  ucReservation.NewOverridePendingReservation(d.Repo, d.Hook, d.Metrics),
		Delete:    ucReservation.NewDeleteReservation(d.Repo),
		Get:       ucReservation.NewGetReservation(d.Repo),
		ByStatus:  ucReservation.NewListByStatus(d.Repo),
		All:       ucReservation.NewListAll(d.Repo),
		Approvals: ucReservation.NewListApprovals(d.Repo),
	})

	approvalHandler := handlers.NewApprovalHandler(
		ucReservation.NewRespondToVote(d.Repo, d.Hook, d.Metrics),
	)

	meHandler := handlers.NewMeHandler(handlers.MeUseCases{
		Owned:    ucReservation.NewListByOwner(d.Repo),
		Shared:   ucReservation.NewListShared(d.Repo, d.Members),
		Calendar: ucReservation.NewCalendar(d.Repo, d.Members, loc),
		Pending:  ucReservation.NewListPendingVotes(d.Repo),
	})

	roomHandler := handlers.NewRoomHandler(ucReservation.NewListByRoom(d.Repo, loc))
	auditLogsHandler := handlers.NewAuditLogsHandler(d.Audit)

	// ======================================================
	// API
	// ======================================================
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(d.Config))
	{
		// ------------------------------
		// RESERVATIONS
		// ------------------------------
		api.POST("/reservations", reservationHandler.Create)
		api.GET("/reservations", reservationHandler.List)
		api.GET("/reservations/:id", reservationHandler.Get)
		api.PUT("/reservations/:id", reservationHandler.Update)
		api.PATCH("/reservations/:id/cancel", reservationHandler.Cancel)
		api.PATCH("/reservations/:id/override", middleware.RequireAdmin(), reservationHandler.Override)
		api.DELETE("/reservations/:id", middleware.RequireAdmin(), reservationHandler.Delete)
		api.GET("/reservations/:id/approvals", reservationHandler.Approvals)

		api.PUT("/approvals/:id", approvalHandler.Respond)

		// ------------------------------
		// ME
		// ------------------------------
		api.GET("/me/reservations", meHandler.Reservations)
		api.GET("/me/reservations/shared", meHandler.Shared)
		api.GET("/me/calendar", meHandler.Calendar)
		api.GET("/me/approvals/pending", meHandler.PendingApprovals)

		api.GET("/rooms/:id/reservations", roomHandler.Reservations)

		api.GET("/audit-logs", middleware.RequireAdmin(), auditLogsHandler.List)
	}
}
