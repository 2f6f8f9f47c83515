package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AfopeM/nawalingo/config"
	"github.com/AfopeM/nawalingo/internal/api/handler"
	"github.com/AfopeM/nawalingo/internal/api/middleware"
	"github.com/AfopeM/nawalingo/internal/model"
)

// Deps what the router needs besides handlers; Limiter may be nil
type Deps struct {
	Verifier    middleware.TokenVerifier
	Permissions middleware.PermissionChecker
	Limiter     middleware.RateLimiter
	Logger      *zap.Logger
}

// Setup builds the Gin engine
func Setup(cfg *config.Config, h *handler.Handler, d Deps) *gin.Engine {
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))

	r.GET("/health", health)

	limit := middleware.RateLimit(d.Limiter, cfg.RateLimit.Requests, cfg.RateLimit.Window, d.Logger)
	requirePerm := func(p string) gin.HandlerFunc {
		return middleware.RequirePermission(d.Permissions, p, d.Logger)
	}

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", health)

		// public
		v1.GET("/languages", h.Language.List)

		tutors := v1.Group("/tutors", limit)
		{
			tutors.GET("", h.Tutor.Search)
			tutors.GET("/:tutorId", h.Tutor.Detail)
			tutors.GET("/:tutorId/availability.ics", h.Tutor.AvailabilityICS)
			tutors.GET("/:tutorId/ratings", h.Tutor.RatingSummary)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(d.Verifier))
		{
			authorized.POST("/tutors/:tutorId/ratings", limit, h.Tutor.Rate)

			// student
			user := authorized.Group("/user")
			{
				user.GET("/roles", h.User.Roles)
				user.GET("/permissions", h.User.Permissions)
				user.GET("/onboarding", h.User.OnboardingStatus)
				user.POST("/onboarding", h.User.CompleteOnboarding)
				user.GET("/profile", h.User.GetProfile)
				user.PUT("/profile", h.User.UpdateProfile)
			}

			// tutor
			tutor := authorized.Group("/tutor")
			{
				tutor.POST("/apply", h.Tutor.Apply)
				tutor.PUT("/availability", h.Tutor.UpdateAvailability)
				tutor.POST("/availability/import", h.Tutor.ImportAvailability)
			}

			// admin
			admin := authorized.Group("/admin")
			{
				apps := admin.Group("/tutor-applications", requirePerm(model.PermManageTutorApplications))
				{
					apps.GET("", h.Admin.ListApplications)
					apps.GET("/export", h.Admin.ExportApplications)
					apps.POST("/:userId/approve", h.Admin.Approve)
					apps.POST("/:userId/reject", h.Admin.Reject)
				}
				admin.POST("/users/:userId/make-admin", requirePerm(model.PermManageAdmins), h.Admin.MakeAdmin)
				admin.GET("/permissions/:userId", h.Admin.UserPermissions) // MANAGE_ADMINS or self, checked in the handler
				admin.PUT("/roles/:role/permissions", requirePerm(model.PermManageRoles), h.Admin.SetRolePermissions)
			}
		}
	}

	return r
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
