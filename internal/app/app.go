// Package app assembles the HTTP router from configuration and shared
// infrastructure. cmd/api and the router tests both build through it.
package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"crmdesk/internal/access"
	"crmdesk/internal/config"
	"crmdesk/internal/domain/activity"
	"crmdesk/internal/domain/auth"
	"crmdesk/internal/domain/client"
	"crmdesk/internal/domain/dashboard"
	"crmdesk/internal/domain/feature"
	"crmdesk/internal/domain/lead"
	"crmdesk/internal/domain/member"
	"crmdesk/internal/domain/milestone"
	"crmdesk/internal/domain/payment"
	"crmdesk/internal/domain/project"
	"crmdesk/internal/domain/requirement"
	"crmdesk/internal/domain/task"
	"crmdesk/internal/domain/user"
	"crmdesk/internal/metrics"
	"crmdesk/internal/middleware"
	jwtsvc "crmdesk/internal/pkg/jwt"
	"crmdesk/internal/realtime"
	"crmdesk/internal/repository"
)

type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Log     *logrus.Logger
	Metrics *metrics.Metrics
	Broker  realtime.Broker
	Hub     *realtime.Hub
}

// NewRouter wires every feature package onto a gin engine.
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger(d.Log))
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(d.Metrics.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	// Infrastructure
	guard := access.NewGuard(d.DB)
	recorder := activity.NewRecorder(d.Broker, d.Log, d.Metrics)
	users := repository.NewUserRepository(d.DB)
	jwt := jwtsvc.New(cfg.JWTSecret, cfg.SessionTTL)

	// Services
	authService := auth.NewService(users, jwt, cfg.BcryptCost)
	userService := user.NewService(users, cfg.BcryptCost)
	leadService := lead.NewService(d.DB, guard)
	clientService := client.NewService(d.DB, guard, d.Metrics)
	paymentService := payment.NewService(d.DB, guard, recorder, d.Metrics)
	activityService := activity.NewService(d.DB)
	requirementService := requirement.NewService(d.DB, recorder)
	featureService := feature.NewService(d.DB, recorder)
	milestoneService := milestone.NewService(d.DB, recorder)
	memberService := member.NewService(d.DB, guard, recorder)
	projectService := project.NewService(d.DB, guard, paymentService, recorder, project.Sections{
		Requirements: requirementService,
		Features:     featureService,
		Milestones:   milestoneService,
		Members:      memberService,
		Activity:     activityService,
	})
	taskService := task.NewService(d.DB, guard, recorder)
	dashboardService := dashboard.NewService(d.DB)

	// Handlers
	authHandler := auth.NewHandler(authService, auth.CookieConfig{
		Name:     cfg.CookieName,
		Path:     cfg.CookiePath,
		Secure:   cfg.CookieSecure,
		SameSite: cfg.SameSite(),
		TTL:      cfg.SessionTTL,
	}, d.Log)
	projectHandler := project.NewHandler(projectService)

	api := r.Group("/api")
	{
		// public
		authHandler.RegisterRoutes(api)

		protected := api.Group("")
		protected.Use(middleware.Session(authService, cfg.CookieName))
		{
			user.NewHandler(userService, d.Log).RegisterRoutes(protected)
			lead.RegisterRoutes(protected, lead.NewHandler(leadService, d.Log))
			client.NewHandler(clientService, d.Log).RegisterRoutes(protected)
			projectHandler.RegisterRoutes(protected)
			task.NewHandler(taskService).RegisterRoutes(protected)
			payment.NewHandler(paymentService).RegisterRoutes(protected)
			dashboard.NewHandler(dashboardService).RegisterRoutes(protected)

			// project sub-resources, keyed by the verified :id project
			scoped := protected.Group("/projects/:id")
			scoped.Use(guard.ProjectScope())
			{
				projectHandler.RegisterScopedRoutes(scoped)
				requirement.NewHandler(requirementService).RegisterRoutes(scoped)
				feature.NewHandler(featureService).RegisterRoutes(scoped)
				milestone.NewHandler(milestoneService).RegisterRoutes(scoped)
				member.NewHandler(memberService).RegisterRoutes(scoped)
				activity.NewHandler(activityService, d.Hub, d.Log).RegisterRoutes(scoped)
			}
		}
	}

	return r
}

// Handler wraps the router with CORS for the configured browser origins.
func Handler(d Deps) http.Handler {
	return middleware.CORS(d.Config.CorsAllowedOrigins)(NewRouter(d))
}
