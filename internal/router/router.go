package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/marketing-survey/config"
	"github.com/ikkim/marketing-survey/internal/app/controller"
	"github.com/ikkim/marketing-survey/internal/app/service"
	"github.com/ikkim/marketing-survey/internal/metrics"
	"github.com/ikkim/marketing-survey/internal/middleware"
	"github.com/ikkim/marketing-survey/internal/web"
	"github.com/ikkim/marketing-survey/pkg/logger"
)

// Pinger reports database reachability for /health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Router struct {
	surveyPageController *controller.SurveyPageController
	surveyController     *controller.SurveyController
	recipientController  *controller.RecipientController
	authController       *controller.AuthController
	liveFeedController   *controller.LiveFeedController
	authMiddleware       *middleware.AuthMiddleware
	rateLimiter          middleware.RateLimiter
	metrics              *metrics.SurveyMetrics
	db                   Pinger
	config               *config.Config
}

func NewRouter(
	surveyPageController *controller.SurveyPageController,
	surveyController *controller.SurveyController,
	recipientController *controller.RecipientController,
	authController *controller.AuthController,
	liveFeedController *controller.LiveFeedController,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter middleware.RateLimiter,
	m *metrics.SurveyMetrics,
	db Pinger,
	cfg *config.Config,
) *Router {
	return &Router{
		surveyPageController: surveyPageController,
		surveyController:     surveyController,
		recipientController:  recipientController,
		authController:       authController,
		liveFeedController:   liveFeedController,
		authMiddleware:       authMiddleware,
		rateLimiter:          rateLimiter,
		metrics:              m,
		db:                   db,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()
	if err := router.SetTrustedProxies(r.config.Server.TrustedProxies); err != nil {
		logger.Warn("Invalid TRUSTED_PROXIES, trusting none", map[string]interface{}{
			"error": err.Error(),
		})
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(r.config.CORS.AllowedOrigins))
	router.SetHTMLTemplate(web.PageTemplates())

	router.GET("/health", r.health)
	if r.metrics != nil {
		router.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	}

	// 공개 설문
	router.GET("/", r.surveyPageController.ShowForm)
	router.POST("/",
		r.rateLimit(r.surveyPageController.RateLimited),
		r.surveyPageController.Submit,
	)
	router.GET("/thank-you/", r.surveyPageController.ThankYou)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/surveys", r.rateLimit(nil), r.surveyController.Submit)
	}

	admin := router.Group("/admin/api")
	{
		admin.POST("/login", r.authController.Login)

		secured := admin.Group("",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole(service.RoleAdmin),
		)

		secured.GET("/me", r.authController.Me)

		surveys := secured.Group("/surveys")
		{
			surveys.GET("", r.surveyController.List)
			surveys.GET("/export", r.surveyController.Export)
			surveys.GET("/:id", r.surveyController.Get)
			surveys.PUT("/:id", r.surveyController.Update)
			surveys.DELETE("/:id", r.surveyController.Delete)
		}

		recipients := secured.Group("/recipients")
		{
			recipients.GET("", r.recipientController.List)
			recipients.POST("", r.recipientController.Create)
			recipients.POST("/activate", r.recipientController.Activate)
			recipients.POST("/deactivate", r.recipientController.Deactivate)
			recipients.PUT("/:id", r.recipientController.Update)
			recipients.DELETE("/:id", r.recipientController.Delete)
		}

		if r.liveFeedController != nil {
			secured.GET("/ws", r.liveFeedController.Connect)
		}
	}

	return router
}

func (r *Router) rateLimit(onLimited gin.HandlerFunc) gin.HandlerFunc {
	if r.rateLimiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RateLimit(r.rateLimiter, r.metrics, onLimited)
}

func (r *Router) health(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{
		"status":   "healthy",
		"message":  "Marketing survey service is running",
		"database": "ok",
	}

	if r.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := r.db.PingContext(ctx); err != nil {
			middleware.GetLoggerFromContext(c).Error("Health check database ping failed", err)
			status = http.StatusServiceUnavailable
			body["status"] = "unhealthy"
			body["database"] = "unreachable"
		}
	}

	c.JSON(status, body)
}
