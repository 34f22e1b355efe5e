package router

import (
	"github.com/gin-gonic/gin"

	"github.com/tajoco/contacts/config"
	"github.com/tajoco/contacts/internal/handler"
	"github.com/tajoco/contacts/internal/middleware"
)

type Router struct {
	authHandler    *handler.AuthHandler
	userHandler    *handler.UserHandler
	contactHandler *handler.ContactHandler
	healthHandler  *handler.HealthHandler

	jwtMw  *middleware.JWTMiddleware
	Config *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	user *handler.UserHandler,
	contact *handler.ContactHandler,
	health *handler.HealthHandler,

	jwtMw *middleware.JWTMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:    auth,
		userHandler:    user,
		contactHandler: contact,
		healthHandler:  health,

		jwtMw:  jwtMw,
		Config: cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestContext())
	router.Use(middleware.CORS())
	if r.Config.App.Timeout > 0 {
		router.Use(middleware.RequestTimeout(r.Config.App.Timeout))
	}

	api := router.Group("/api")
	{
		api.GET("/healthchecker", r.healthHandler.HealthCheck)

		api.Use(middleware.RateLimit(r.Config.RateLimit.Request, r.Config.RateLimit.Duration))

		r.authRoutes(api)
		r.userRoutes(api)
		r.contactRoutes(api)
	}

	return router
}
