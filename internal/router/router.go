package router

import (
	"github.com/gin-gonic/gin"

	"github.com/has-bi/you-posm/config"
	"github.com/has-bi/you-posm/internal/app/controller"
	"github.com/has-bi/you-posm/internal/middleware"
)

type Router struct {
	visitController  *controller.VisitController
	lookupController *controller.LookupController
	healthController *controller.HealthController
	config           *config.Config
}

func NewRouter(
	visitController *controller.VisitController,
	lookupController *controller.LookupController,
	healthController *controller.HealthController,
	cfg *config.Config,
) *Router {
	return &Router{
		visitController:  visitController,
		lookupController: lookupController,
		healthController: healthController,
		config:           cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", r.healthController.Health)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/lookups", r.lookupController.List)
		v1.POST("/visits", r.visitController.Submit)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
