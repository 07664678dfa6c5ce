package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"dispatch/internal/handler"
	"dispatch/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	RequestHandler *handler.RequestHandler
	OrderHandler   *handler.OrderHandler
	DriverHandler  *handler.DriverHandler
	AccountHandler *handler.AccountHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.NewRelic(deps.NewRelicApp))
	router.Use(middleware.Idempotency(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Trip request routes.
		requests := v1.Group("/requests")
		{
			requests.POST("/travel", deps.RequestHandler.CreateTravel)
			requests.POST("/delivery", deps.RequestHandler.CreateDelivery)
			requests.GET("/:id", deps.RequestHandler.GetRequest)
		}

		// Order lifecycle routes.
		orders := v1.Group("/orders")
		{
			orders.GET("", deps.OrderHandler.GetAll)
			orders.GET("/:id", deps.OrderHandler.GetOrder)
			orders.POST("/:id/assign", deps.OrderHandler.Assign)
			orders.POST("/:id/arrive", deps.OrderHandler.Arrive)
			orders.POST("/:id/start", deps.OrderHandler.Start)
			orders.POST("/:id/end", deps.OrderHandler.End)
			orders.POST("/:id/reject", deps.OrderHandler.Reject)
			orders.POST("/:id/cancel", deps.OrderHandler.Cancel)
		}

		// Driver routes.
		drivers := v1.Group("/drivers")
		{
			drivers.POST("/register", deps.DriverHandler.Register)
			drivers.GET("", deps.DriverHandler.GetAll)
			drivers.POST("/:id/status", deps.DriverHandler.SetStatus)
			drivers.GET("/:id/balance", deps.DriverHandler.GetBalance)
		}

		// Cashback account routes.
		v1.GET("/cashback/:owner_id", deps.AccountHandler.GetAccount)
	}

	return router
}
