package app

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"fleet/internal/domain"
	"fleet/internal/handler"
	"fleet/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AuthHandler        *handler.AuthHandler
	TruckHandler       *handler.TruckHandler
	TrailerHandler     *handler.TrailerHandler
	TireHandler        *handler.TireHandler
	MaintenanceHandler *handler.MaintenanceHandler
	FuelHandler        *handler.FuelHandler
	TripHandler        *handler.TripHandler
	UserHandler        *handler.UserHandler
	WebSocketHandler   *handler.WebSocketHandler

	TokenValidator middleware.TokenValidator
	AuthLimiter    *middleware.RateLimiter
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
	AllowedOrigins []string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(corsConfig(deps.AllowedOrigins)))

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	if deps.WebSocketHandler != nil {
		api.GET("/ws", deps.WebSocketHandler.ServeWs)
	}

	// Auth routes.
	authRoutes := api.Group("/auth")
	if deps.AuthLimiter != nil {
		authRoutes.Use(deps.AuthLimiter.Middleware())
	}
	{
		authRoutes.POST("/register", middleware.OptionalAuthenticate(deps.TokenValidator), deps.AuthHandler.Register)
		authRoutes.POST("/login", deps.AuthHandler.Login)
		authRoutes.POST("/refresh", deps.AuthHandler.Refresh)
		authRoutes.POST("/logout", deps.AuthHandler.Logout)
		authRoutes.GET("/me", middleware.Authenticate(deps.TokenValidator), deps.AuthHandler.Me)
	}

	protected := api.Group("")
	protected.Use(middleware.Authenticate(deps.TokenValidator))
	protected.Use(middleware.NewRelicUser())
	if deps.RedisClient != nil {
		protected.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	}

	admin := middleware.Authorize(domain.RoleAdmin)
	staff := middleware.Authorize(domain.RoleAdmin, domain.RoleDriver)
	driver := middleware.Authorize(domain.RoleDriver)

	// Truck routes.
	trucks := protected.Group("/trucks")
	{
		trucks.GET("", staff, deps.TruckHandler.GetAll)
		trucks.GET("/available", staff, deps.TruckHandler.GetAvailable)
		trucks.GET("/:id", staff, deps.TruckHandler.GetByID)
		trucks.POST("", admin, deps.TruckHandler.Create)
		trucks.PUT("/:id", admin, deps.TruckHandler.Update)
		trucks.DELETE("/:id", admin, deps.TruckHandler.Delete)
	}

	// Trailer routes.
	trailers := protected.Group("/trailers")
	{
		trailers.GET("", staff, deps.TrailerHandler.GetAll)
		trailers.GET("/available", staff, deps.TrailerHandler.GetAvailable)
		trailers.GET("/:id", staff, deps.TrailerHandler.GetByID)
		trailers.POST("", admin, deps.TrailerHandler.Create)
		trailers.PUT("/:id", admin, deps.TrailerHandler.Update)
		trailers.DELETE("/:id", admin, deps.TrailerHandler.Delete)
	}

	// Tire routes.
	tires := protected.Group("/tires")
	{
		tires.GET("", staff, deps.TireHandler.GetAll)
		tires.GET("/critical", staff, deps.TireHandler.GetCritical)
		tires.GET("/truck/:truckId", staff, deps.TireHandler.GetByTruck)
		tires.GET("/:id", staff, deps.TireHandler.GetByID)
		tires.POST("", admin, deps.TireHandler.Create)
		tires.PUT("/:id", admin, deps.TireHandler.Update)
		tires.PATCH("/:id/wear", admin, deps.TireHandler.UpdateWear)
		tires.DELETE("/:id", admin, deps.TireHandler.Delete)
	}

	// Maintenance routes.
	maintenances := protected.Group("/maintenances", admin)
	{
		maintenances.GET("", deps.MaintenanceHandler.GetAll)
		maintenances.GET("/planned", deps.MaintenanceHandler.GetPlanned)
		maintenances.GET("/stats/type", deps.MaintenanceHandler.StatsByType)
		maintenances.GET("/truck/:truckId/cost", deps.MaintenanceHandler.CostByTruck)
		maintenances.GET("/:id", deps.MaintenanceHandler.GetByID)
		maintenances.POST("", deps.MaintenanceHandler.Create)
		maintenances.PUT("/:id", deps.MaintenanceHandler.Update)
		maintenances.DELETE("/:id", deps.MaintenanceHandler.Delete)
		maintenances.PATCH("/:id/start", deps.MaintenanceHandler.Start)
		maintenances.PATCH("/:id/finish", deps.MaintenanceHandler.Finish)
		maintenances.PATCH("/:id/cancel", deps.MaintenanceHandler.Cancel)
	}

	// Fuel log routes.
	fuel := protected.Group("/fuel-logs")
	{
		fuel.POST("", staff, deps.FuelHandler.Create)
		fuel.GET("", staff, deps.FuelHandler.GetAll)
		fuel.GET("/trip/:tripId", staff, deps.FuelHandler.GetByTrip)
		fuel.GET("/trip/:tripId/total", staff, deps.FuelHandler.TotalByTrip)
		fuel.GET("/:id", staff, deps.FuelHandler.GetByID)
		fuel.GET("/truck/:truckId/consumption", admin, deps.FuelHandler.ConsumptionByTruck)
		fuel.GET("/stats/period", admin, deps.FuelHandler.StatsByPeriod)
		fuel.PUT("/:id", admin, deps.FuelHandler.Update)
		fuel.DELETE("/:id", admin, deps.FuelHandler.Delete)
	}

	// Trip routes.
	trips := protected.Group("/trips")
	{
		trips.POST("", admin, deps.TripHandler.Create)
		trips.GET("", admin, deps.TripHandler.GetAll)
		trips.GET("/in-progress", admin, deps.TripHandler.GetInProgress)
		trips.GET("/driver/mine", driver, deps.TripHandler.GetMine)
		trips.GET("/driver/:id", admin, deps.TripHandler.GetByDriver)
		trips.PUT("/driver/:id/status", staff, deps.TripHandler.UpdateStatus)
		trips.POST("/driver/:id/finalize", staff, deps.TripHandler.Finalize)
		trips.GET("/driver/:id/pdf", staff, deps.TripHandler.Sheet)
		trips.GET("/:id", staff, deps.TripHandler.GetByID)
		trips.PUT("/:id", admin, deps.TripHandler.Update)
		trips.DELETE("/:id", admin, deps.TripHandler.Delete)
	}

	// User routes.
	users := protected.Group("/users", admin)
	{
		users.POST("", deps.UserHandler.Create)
		users.GET("", deps.UserHandler.GetAll)
		users.GET("/drivers", deps.UserHandler.GetDrivers)
		users.GET("/:id", deps.UserHandler.GetByID)
		users.PUT("/:id", deps.UserHandler.Update)
		users.DELETE("/:id", deps.UserHandler.Delete)
		users.PUT("/:id/photo", deps.UserHandler.UploadPhoto)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length", "Idempotent-Replayed"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		// Credentials forbid "*", so reflect the caller's origin instead.
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
