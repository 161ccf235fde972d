// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"teatro/internal/customers"
	"teatro/internal/events"
	"teatro/internal/loyalty"
	"teatro/internal/notifications"
	"teatro/internal/reservations"
	"teatro/internal/shared/config"
	"teatro/internal/shared/database"
	"teatro/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher notifications.Publisher

	cacheService    cache.Service
	customerRepo    customers.Repository
	eventRepo       events.Repository
	reservationRepo reservations.Repository
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, publisher notifications.Publisher) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// Shared dependencies
	if r.db.Redis != nil {
		r.cacheService = cache.NewService(r.db.GetRedis())
	}
	r.customerRepo = customers.NewRepository(r.db.GetPostgreSQL())
	r.eventRepo = events.NewRepository(r.db.GetPostgreSQL())
	r.reservationRepo = reservations.NewRepository(r.db.GetPostgreSQL())

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupCustomerRoutes(api)
		r.setupEventRoutes(api)
		r.setupReservationRoutes(api)
		r.setupLoyaltyRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "teatro-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "teatro-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupCustomerRoutes configures customer management routes
func (r *Router) setupCustomerRoutes(rg *gin.RouterGroup) {
	customerService := customers.NewService(r.customerRepo)
	if r.cacheService != nil {
		customerService.SetCacheService(r.cacheService)
	}

	customerController := customers.NewController(customerService)
	customers.SetupCustomerRoutes(rg, customerController)
}

// setupEventRoutes configures event management routes
func (r *Router) setupEventRoutes(rg *gin.RouterGroup) {
	eventService := events.NewService(r.eventRepo)
	if r.cacheService != nil {
		eventService.SetCacheService(r.cacheService)
	}

	eventController := events.NewController(eventService)
	events.SetupEventRoutes(rg, eventController)
}

// setupReservationRoutes configures the reservation engine routes
func (r *Router) setupReservationRoutes(rg *gin.RouterGroup) {
	reservationService := reservations.NewService(
		r.reservationRepo,
		r.customerRepo,
		r.eventRepo,
		reservations.Options{
			CodeRetryAttempts: r.config.Reservation.CodeRetryAttempts,
			PendingExpiry:     r.config.Reservation.PendingExpiry,
		},
	)
	if r.cacheService != nil {
		reservationService.SetCacheService(r.cacheService)
	}
	if r.publisher != nil {
		reservationService.SetNotificationPublisher(r.publisher)
	}

	reservationController := reservations.NewController(reservationService)
	reservations.SetupReservationRoutes(rg, reservationController)
}

// setupLoyaltyRoutes configures loyalty program routes
func (r *Router) setupLoyaltyRoutes(rg *gin.RouterGroup) {
	loyaltyService := loyalty.NewService(r.customerRepo, r.reservationRepo)
	if r.cacheService != nil {
		loyaltyService.SetCacheService(r.cacheService)
	}

	loyaltyController := loyalty.NewController(loyaltyService)
	loyalty.SetupLoyaltyRoutes(rg, loyaltyController)
}
