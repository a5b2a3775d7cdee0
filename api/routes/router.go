// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	_ "tiketin/docs"
	"tiketin/internal/events"
	"tiketin/internal/shared/clock"
	"tiketin/internal/shared/config"
	"tiketin/internal/shared/database"
	"tiketin/internal/ticketcategories"
	"tiketin/pkg/cache"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher ticketcategories.ChangePublisher
	cache     cache.Service

	ticketCategoryService ticketcategories.Service // For dependency injection
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, publisher ticketcategories.ChangePublisher) *Router {
	r := &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
	}
	if db.GetRedisClient() != nil {
		r.cache = cache.NewService(db.GetRedisClient())
	}
	return r
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Ticket categories first, events depend on the service
		r.setupTicketCategoryRoutes(api)

		r.setupEventRoutes(api)
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
				"service":   "tiketin-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "tiketin-backend",
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
			"status":          "operational",
			"api_version":     r.config.APIVersion,
			"timestamp":       time.Now(),
			"redis_cache":     r.cache != nil,
			"change_feed":     r.config.Kafka.Enabled,
			"ticket_timezone": r.config.Location().String(),
		})
	})
}

// setupTicketCategoryRoutes configures ticket category management and the form helpers
func (r *Router) setupTicketCategoryRoutes(rg *gin.RouterGroup) {
	eventRepo := events.NewRepository(r.db.GetPostgreSQL())
	windowReader := events.NewTicketWindowAdapter(eventRepo)

	tcRepo := ticketcategories.NewRepository(r.db.GetPostgreSQL())
	tcService := ticketcategories.NewService(
		tcRepo,
		windowReader,
		ticketcategories.NewNormalizer(r.config.Location()),
		clock.NewSystem(),
	)
	if r.cache != nil {
		tcService.SetCacheService(r.cache)
	}
	if r.publisher != nil {
		tcService.SetPublisher(r.publisher)
	}

	// Store ticket category service for dependency injection
	r.ticketCategoryService = tcService

	ticketcategories.SetupTicketCategoryRoutes(rg, ticketcategories.NewController(tcService))
}

// setupEventRoutes configures event management routes
func (r *Router) setupEventRoutes(rg *gin.RouterGroup) {
	eventRepo := events.NewRepository(r.db.GetPostgreSQL())
	eventService := events.NewService(eventRepo, r.ticketCategoryService)
	if r.cache != nil {
		eventService.SetCacheService(r.cache)
	}

	eventController := events.NewController(eventService)

	events.SetupEventRoutes(rg, eventController)
}
