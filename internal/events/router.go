package events

import (
	"github.com/gin-gonic/gin"
)

func SetupEventRoutes(router *gin.RouterGroup, controller Controller) {
	events := router.Group("/events")
	{
		events.GET("", controller.GetAllEvents)             // GET /api/v1/events - Browse events
		events.GET("/current", controller.GetCurrentEvents) // GET /api/v1/events/current - Active future events
		events.GET("/:eventId", controller.GetEvent)        // GET /api/v1/events/:eventId - Event details
		events.GET("/:eventId/availability/:ticketType", controller.GetAvailability)

		events.POST("", controller.CreateEvent)         // POST /api/v1/events - Create event
		events.PUT("/:eventId", controller.UpdateEvent) // PUT /api/v1/events/:eventId - Update event
		events.DELETE("/:eventId", controller.DeactivateEvent)
	}
}
