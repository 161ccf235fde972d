package reservations

import (
	"github.com/gin-gonic/gin"
)

func SetupReservationRoutes(router *gin.RouterGroup, controller Controller) {
	reservations := router.Group("/reservations")
	{
		reservations.GET("", controller.GetAllReservations)
		reservations.GET("/stale", controller.GetStalePendingReservations)
		reservations.GET("/code/:code", controller.GetReservationByCode)
		reservations.GET("/:reservationId", controller.GetReservation)

		reservations.POST("", controller.CreateReservation)                   // PENDING reservation
		reservations.POST("/express", controller.CreateAndConfirmReservation) // create and confirm in one call
		reservations.POST("/:reservationId/confirm", controller.ConfirmReservation)
		reservations.POST("/:reservationId/cancel", controller.CancelReservation)
		reservations.DELETE("/:reservationId", controller.DeleteReservation)
	}

	// Nested lookups by owner
	router.GET("/customers/:customerId/reservations", controller.GetCustomerReservations)
	router.GET("/events/:eventId/reservations", controller.GetEventReservations)
}
