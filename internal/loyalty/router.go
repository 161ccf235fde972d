package loyalty

import (
	"github.com/gin-gonic/gin"
)

func SetupLoyaltyRoutes(router *gin.RouterGroup, controller Controller) {
	loyalty := router.Group("/loyalty")
	{
		loyalty.GET("/stats", controller.GetStats)
		loyalty.GET("/eligible", controller.GetEligibleCustomers)
		loyalty.GET("/customers/:customerId", controller.GetCustomerLoyalty)

		loyalty.POST("/reconcile", controller.Reconcile)
	}
}
