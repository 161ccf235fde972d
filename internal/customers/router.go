package customers

import (
	"github.com/gin-gonic/gin"
)

func SetupCustomerRoutes(router *gin.RouterGroup, controller Controller) {
	customers := router.Group("/customers")
	{
		customers.POST("", controller.RegisterCustomer)               // POST /api/v1/customers - Register customer
		customers.GET("", controller.GetAllCustomers)                 // GET /api/v1/customers - List/search customers
		customers.GET("/:customerId", controller.GetCustomer)         // GET /api/v1/customers/:customerId - Customer details
		customers.GET("/email/:email", controller.GetCustomerByEmail) // GET /api/v1/customers/email/:email - Lookup by email
		customers.PUT("/:customerId", controller.UpdateCustomer)      // PUT /api/v1/customers/:customerId - Update customer
		customers.DELETE("/:customerId", controller.DeactivateCustomer)
	}
}
