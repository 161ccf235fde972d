package loyalty

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"teatro/internal/customers"
	"teatro/internal/shared/utils/response"
)

type Controller interface {
	GetCustomerLoyalty(c *gin.Context)
	GetEligibleCustomers(c *gin.Context)
	GetStats(c *gin.Context)
	Reconcile(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetCustomerLoyalty(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid customer ID", nil, err.Error())
		return
	}

	result, err := ctrl.service.GetCustomerLoyalty(c.Request.Context(), customerID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, customers.ErrCustomerNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Customer loyalty retrieved successfully", result, nil)
}

func (ctrl *controller) GetEligibleCustomers(c *gin.Context) {
	result, err := ctrl.service.GetEligibleCustomers(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Eligible customers retrieved successfully", result, nil)
}

func (ctrl *controller) GetStats(c *gin.Context) {
	result, err := ctrl.service.GetStats(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Loyalty stats retrieved successfully", result, nil)
}

func (ctrl *controller) Reconcile(c *gin.Context) {
	report, err := ctrl.service.Reconcile(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Loyalty reconciliation completed", report, nil)
}
