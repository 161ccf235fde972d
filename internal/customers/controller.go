package customers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"teatro/internal/shared/utils/response"
)

type Controller interface {
	RegisterCustomer(c *gin.Context)
	GetCustomer(c *gin.Context)
	GetCustomerByEmail(c *gin.Context)
	UpdateCustomer(c *gin.Context)
	DeactivateCustomer(c *gin.Context)
	GetAllCustomers(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) RegisterCustomer(c *gin.Context) {
	var req RegisterCustomerRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	customer, err := ctrl.service.Register(c.Request.Context(), req)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrDuplicateEmail) {
			statusCode = http.StatusConflict
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Customer registered successfully", customer, nil)
}

func (ctrl *controller) GetCustomer(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid customer ID", nil, err.Error())
		return
	}

	customer, err := ctrl.service.GetByID(c.Request.Context(), customerID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrCustomerNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Customer retrieved successfully", customer, nil)
}

func (ctrl *controller) GetCustomerByEmail(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Email is required", nil, nil)
		return
	}

	customer, err := ctrl.service.GetByEmail(c.Request.Context(), email)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrCustomerNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Customer retrieved successfully", customer, nil)
}

func (ctrl *controller) UpdateCustomer(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid customer ID", nil, err.Error())
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	customer, err := ctrl.service.Update(c.Request.Context(), customerID, req)
	if err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrCustomerNotFound):
			statusCode = http.StatusNotFound
		case errors.Is(err, ErrDuplicateEmail):
			statusCode = http.StatusConflict
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Customer updated successfully", customer, nil)
}

func (ctrl *controller) DeactivateCustomer(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid customer ID", nil, err.Error())
		return
	}

	if err := ctrl.service.Deactivate(c.Request.Context(), customerID); err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrCustomerNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Customer deactivated successfully", nil, nil)
}

func (ctrl *controller) GetAllCustomers(c *gin.Context) {
	var query CustomerListQuery

	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := ctrl.service.GetAll(c.Request.Context(), query)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Customers retrieved successfully", result, nil)
}
