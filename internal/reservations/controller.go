package reservations

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"teatro/internal/customers"
	"teatro/internal/events"
	"teatro/internal/shared/utils/response"
)

type Controller interface {
	CreateReservation(c *gin.Context)
	CreateAndConfirmReservation(c *gin.Context)
	ConfirmReservation(c *gin.Context)
	CancelReservation(c *gin.Context)
	DeleteReservation(c *gin.Context)
	GetReservation(c *gin.Context)
	GetReservationByCode(c *gin.Context)
	GetCustomerReservations(c *gin.Context)
	GetEventReservations(c *gin.Context)
	GetAllReservations(c *gin.Context)
	GetStalePendingReservations(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// statusForError maps domain errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrReservationNotFound),
		errors.Is(err, customers.ErrCustomerNotFound),
		errors.Is(err, events.ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNoAvailability),
		errors.Is(err, ErrInvalidState),
		errors.Is(err, events.ErrEventNotCurrent):
		return http.StatusConflict
	case errors.Is(err, customers.ErrInactiveCustomer),
		errors.Is(err, customers.ErrNoFreePassAvailable),
		errors.Is(err, events.ErrTicketTypeNotConfigured),
		errors.Is(err, events.ErrIncompatibleTicketType),
		errors.Is(err, ErrPriceUnavailable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (ctrl *controller) CreateReservation(c *gin.Context) {
	var req CreateReservationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	reservation, err := ctrl.service.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, "error", statusForError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Reservation created successfully", reservation, nil)
}

func (ctrl *controller) CreateAndConfirmReservation(c *gin.Context) {
	var req CreateReservationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	reservation, err := ctrl.service.CreateAndConfirm(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, "error", statusForError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Reservation created and confirmed successfully", reservation, nil)
}

func (ctrl *controller) ConfirmReservation(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("reservationId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid reservation ID", nil, err.Error())
		return
	}

	reservation, err := ctrl.service.Confirm(c.Request.Context(), reservationID)
	if err != nil {
		response.RespondJSON(c, "error", statusForError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Reservation confirmed successfully", reservation, nil)
}

func (ctrl *controller) CancelReservation(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("reservationId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid reservation ID", nil, err.Error())
		return
	}

	var req CancelReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	reservation, err := ctrl.service.Cancel(c.Request.Context(), reservationID, req.Reason)
	if err != nil {
		response.RespondJSON(c, "error", statusForError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Reservation cancelled successfully", reservation, nil)
}

func (ctrl *controller) DeleteReservation(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("reservationId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid reservation ID", nil, err.Error())
		return
	}

	if err := ctrl.service.Delete(c.Request.Context(), reservationID); err != nil {
		response.RespondJSON(c, "error", statusForError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Reservation deleted successfully", nil, nil)
}

func (ctrl *controller) GetReservation(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("reservationId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid reservation ID", nil, err.Error())
		return
	}

	reservation, err := ctrl.service.GetByID(c.Request.Context(), reservationID)
	if err != nil {
		response.RespondJSON(c, "error", statusForError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Reservation retrieved successfully", reservation, nil)
}

func (ctrl *controller) GetReservationByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Reservation code is required", nil, nil)
		return
	}

	reservation, err := ctrl.service.GetByCode(c.Request.Context(), code)
	if err != nil {
		response.RespondJSON(c, "error", statusForError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Reservation retrieved successfully", reservation, nil)
}

func (ctrl *controller) GetCustomerReservations(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid customer ID", nil, err.Error())
		return
	}

	result, err := ctrl.service.GetByCustomerID(c.Request.Context(), customerID)
	if err != nil {
		response.RespondJSON(c, "error", statusForError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Customer reservations retrieved successfully", result, nil)
}

func (ctrl *controller) GetEventReservations(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	result, err := ctrl.service.GetByEventID(c.Request.Context(), eventID)
	if err != nil {
		response.RespondJSON(c, "error", statusForError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event reservations retrieved successfully", result, nil)
}

func (ctrl *controller) GetAllReservations(c *gin.Context) {
	var query ReservationListQuery

	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := ctrl.service.GetAll(c.Request.Context(), query)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Reservations retrieved successfully", result, nil)
}

func (ctrl *controller) GetStalePendingReservations(c *gin.Context) {
	result, err := ctrl.service.GetStalePending(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Stale pending reservations retrieved successfully", result, nil)
}
