package api

import (
	"errors"
	"net/http"
	"time"

	reqdto "stayhub/internal/handler/dto/request"
	resdto "stayhub/internal/handler/dto/response"
	"stayhub/internal/handler/middleware"
	"stayhub/internal/usecase/commands"
	"stayhub/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	reservationCommands commands.ReservationCommands
	reservationQueries  queries.ReservationQueries
}

func NewReservationHandler(reservationCommands commands.ReservationCommands, reservationQueries queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{
		reservationCommands: reservationCommands,
		reservationQueries:  reservationQueries,
	}
}

// @Summary Create reservation
// @Description Book an accommodation for a stay period
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	guestID, ok := middleware.GetGuestID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CreateReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	checkin, checkout, err := req.ParseDates()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.reservationCommands.Create(c.Request.Context(), commands.CreateReservationParams{
		AccommodationID: req.AccommodationID,
		GuestID:         guestID,
		Checkin:         checkin,
		Checkout:        checkout,
		GuestCount:      req.GuestCount,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrAccommodationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Accommodation not found"})
		case errors.Is(err, commands.ErrAccommodationUnavailable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Accommodation does not accept reservations"})
		case errors.Is(err, commands.ErrInvalidStayPeriod):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stay period"})
		case errors.Is(err, commands.ErrCapacityExceeded):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Guest count exceeds capacity"})
		case errors.Is(err, commands.ErrUnavailable):
			c.JSON(http.StatusConflict, gin.H{"error": "Stay period is not available"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromReservation(res))
}

// @Summary Cancel reservation
// @Description Cancel a pending or confirmed reservation before check-in
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.CancelReservationRequest true "Cancellation reason"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	guestID, ok := middleware.GetGuestID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID format"})
		return
	}

	var req reqdto.CancelReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cancellation reason is required"})
		return
	}

	res, err := h.reservationCommands.Cancel(c.Request.Context(), id, guestID, req.Reason)
	if err != nil {
		h.renderTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservation(res))
}

// ConfirmReservation is the payment collaborator callback after a
// successful capture.
//
// @Summary Confirm reservation (payment collaborator)
// @Tags internal
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /internal/reservations/{id}/confirm [post]
func (h *ReservationHandler) ConfirmReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID format"})
		return
	}

	res, err := h.reservationCommands.Confirm(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		case errors.Is(err, commands.ErrStaleAvailability):
			// The booking must be restarted by the guest.
			c.JSON(http.StatusConflict, gin.H{"error": "Availability lost since creation"})
		case errors.Is(err, commands.ErrIllegalTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "Reservation cannot be confirmed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservation(res))
}

// PaymentFailed is the payment collaborator callback after a failed
// capture; it cancels the pending hold.
//
// @Summary Cancel reservation on payment failure (payment collaborator)
// @Tags internal
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /internal/reservations/{id}/payment-failed [post]
func (h *ReservationHandler) PaymentFailed(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID format"})
		return
	}

	res, err := h.reservationCommands.Cancel(c.Request.Context(), id, uuid.Nil, "payment_failed")
	if err != nil {
		h.renderTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservation(res))
}

// @Summary Get reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID format"})
		return
	}

	view, err := h.reservationQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrReservationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary List my reservations
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.ReservationResponse
// @Router /reservations [get]
func (h *ReservationHandler) ListMyReservations(c *gin.Context) {
	guestID, ok := middleware.GetGuestID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	views, err := h.reservationQueries.ListForGuest(c.Request.Context(), guestID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, toResponses(views))
}

// @Summary List reservations for an accommodation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Accommodation ID"
// @Param from query string false "Filter start date (YYYY-MM-DD)"
// @Param to query string false "Filter end date (YYYY-MM-DD)"
// @Success 200 {array} resdto.ReservationResponse
// @Router /accommodations/{id}/reservations [get]
func (h *ReservationHandler) ListForAccommodation(c *gin.Context) {
	accommodationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid accommodation ID format"})
		return
	}

	filter, err := parseListFilter(c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	views, err := h.reservationQueries.ListForAccommodation(c.Request.Context(), accommodationID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, toResponses(views))
}

func (h *ReservationHandler) renderTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
	case errors.Is(err, commands.ErrCancelReasonRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cancellation reason is required"})
	case errors.Is(err, commands.ErrCancellationWindowClosed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Stay has already started"})
	case errors.Is(err, commands.ErrIllegalTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Transition not permitted from current state"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func toResponses(views []*queries.ReservationView) []*resdto.ReservationResponse {
	responses := make([]*resdto.ReservationResponse, len(views))
	for i, view := range views {
		responses[i] = resdto.FromReservationView(view)
	}
	return responses
}

func parseListFilter(fromStr, toStr string) (queries.ListFilter, error) {
	var filter queries.ListFilter
	if fromStr != "" {
		from, err := time.Parse(time.DateOnly, fromStr)
		if err != nil {
			return queries.ListFilter{}, reqdto.ErrInvalidDate
		}
		filter.From = &from
	}
	if toStr != "" {
		to, err := time.Parse(time.DateOnly, toStr)
		if err != nil {
			return queries.ListFilter{}, reqdto.ErrInvalidDate
		}
		filter.To = &to
	}
	return filter, nil
}
