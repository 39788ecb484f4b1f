package api

import (
	"errors"
	"net/http"

	reqdto "stayhub/internal/handler/dto/request"
	resdto "stayhub/internal/handler/dto/response"
	"stayhub/internal/handler/middleware"
	"stayhub/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	reviewCommands commands.ReviewCommands
}

func NewReviewHandler(reviewCommands commands.ReviewCommands) *ReviewHandler {
	return &ReviewHandler{reviewCommands: reviewCommands}
}

// @Summary Attach a review to a completed stay
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.AttachReviewRequest true "Review content"
// @Success 201 {object} resdto.ReviewResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /reviews [post]
func (h *ReviewHandler) AttachReview(c *gin.Context) {
	authorID, ok := middleware.GetGuestID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.AttachReviewRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	rev, err := h.reviewCommands.AttachReview(c.Request.Context(), commands.AttachReviewParams{
		ReservationID: req.ReservationID,
		AuthorID:      authorID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		case errors.Is(err, commands.ErrNotEligible):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Reservation is not eligible for review"})
		case errors.Is(err, commands.ErrInvalidReview):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review content"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromReview(rev))
}

// @Summary Check review eligibility for a reservation
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReviewEligibilityResponse
// @Failure 404 {object} map[string]string
// @Router /reservations/{id}/review-eligibility [get]
func (h *ReviewHandler) ReviewEligibility(c *gin.Context) {
	authorID, ok := middleware.GetGuestID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID format"})
		return
	}

	eligible, err := h.reviewCommands.CanReview(c.Request.Context(), reservationID, authorID)
	if err != nil {
		if errors.Is(err, commands.ErrReservationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.ReviewEligibilityResponse{CanReview: eligible})
}
