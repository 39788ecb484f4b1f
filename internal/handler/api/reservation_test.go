//go:build unit

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"stayhub/internal/domain/reservation"
	"stayhub/internal/handler/api"
	"stayhub/internal/usecase/commands"
	"stayhub/internal/usecase/queries"
	"stayhub/tests/common/builder"
	commandsmock "stayhub/tests/mock/commands"
	queriesmock "stayhub/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockReservationCommands
	mockQueries  *queriesmock.MockReservationQueries
	guestID      uuid.UUID
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.guestID = uuid.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	handler := api.NewReservationHandler(s.mockCommands, s.mockQueries)

	// Stub auth: any request with an Authorization header acts as s.guestID.
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		c.Set("guest_id", s.guestID)
		c.Next()
	}

	s.router.POST("/reservations", authMiddleware, handler.CreateReservation)
	s.router.GET("/reservations/:id", authMiddleware, handler.GetReservation)
	s.router.POST("/reservations/:id/cancel", authMiddleware, handler.CancelReservation)
	s.router.GET("/accommodations/:id/reservations", authMiddleware, handler.ListForAccommodation)
	s.router.POST("/internal/reservations/:id/confirm", handler.ConfirmReservation)
	s.router.POST("/internal/reservations/:id/payment-failed", handler.PaymentFailed)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func (s *ReservationHandlerTestSuite) request(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func createBody() map[string]any {
	return map[string]any{
		"accommodation_id": uuid.New().String(),
		"checkin":          "2025-10-01",
		"checkout":         "2025-10-05",
		"guest_count":      2,
	}
}

func (s *ReservationHandlerTestSuite) TestCreateReservation() {
	s.Run("created", func() {
		res := builder.NewReservationBuilder().MustBuild()
		s.mockCommands.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			Return(res, nil)

		w := s.request(http.MethodPost, "/reservations", createBody())

		s.Equal(http.StatusCreated, w.Code)
		s.Contains(w.Body.String(), res.ID().String())
		s.Contains(w.Body.String(), `"status":"pending"`)
	})

	s.Run("passes parsed dates and identity", func() {
		res := builder.NewReservationBuilder().MustBuild()
		s.mockCommands.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params commands.CreateReservationParams) (*reservation.Reservation, error) {
				s.Equal(s.guestID, params.GuestID)
				s.Equal("2025-10-01", params.Checkin.Format("2006-01-02"))
				s.Equal("2025-10-05", params.Checkout.Format("2006-01-02"))
				s.Equal(2, params.GuestCount)
				return res, nil
			})

		w := s.request(http.MethodPost, "/reservations", createBody())
		s.Equal(http.StatusCreated, w.Code)
	})

	s.Run("unauthorized without token", func() {
		req := httptest.NewRequest(http.MethodPost, "/reservations", nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("malformed date", func() {
		body := createBody()
		body["checkin"] = "10/01/2025"
		w := s.request(http.MethodPost, "/reservations", body)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("missing fields", func() {
		w := s.request(http.MethodPost, "/reservations", map[string]any{"checkin": "2025-10-01"})
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("command errors map to statuses", func() {
		cases := []struct {
			err  error
			code int
		}{
			{commands.ErrAccommodationNotFound, http.StatusNotFound},
			{commands.ErrAccommodationUnavailable, http.StatusUnprocessableEntity},
			{commands.ErrInvalidStayPeriod, http.StatusBadRequest},
			{commands.ErrCapacityExceeded, http.StatusUnprocessableEntity},
			{commands.ErrUnavailable, http.StatusConflict},
			{commands.ErrDatabaseOperationFailed, http.StatusInternalServerError},
		}
		for _, c := range cases {
			s.mockCommands.EXPECT().
				Create(gomock.Any(), gomock.Any()).
				Return(nil, c.err)

			w := s.request(http.MethodPost, "/reservations", createBody())
			s.Equal(c.code, w.Code, "error %v", c.err)
		}
	})
}

func (s *ReservationHandlerTestSuite) TestGetReservation() {
	s.Run("found", func() {
		view := &queries.ReservationView{
			ID:     uuid.New(),
			Status: "confirmed",
			Nights: 4,
		}
		s.mockQueries.EXPECT().
			GetByID(gomock.Any(), view.ID).
			Return(view, nil)

		w := s.request(http.MethodGet, "/reservations/"+view.ID.String(), nil)
		s.Equal(http.StatusOK, w.Code)
		s.Contains(w.Body.String(), `"status":"confirmed"`)
		s.Contains(w.Body.String(), `"nights":4`)
	})

	s.Run("not found", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().
			GetByID(gomock.Any(), id).
			Return(nil, queries.ErrReservationNotFound)

		w := s.request(http.MethodGet, "/reservations/"+id.String(), nil)
		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("bad id", func() {
		w := s.request(http.MethodGet, "/reservations/not-a-uuid", nil)
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestCancelReservation() {
	body := map[string]any{"reason": "plans changed"}

	s.Run("cancelled", func() {
		res := builder.NewReservationBuilder().
			With(func(b *builder.ReservationBuilder) { b.Status = "cancelled"; b.CancelReason = "plans changed" }).
			MustBuild()
		s.mockCommands.EXPECT().
			Cancel(gomock.Any(), res.ID(), s.guestID, "plans changed").
			Return(res, nil)

		w := s.request(http.MethodPost, "/reservations/"+res.ID().String()+"/cancel", body)
		s.Equal(http.StatusOK, w.Code)
		s.Contains(w.Body.String(), `"status":"cancelled"`)
	})

	s.Run("missing reason", func() {
		w := s.request(http.MethodPost, "/reservations/"+uuid.New().String()+"/cancel", map[string]any{})
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("command errors map to statuses", func() {
		cases := []struct {
			err  error
			code int
		}{
			{commands.ErrReservationNotFound, http.StatusNotFound},
			{commands.ErrCancellationWindowClosed, http.StatusUnprocessableEntity},
			{commands.ErrIllegalTransition, http.StatusConflict},
		}
		for _, c := range cases {
			id := uuid.New()
			s.mockCommands.EXPECT().
				Cancel(gomock.Any(), id, s.guestID, "plans changed").
				Return(nil, c.err)

			w := s.request(http.MethodPost, "/reservations/"+id.String()+"/cancel", body)
			s.Equal(c.code, w.Code, "error %v", c.err)
		}
	})
}

func (s *ReservationHandlerTestSuite) TestConfirmReservation() {
	s.Run("confirmed", func() {
		res := builder.NewReservationBuilder().
			With(func(b *builder.ReservationBuilder) { b.Status = "confirmed" }).
			MustBuild()
		s.mockCommands.EXPECT().
			Confirm(gomock.Any(), res.ID()).
			Return(res, nil)

		w := s.request(http.MethodPost, "/internal/reservations/"+res.ID().String()+"/confirm", nil)
		s.Equal(http.StatusOK, w.Code)
		s.Contains(w.Body.String(), `"status":"confirmed"`)
	})

	s.Run("availability lost", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().
			Confirm(gomock.Any(), id).
			Return(nil, commands.ErrStaleAvailability)

		w := s.request(http.MethodPost, "/internal/reservations/"+id.String()+"/confirm", nil)
		s.Equal(http.StatusConflict, w.Code)
	})

	s.Run("not found", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().
			Confirm(gomock.Any(), id).
			Return(nil, commands.ErrReservationNotFound)

		w := s.request(http.MethodPost, "/internal/reservations/"+id.String()+"/confirm", nil)
		s.Equal(http.StatusNotFound, w.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestPaymentFailed() {
	s.Run("cancels as system caller", func() {
		res := builder.NewReservationBuilder().
			With(func(b *builder.ReservationBuilder) { b.Status = "cancelled"; b.CancelReason = "payment_failed" }).
			MustBuild()
		s.mockCommands.EXPECT().
			Cancel(gomock.Any(), res.ID(), uuid.Nil, "payment_failed").
			Return(res, nil)

		w := s.request(http.MethodPost, "/internal/reservations/"+res.ID().String()+"/payment-failed", nil)
		s.Equal(http.StatusOK, w.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestListForAccommodation() {
	accommodationID := uuid.New()

	s.Run("without filter", func() {
		s.mockQueries.EXPECT().
			ListForAccommodation(gomock.Any(), accommodationID, queries.ListFilter{}).
			Return([]*queries.ReservationView{{ID: uuid.New()}, {ID: uuid.New()}}, nil)

		w := s.request(http.MethodGet, "/accommodations/"+accommodationID.String()+"/reservations", nil)
		s.Equal(http.StatusOK, w.Code)

		var got []json.RawMessage
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
		s.Len(got, 2)
	})

	s.Run("with date filter", func() {
		s.mockQueries.EXPECT().
			ListForAccommodation(gomock.Any(), accommodationID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, filter queries.ListFilter) ([]*queries.ReservationView, error) {
				s.Require().NotNil(filter.From)
				s.Require().NotNil(filter.To)
				s.Equal("2025-10-01", filter.From.Format("2006-01-02"))
				s.Equal("2025-10-31", filter.To.Format("2006-01-02"))
				return nil, nil
			})

		w := s.request(http.MethodGet,
			"/accommodations/"+accommodationID.String()+"/reservations?from=2025-10-01&to=2025-10-31", nil)
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("malformed filter date", func() {
		w := s.request(http.MethodGet,
			"/accommodations/"+accommodationID.String()+"/reservations?from=oct-1", nil)
		s.Equal(http.StatusBadRequest, w.Code)
	})
}
