package get_provider_bookings

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

type fakeService struct {
	got *models.GetProviderBookingsRequest
	err error
}

func (f *fakeService) GetProviderBookings(ctx context.Context, req *models.GetProviderBookingsRequest) (*models.BookingListResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingListResponse{Bookings: []models.BookingResponse{}}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newRequest(query string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/providers/42/bookings"+query, nil)
	r = mux.SetURLVars(r, map[string]string{"providerId": "42"})
	ctx := middleware.WithPrincipal(r.Context(), domain.Principal{UserID: 42, Role: domain.RoleDoctor})
	return r.WithContext(ctx)
}

func TestHandler_Success(t *testing.T) {
	svc := &fakeService{}
	w := httptest.NewRecorder()

	NewHandler(svc, nopLogger{}).Handle(w, newRequest("?date=2025-03-10&activeOnly=false"))

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.got.Date)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), *svc.got.Date)
	assert.False(t, svc.got.ActiveOnly)
	assert.Equal(t, int64(42), svc.got.CallerID)
}

func TestHandler_DefaultsToActiveOnly(t *testing.T) {
	svc := &fakeService{}

	NewHandler(svc, nopLogger{}).Handle(httptest.NewRecorder(), newRequest(""))

	require.NotNil(t, svc.got)
	assert.True(t, svc.got.ActiveOnly)
	assert.Nil(t, svc.got.Date)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		err    error
		status int
	}{
		{"bad date", "?date=tomorrow", nil, http.StatusBadRequest},
		{"bad activeOnly", "?activeOnly=maybe", nil, http.StatusBadRequest},
		{"forbidden", "", bookings.ErrAccessDenied, http.StatusForbidden},
		{"not found", "", bookings.ErrProviderNotFound, http.StatusNotFound},
		{"internal", "", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			NewHandler(&fakeService{err: tt.err}, nopLogger{}).Handle(w, newRequest(tt.query))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
