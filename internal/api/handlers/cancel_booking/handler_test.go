package cancel_booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fakeService struct {
	got *models.CancelBookingRequest
	err error
}

func (f *fakeService) Cancel(ctx context.Context, req *models.CancelBookingRequest) error {
	f.got = req
	return f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPatch, "/api/v1/providers/3/bookings/cancel", strings.NewReader(body))
	r = mux.SetURLVars(r, map[string]string{"providerId": "3"})
	ctx := middleware.WithPrincipal(r.Context(), domain.Principal{UserID: 7, Role: domain.RolePatient})
	return r.WithContext(ctx)
}

func TestHandler_Success(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, nopLogger{})
	w := httptest.NewRecorder()

	h.Handle(w, newRequest(`{"date":"2025-03-10","time":"09:00"}`))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, &models.CancelBookingRequest{
		UserID:     7,
		Role:       domain.RolePatient,
		ProviderID: 3,
		Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Time:       types.TimeString("09:00"),
	}, svc.got)
}

func TestHandler_Errors(t *testing.T) {
	valid := `{"date":"2025-03-10","time":"09:00"}`

	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"bad body", `{`, nil, http.StatusBadRequest},
		{"bad date", `{"date":"10.03.2025","time":"09:00"}`, nil, http.StatusBadRequest},
		{"bad time", `{"date":"2025-03-10","time":"9am"}`, nil, http.StatusBadRequest},
		{"forbidden", valid, bookings.ErrAccessDenied, http.StatusForbidden},
		{"provider not found", valid, bookings.ErrProviderNotFound, http.StatusNotFound},
		{"slot not found", valid, bookings.ErrSlotNotFound, http.StatusNotFound},
		{"claim not found", valid, bookings.ErrClaimNotFound, http.StatusNotFound},
		{"internal", valid, errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.err}, nopLogger{})
			w := httptest.NewRecorder()

			h.Handle(w, newRequest(tt.body))

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
