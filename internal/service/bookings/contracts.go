package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Ledger журнал слотов врача
type Ledger interface {
	ReleaseSlot(ctx context.Context, patientID, providerID int64, date time.Time, t types.TimeString) error
	PatientBookings(ctx context.Context, patientID int64, activeOnly bool) ([]*domain.BookingRecord, error)
	ProviderBookings(ctx context.Context, providerID int64, date *time.Time, activeOnly bool) ([]*domain.BookingRecord, error)
	SlotDuration() int
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
