package book_slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/ledger"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case для записи пациента к врачу
type UseCase struct {
	ledger       Ledger
	userClient   UserServiceClient
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(ledger Ledger, userClient UserServiceClient, location *time.Location, logger Logger) *UseCase {
	return &UseCase{
		ledger:       ledger,
		userClient:   userClient,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case записи.
// Атомарность записи в слот и создания BookingRecord обеспечивает журнал.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookSlot: patient=%d, provider=%d, date=%s, time=%s",
		req.PatientID, req.ProviderID, req.Date, req.Time)

	// 1. Записываться могут только пациенты
	if req.Role != domain.RolePatient {
		uc.logger.Warn("BookSlot: access denied for user=%d with role=%s", req.PatientID, req.Role)
		return nil, ErrAccessDenied
	}

	// 2. Валидация входных данных
	date, startTime, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("BookSlot: validation failed: %v", err)
		return nil, err
	}

	// 3. Слот не должен быть в прошлом
	now := uc.timeProvider.Now().In(uc.location)
	if err := validateBookingTime(date, startTime, schedule.Today(now, uc.location), types.NewTimeString(now)); err != nil {
		uc.logger.Warn("BookSlot: booking time validation failed: %v", err)
		return nil, err
	}

	// 4. Записываем пациента
	result, err := uc.ledger.ClaimSlot(ctx, req.PatientID, req.ProviderID, date, startTime)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrProviderNotFound):
			return nil, ErrProviderNotFound
		case errors.Is(err, ledger.ErrSlotNotFound):
			return nil, ErrSlotNotFound
		case errors.Is(err, ledger.ErrDuplicateClaim):
			return nil, ErrAlreadyBooked
		case errors.Is(err, ledger.ErrSlotFull):
			return nil, ErrSlotNotAvailable
		default:
			uc.logger.Error("BookSlot: failed to claim slot: %v", err)
			return nil, fmt.Errorf("%w: failed to claim slot: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("BookSlot: successfully created booking id=%s", result.Booking.ID)

	// 5. Профиль врача не влияет на результат записи
	info := ProviderInfo{}
	if result.Provider != nil {
		info.ClinicLocation = result.Provider.ClinicLocation
	}
	user, err := uc.userClient.GetUserWithGracefulDegradation(ctx, req.ProviderID)
	if err != nil {
		uc.logger.Warn("BookSlot: profile of provider=%d unavailable: %v", req.ProviderID, err)
		info.ProfileDegraded = true
	} else {
		info.Username = user.Username
		info.Avatar = user.Avatar
		if info.ClinicLocation == nil {
			info.ClinicLocation = user.ClinicLocation
		}
	}

	b := result.Booking
	return &Response{
		BookingID:    b.ID.String(),
		PatientID:    b.PatientID,
		ProviderID:   b.ProviderID,
		Date:         b.Date,
		StartTime:    b.Time,
		EndTime:      result.EndTime,
		ClaimOrder:   b.ClaimOrder,
		PatientOrder: b.PatientOrder,
		Capacity:     b.Capacity,
		Generation:   b.Generation,
		CreatedAt:    b.CreatedAt,
		Provider:     info,
	}, nil
}
