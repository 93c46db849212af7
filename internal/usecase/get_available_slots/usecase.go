package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/service/ledger"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case для получения доступных слотов врача
type UseCase struct {
	ledger       Ledger
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(ledger Ledger, location *time.Location, logger Logger) *UseCase {
	return &UseCase{
		ledger:       ledger,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, provider=%d, asOf=%q", req.UserID, req.ProviderID, req.AsOf)

	// 1. Просматривать расписание могут пациенты, врачи и администраторы
	if !req.Role.IsViewer() {
		uc.logger.Warn("GetAvailableSlots: access denied for user=%d with role=%s", req.UserID, req.Role)
		return nil, ErrAccessDenied
	}

	// 2. Валидация входных данных
	today := schedule.Today(uc.timeProvider.Now(), uc.location)
	asOf, err := validateRequest(req, today)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем слоты со свободными местами
	records, err := uc.ledger.ListAvailable(ctx, req.ProviderID, asOf)
	if err != nil {
		if errors.Is(err, ledger.ErrProviderNotFound) {
			uc.logger.Warn("GetAvailableSlots: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	slots := toSlots(records, uc.ledger.SlotDuration())

	uc.logger.Info("GetAvailableSlots: found %d available slots for provider=%d from %s",
		len(slots), req.ProviderID, types.FormatDate(asOf))

	return &Response{
		ProviderID: req.ProviderID,
		AsOf:       asOf,
		Slots:      slots,
	}, nil
}
