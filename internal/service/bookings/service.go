package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AppointmentService/internal/service/ledger"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Service сервис для работы с записями пациентов
type Service struct {
	ledger Ledger
	logger Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(ledger Ledger, logger Logger) *Service {
	return &Service{
		ledger: ledger,
		logger: logger,
	}
}

// Cancel освобождает место пациента в слоте врача.
// Отменить запись может только сам пациент.
func (s *Service) Cancel(ctx context.Context, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: user=%d, provider=%d, date=%s, time=%s",
		req.UserID, req.ProviderID, types.FormatDate(req.Date), req.Time)

	if req.Role != domain.RolePatient {
		s.logger.Warn("Cancel: access denied for user=%d with role=%s", req.UserID, req.Role)
		return ErrAccessDenied
	}

	if err := validateCancel(req); err != nil {
		s.logger.Warn("Cancel: validation failed: %v", err)
		return err
	}

	err := s.ledger.ReleaseSlot(ctx, req.UserID, req.ProviderID, req.Date, req.Time)
	switch {
	case err == nil:
	case errors.Is(err, ledger.ErrProviderNotFound):
		return ErrProviderNotFound
	case errors.Is(err, ledger.ErrSlotNotFound):
		return ErrSlotNotFound
	case errors.Is(err, ledger.ErrClaimNotFound):
		return ErrClaimNotFound
	default:
		s.logger.Error("Cancel: ledger error for user=%d: %v", req.UserID, err)
		return fmt.Errorf("%w: Cancel - ledger error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully released slot for user=%d", req.UserID)
	return nil
}

// GetUserBookings получает записи пользователя.
// Пациент видит только свои записи, администратор видит записи любого пользователя.
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: caller=%d (%s), user=%d, activeOnly=%t",
		req.CallerID, req.CallerRole, req.UserID, req.ActiveOnly)

	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userId must be positive", ErrInvalidInput)
	}

	if err := checkUserAccess(req); err != nil {
		s.logger.Warn("GetUserBookings: access denied for caller=%d to user=%d", req.CallerID, req.UserID)
		return nil, err
	}

	bookings, err := s.ledger.PatientBookings(ctx, req.UserID, req.ActiveOnly)
	if err != nil {
		s.logger.Error("GetUserBookings: ledger error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - ledger error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings, s.ledger.SlotDuration()), nil
}

// GetProviderBookings получает записи к врачу.
// Врач видит только свои записи, администратор видит записи любого врача.
func (s *Service) GetProviderBookings(ctx context.Context, req *models.GetProviderBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetProviderBookings: caller=%d (%s), provider=%d, activeOnly=%t",
		req.CallerID, req.CallerRole, req.ProviderID, req.ActiveOnly)

	if req.ProviderID <= 0 {
		return nil, fmt.Errorf("%w: providerId must be positive", ErrInvalidInput)
	}

	if err := checkProviderAccess(req); err != nil {
		s.logger.Warn("GetProviderBookings: access denied for caller=%d to provider=%d", req.CallerID, req.ProviderID)
		return nil, err
	}

	bookings, err := s.ledger.ProviderBookings(ctx, req.ProviderID, req.Date, req.ActiveOnly)
	if err != nil {
		if errors.Is(err, ledger.ErrProviderNotFound) {
			return nil, ErrProviderNotFound
		}
		s.logger.Error("GetProviderBookings: ledger error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetProviderBookings - ledger error: %v", ErrInternal, err)
	}

	s.logger.Info("GetProviderBookings: successfully fetched %d bookings for provider=%d", len(bookings), req.ProviderID)
	return models.FromDomainBookingList(bookings, s.ledger.SlotDuration()), nil
}

// checkProviderAccess врач видит свои записи, администратор видит любые
func checkProviderAccess(req *models.GetProviderBookingsRequest) error {
	switch req.CallerRole {
	case domain.RoleAdmin:
		return nil
	case domain.RoleDoctor:
		if req.CallerID == req.ProviderID {
			return nil
		}
	}
	return ErrAccessDenied
}

// checkUserAccess пациент видит свои записи, администратор видит любые
func checkUserAccess(req *models.GetUserBookingsRequest) error {
	switch req.CallerRole {
	case domain.RoleAdmin:
		return nil
	case domain.RolePatient:
		if req.CallerID == req.UserID {
			return nil
		}
	}
	return ErrAccessDenied
}

func validateCancel(req *models.CancelBookingRequest) error {
	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: providerId must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := req.Time.Validate(); err != nil {
		return fmt.Errorf("%w: invalid time: %v", ErrInvalidInput, err)
	}
	return nil
}
