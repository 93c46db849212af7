package update_template

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	userClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/ledger"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case для замены недельного шаблона врача
type UseCase struct {
	ledger       Ledger
	userClient   UserServiceClient
	location     *time.Location
	horizonDays  int
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	ledger Ledger,
	userClient UserServiceClient,
	location *time.Location,
	horizonDays int,
	logger Logger,
) *UseCase {
	return &UseCase{
		ledger:       ledger,
		userClient:   userClient,
		location:     location,
		horizonDays:  horizonDays,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case замены шаблона.
// Слоты перегенерируются на горизонт от сегодняшней даты.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateTemplate: caller=%d (%s), provider=%d, entries=%d, confirmDiscard=%t",
		req.CallerID, req.CallerRole, req.ProviderID, len(req.Entries), req.ConfirmDiscard)

	// 1. Только администратор врачей
	if req.CallerRole != domain.RoleAdmin {
		uc.logger.Warn("UpdateTemplate: access denied for caller=%d with role=%s", req.CallerID, req.CallerRole)
		return nil, ErrAccessDenied
	}

	// 2. Валидация шаблона
	entries, location, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("UpdateTemplate: validation failed: %v", err)
		return nil, err
	}

	// 3. Пользователь должен существовать и быть врачом
	user, err := uc.userClient.GetUser(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("UpdateTemplate: user id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("UpdateTemplate: failed to get user id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}
	if !user.IsDoctor() {
		uc.logger.Warn("UpdateTemplate: user id=%d has role=%s, not a doctor", req.ProviderID, user.Role)
		return nil, ErrProviderNotFound
	}

	// 4. Перегенерация на горизонт
	rangeStart, rangeEnd := schedule.Horizon(uc.timeProvider.Now(), uc.location, uc.horizonDays)

	result, err := uc.ledger.ReplaceTemplate(ctx, ledger.ReplaceRequest{
		ProviderID:     req.ProviderID,
		Entries:        entries,
		ClinicLocation: location,
		ConfirmDiscard: req.ConfirmDiscard,
		RangeStart:     rangeStart,
		RangeEnd:       rangeEnd,
	})
	if err != nil {
		var discardErr *ledger.DiscardError
		if errors.As(err, &discardErr) {
			uc.logger.Warn("UpdateTemplate: provider=%d, %d claim(s) need confirmation", req.ProviderID, discardErr.DiscardedClaims)
			return nil, &ConfirmationRequiredError{DiscardedClaims: discardErr.DiscardedClaims}
		}
		uc.logger.Error("UpdateTemplate: failed to replace template for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to replace template: %v", ErrInternal, err)
	}

	uc.logger.Info("UpdateTemplate: provider=%d now at generation=%d with %d slot(s)",
		req.ProviderID, result.Provider.Generation, len(result.Slots))

	return toResponse(result, uc.ledger.SlotDuration()), nil
}

func toResponse(result *ledger.ReplaceResult, slotDuration int) *Response {
	template := make([]TemplateEntry, 0, len(result.Provider.Template))
	for _, e := range result.Provider.Template {
		template = append(template, TemplateEntry{
			Day:             string(e.Day),
			StartTime:       e.StartTime.String(),
			EndTime:         e.EndTime.String(),
			CapacityPerSlot: e.CapacityPerSlot,
		})
	}

	slots := make([]Slot, 0, len(result.Slots))
	for _, s := range result.Slots {
		end, err := schedule.EndTime(s.Time, slotDuration)
		if err != nil {
			end = s.Time
		}
		slots = append(slots, Slot{
			Date:           types.FormatDate(s.Date),
			StartTime:      s.Time.String(),
			EndTime:        end.String(),
			SlotIndex:      s.SlotIndex,
			Capacity:       s.Capacity,
			AvailableSpots: s.AvailableSpots(),
		})
	}

	return &Response{
		ProviderID:       result.Provider.ID,
		ClinicLocation:   result.Provider.ClinicLocation,
		Generation:       result.Provider.Generation,
		Template:         template,
		RegeneratedSlots: slots,
		CarriedClaims:    result.CarriedClaims,
		DiscardedClaims:  result.DiscardedClaims,
	}
}
