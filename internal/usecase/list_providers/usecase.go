package list_providers

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case для получения списка врачей со свободными слотами
type UseCase struct {
	ledger       Ledger
	userClient   UserServiceClient
	location     *time.Location
	maxParallel  int
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// maxParallel ограничивает число одновременно обрабатываемых врачей.
func NewUseCase(
	ledger Ledger,
	userClient UserServiceClient,
	location *time.Location,
	maxParallel int,
	logger Logger,
) *UseCase {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &UseCase{
		ledger:       ledger,
		userClient:   userClient,
		location:     location,
		maxParallel:  maxParallel,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case.
// Профили запрашиваются из UserService параллельно; ошибка профиля не прерывает
// выдачу, врач возвращается без отображаемых полей.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ListProviders: user=%d, role=%s", req.UserID, req.Role)

	if !req.Role.IsViewer() {
		uc.logger.Warn("ListProviders: access denied for user=%d with role=%s", req.UserID, req.Role)
		return nil, ErrAccessDenied
	}

	providers, err := uc.ledger.Providers(ctx)
	if err != nil {
		uc.logger.Error("ListProviders: failed to get providers: %v", err)
		return nil, fmt.Errorf("%w: failed to get providers: %v", ErrInternal, err)
	}

	today := schedule.Today(uc.timeProvider.Now(), uc.location)
	slotDuration := uc.ledger.SlotDuration()
	result := make([]Provider, len(providers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.maxParallel)

	for i, p := range providers {
		g.Go(func() error {
			slots, err := uc.ledger.ListAvailable(gctx, p.ID, today)
			if err != nil {
				return fmt.Errorf("provider=%d: %w", p.ID, err)
			}

			view := toProvider(p, slots, slotDuration)

			user, err := uc.userClient.GetUserWithGracefulDegradation(gctx, p.ID)
			if err != nil {
				uc.logger.Warn("ListProviders: profile of provider=%d unavailable: %v", p.ID, err)
				view.ProfileDegraded = true
			} else {
				applyProfile(&view, user)
			}

			result[i] = view
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		uc.logger.Error("ListProviders: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	uc.logger.Info("ListProviders: returned %d providers", len(result))
	return &Response{Providers: result}, nil
}

func toProvider(p *domain.Provider, slots []*domain.SlotRecord, slotDuration int) Provider {
	template := make([]TemplateEntry, 0, len(p.Template))
	for _, e := range p.Template {
		template = append(template, TemplateEntry{
			Day:             string(e.Day),
			StartTime:       e.StartTime.String(),
			EndTime:         e.EndTime.String(),
			CapacityPerSlot: e.CapacityPerSlot,
		})
	}

	views := make([]Slot, 0, len(slots))
	for _, s := range slots {
		end, err := schedule.EndTime(s.Time, slotDuration)
		if err != nil {
			continue
		}
		views = append(views, Slot{
			Date:           types.FormatDate(s.Date),
			StartTime:      s.Time.String(),
			EndTime:        end.String(),
			SlotIndex:      s.SlotIndex,
			Capacity:       s.Capacity,
			AvailableSpots: s.AvailableSpots(),
		})
	}

	return Provider{
		ProviderID:     p.ID,
		ClinicLocation: p.ClinicLocation,
		Template:       template,
		Slots:          views,
	}
}

// applyProfile дополняет врача данными профиля. Место приема из шаблона приоритетнее.
func applyProfile(view *Provider, user *userservice.User) {
	view.Username = user.Username
	view.Avatar = user.Avatar
	if view.ClinicLocation == nil {
		view.ClinicLocation = user.ClinicLocation
	}
}
