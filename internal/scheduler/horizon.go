package scheduler

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Ledger журнал слотов врача
type Ledger interface {
	Providers(ctx context.Context) ([]*domain.Provider, error)
	ExtendHorizon(ctx context.Context, providerID int64, rangeStart, rangeEnd time.Time) (int, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time { return time.Now() }

// HorizonExtender дописывает слоты всех врачей до конца скользящего горизонта
type HorizonExtender struct {
	ledger       Ledger
	location     *time.Location
	horizonDays  int
	timeProvider TimeProvider
	logger       Logger
}

// NewHorizonExtender создает задачу продления горизонта
func NewHorizonExtender(ledger Ledger, location *time.Location, horizonDays int, logger Logger) *HorizonExtender {
	return &HorizonExtender{
		ledger:       ledger,
		location:     location,
		horizonDays:  horizonDays,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// Run продлевает горизонт каждого врача. Ошибка одного врача не останавливает остальных.
// Возвращает количество добавленных слотов и врачей, обработанных с ошибкой.
func (h *HorizonExtender) Run(ctx context.Context) (appended int, failed int) {
	rangeStart, rangeEnd := schedule.Horizon(h.timeProvider.Now(), h.location, h.horizonDays)

	providers, err := h.ledger.Providers(ctx)
	if err != nil {
		h.logger.Error("HorizonExtender: failed to get providers: %v", err)
		return 0, 0
	}

	for _, p := range providers {
		if ctx.Err() != nil {
			h.logger.Warn("HorizonExtender: interrupted: %v", ctx.Err())
			return appended, failed
		}

		n, err := h.ledger.ExtendHorizon(ctx, p.ID, rangeStart, rangeEnd)
		if err != nil {
			h.logger.Error("HorizonExtender: provider=%d: %v", p.ID, err)
			failed++
			continue
		}
		appended += n
	}

	h.logger.Info("HorizonExtender: horizon %s..%s, providers=%d, appended=%d, failed=%d",
		types.FormatDate(rangeStart), types.FormatDate(rangeEnd), len(providers), appended, failed)
	return appended, failed
}

// Task задача для планировщика
func (h *HorizonExtender) Task(ctx context.Context) func() {
	return func() {
		h.Run(ctx)
	}
}
