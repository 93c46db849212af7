package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ProviderRepository интерфейс репозитория врачей
type ProviderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
	GetAll(ctx context.Context) ([]*domain.Provider, error)
	Save(ctx context.Context, p *domain.Provider) error
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByProvider(ctx context.Context, providerID int64, from time.Time) ([]*domain.SlotRecord, error)
	GetByDate(ctx context.Context, providerID int64, date time.Time) ([]*domain.SlotRecord, error)
	LastDate(ctx context.Context, providerID int64) (*time.Time, error)
	ReplaceFrom(ctx context.Context, providerID int64, from time.Time, slots []*domain.SlotRecord) error
	Append(ctx context.Context, slots []*domain.SlotRecord) error
	UpdateClaimants(ctx context.Context, slot *domain.SlotRecord) error
}

// BookingRepository интерфейс репозитория записей пациентов
type BookingRepository interface {
	Create(ctx context.Context, b *domain.BookingRecord) error
	GetActiveBySlot(ctx context.Context, patientID, providerID int64, date time.Time, t types.TimeString) (*domain.BookingRecord, error)
	GetByPatient(ctx context.Context, patientID int64, activeOnly bool) ([]*domain.BookingRecord, error)
	GetByProvider(ctx context.Context, providerID int64, date *time.Time, activeOnly bool) ([]*domain.BookingRecord, error)
	UpdateClaimOrder(ctx context.Context, id uuid.UUID, claimOrder int) error
	UpdateGeneration(ctx context.Context, id uuid.UUID, generation int64, capacity int) error
	MarkStale(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Expander разворачивает недельный шаблон в слоты
type Expander interface {
	Expand(entries []domain.WeeklyTemplateEntry, rangeStart, rangeEnd time.Time) []*domain.SlotRecord
	SlotDuration() int
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics доменные метрики
type Metrics interface {
	RecordClaim(result string)
	RecordRegeneration(discardedClaims int)
	RecordHorizonExtension(appended int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
