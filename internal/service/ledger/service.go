package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	providerRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/provider"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Service журнал слотов и записей пациентов.
//
// Все изменения слотов одного врача выполняются под мьютексом врача и внутри
// SERIALIZABLE транзакции с блокировкой строк (FOR UPDATE): мьютекс упорядочивает
// запросы внутри процесса, транзакция защищает от других экземпляров сервиса.
// Операции разных врачей выполняются параллельно.
type Service struct {
	providerRepo ProviderRepository
	slotRepo     SlotRepository
	bookingRepo  BookingRepository
	expander     Expander
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
	locks        *providerLocks
}

// NewService создает новый экземпляр журнала. metrics может быть nil
func NewService(
	providerRepo ProviderRepository,
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	expander Expander,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Service {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{
		providerRepo: providerRepo,
		slotRepo:     slotRepo,
		bookingRepo:  bookingRepo,
		expander:     expander,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		locks:        newProviderLocks(),
	}
}

// SlotDuration длительность слота в минутах
func (s *Service) SlotDuration() int {
	return s.expander.SlotDuration()
}

// ListAvailable возвращает слоты врача со свободными местами начиная с даты asOf,
// упорядоченные по дате и времени
func (s *Service) ListAvailable(ctx context.Context, providerID int64, asOf time.Time) ([]*domain.SlotRecord, error) {
	var slots []*domain.SlotRecord

	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		if _, err := s.getProvider(txCtx, providerID); err != nil {
			return err
		}

		var err error
		slots, err = s.slotRepo.GetByProvider(txCtx, providerID, types.DateOf(asOf))
		if err != nil {
			s.logger.Error("ListAvailable: failed to get slots for provider=%d: %v", providerID, err)
			return fmt.Errorf("%w: ListAvailable - get slots: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	available := make([]*domain.SlotRecord, 0, len(slots))
	for _, slot := range slots {
		if !slot.IsFull() {
			available = append(available, slot)
		}
	}

	return available, nil
}

// ClaimSlot записывает пациента в слот врача.
// Проверка на повторную запись выполняется раньше проверки заполненности.
// Запись в слот и запись пациента создаются в одной транзакции.
func (s *Service) ClaimSlot(ctx context.Context, patientID, providerID int64, date time.Time, t types.TimeString) (*ClaimResult, error) {
	date = types.DateOf(date)
	s.logger.Info("ClaimSlot: patient=%d, provider=%d, date=%s, time=%s",
		patientID, providerID, types.FormatDate(date), t)

	unlock := s.locks.Lock(providerID)
	defer unlock()

	var result *ClaimResult

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		result = nil

		provider, err := s.getProvider(txCtx, providerID)
		if err != nil {
			return err
		}

		daySlots, err := s.slotRepo.GetByDate(txCtx, providerID, date)
		if err != nil {
			return fmt.Errorf("%w: ClaimSlot - get slots: %w", ErrInternal, err)
		}

		slot := findSlot(daySlots, t)
		if slot == nil {
			return ErrSlotNotFound
		}
		if slot.HasClaimant(patientID) {
			return ErrDuplicateClaim
		}
		if slot.IsFull() {
			return ErrSlotFull
		}

		// Очередь пациента среди всех записей врача на эту дату
		patientOrder := countClaims(daySlots) + 1

		slot.Claimants = append(slot.Claimants, patientID)
		if err := s.slotRepo.UpdateClaimants(txCtx, slot); err != nil {
			return fmt.Errorf("%w: ClaimSlot - update claimants: %w", ErrInternal, err)
		}

		endTime, err := t.AddMinutes(s.expander.SlotDuration())
		if err != nil {
			return fmt.Errorf("%w: ClaimSlot - compute end time: %w", ErrInternal, err)
		}

		booking := &domain.BookingRecord{
			ID:           uuid.New(),
			PatientID:    patientID,
			ProviderID:   providerID,
			Generation:   slot.Generation,
			Date:         date,
			Time:         t,
			ClaimOrder:   len(slot.Claimants),
			PatientOrder: patientOrder,
			Capacity:     slot.Capacity,
			CreatedAt:    s.timeProvider.Now(),
		}

		if err := s.bookingRepo.Create(txCtx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrDuplicateBooking) {
				return ErrDuplicateClaim
			}
			return fmt.Errorf("%w: ClaimSlot - create booking: %w", ErrInternal, err)
		}

		result = &ClaimResult{Provider: provider, Booking: booking, Slot: slot, EndTime: endTime}
		return nil
	})

	s.metrics.RecordClaim(claimResultLabel(err))

	if err != nil {
		s.logClaimError("ClaimSlot", patientID, providerID, err)
		return nil, err
	}

	s.logger.Info("ClaimSlot: booking id=%s created, claimOrder=%d/%d, patientOrder=%d",
		result.Booking.ID, result.Booking.ClaimOrder, result.Booking.Capacity, result.Booking.PatientOrder)
	return result, nil
}

// ReleaseSlot освобождает место пациента в слоте и удаляет его запись.
// Пациенты после освобожденного места сдвигаются вперед, их ClaimOrder пересчитывается.
func (s *Service) ReleaseSlot(ctx context.Context, patientID, providerID int64, date time.Time, t types.TimeString) error {
	date = types.DateOf(date)
	s.logger.Info("ReleaseSlot: patient=%d, provider=%d, date=%s, time=%s",
		patientID, providerID, types.FormatDate(date), t)

	unlock := s.locks.Lock(providerID)
	defer unlock()

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if _, err := s.getProvider(txCtx, providerID); err != nil {
			return err
		}

		daySlots, err := s.slotRepo.GetByDate(txCtx, providerID, date)
		if err != nil {
			return fmt.Errorf("%w: ReleaseSlot - get slots: %w", ErrInternal, err)
		}

		slot := findSlot(daySlots, t)
		if slot == nil {
			return ErrSlotNotFound
		}

		pos := slot.ClaimantPosition(patientID)
		if pos == 0 {
			return ErrClaimNotFound
		}

		remaining := make([]int64, 0, len(slot.Claimants)-1)
		remaining = append(remaining, slot.Claimants[:pos-1]...)
		remaining = append(remaining, slot.Claimants[pos:]...)
		slot.Claimants = remaining

		if err := s.slotRepo.UpdateClaimants(txCtx, slot); err != nil {
			return fmt.Errorf("%w: ReleaseSlot - update claimants: %w", ErrInternal, err)
		}

		booking, err := s.bookingRepo.GetActiveBySlot(txCtx, patientID, providerID, date, t)
		switch {
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			s.logger.Warn("ReleaseSlot: no booking record for patient=%d on %s %s", patientID, types.FormatDate(date), t)
		case err != nil:
			return fmt.Errorf("%w: ReleaseSlot - get booking: %w", ErrInternal, err)
		default:
			if err := s.bookingRepo.Delete(txCtx, booking.ID); err != nil {
				return fmt.Errorf("%w: ReleaseSlot - delete booking: %w", ErrInternal, err)
			}
		}

		for i := pos - 1; i < len(slot.Claimants); i++ {
			if err := s.renumber(txCtx, slot.Claimants[i], providerID, date, t, i+1); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		s.logClaimError("ReleaseSlot", patientID, providerID, err)
		return err
	}

	s.logger.Info("ReleaseSlot: patient=%d released %s %s at provider=%d",
		patientID, types.FormatDate(date), t, providerID)
	return nil
}

// ReplaceTemplate заменяет шаблон врача и перегенерирует слоты с даты RangeStart.
//
// Новый набор слотов получает следующее поколение и целиком заменяет прежние слоты
// диапазона. Записи, для которых в новом наборе есть слот с той же датой и временем
// и свободное место, переносятся в порядке записи, их BookingRecord переходят
// в новое поколение. Остальные записи теряются: их
// BookingRecord помечаются stale. Если такие записи есть, а ConfirmDiscard не указан,
// возвращается DiscardError и ничего не меняется.
func (s *Service) ReplaceTemplate(ctx context.Context, req ReplaceRequest) (*ReplaceResult, error) {
	rangeStart := types.DateOf(req.RangeStart)
	rangeEnd := types.DateOf(req.RangeEnd)
	s.logger.Info("ReplaceTemplate: provider=%d, entries=%d, range=%s..%s, confirmDiscard=%t",
		req.ProviderID, len(req.Entries), types.FormatDate(rangeStart), types.FormatDate(rangeEnd), req.ConfirmDiscard)

	unlock := s.locks.Lock(req.ProviderID)
	defer unlock()

	var result *ReplaceResult

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		result = nil

		provider, err := s.providerRepo.GetByID(txCtx, req.ProviderID)
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			provider = &domain.Provider{ID: req.ProviderID}
		} else if err != nil {
			return fmt.Errorf("%w: ReplaceTemplate - get provider: %w", ErrInternal, err)
		}

		existing, err := s.slotRepo.GetByProvider(txCtx, req.ProviderID, rangeStart)
		if err != nil {
			return fmt.Errorf("%w: ReplaceTemplate - get slots: %w", ErrInternal, err)
		}

		generation := provider.Generation + 1
		slots := s.expander.Expand(req.Entries, rangeStart, rangeEnd)
		for _, slot := range slots {
			slot.ProviderID = req.ProviderID
			slot.Generation = generation
		}

		carried, discarded := carryOver(existing, slots)
		if len(discarded) > 0 && !req.ConfirmDiscard {
			return &DiscardError{DiscardedClaims: len(discarded)}
		}

		provider.Template = req.Entries
		provider.Generation = generation
		provider.UpdatedAt = s.timeProvider.Now()
		if req.ClinicLocation != nil {
			provider.ClinicLocation = req.ClinicLocation
		}

		if err := s.providerRepo.Save(txCtx, provider); err != nil {
			return fmt.Errorf("%w: ReplaceTemplate - save provider: %w", ErrInternal, err)
		}

		if err := s.slotRepo.ReplaceFrom(txCtx, req.ProviderID, rangeStart, slots); err != nil {
			return fmt.Errorf("%w: ReplaceTemplate - replace slots: %w", ErrInternal, err)
		}

		for _, claim := range carried {
			booking, err := s.activeBooking(txCtx, req.ProviderID, claim)
			if err != nil {
				return err
			}
			if booking == nil || (booking.Generation == generation && booking.Capacity == claim.Capacity) {
				continue
			}
			if err := s.bookingRepo.UpdateGeneration(txCtx, booking.ID, generation, claim.Capacity); err != nil {
				return fmt.Errorf("%w: ReplaceTemplate - move booking to generation: %w", ErrInternal, err)
			}
		}

		for _, claim := range discarded {
			booking, err := s.activeBooking(txCtx, req.ProviderID, claim)
			if err != nil {
				return err
			}
			if booking == nil {
				continue
			}
			if err := s.bookingRepo.MarkStale(txCtx, booking.ID); err != nil {
				return fmt.Errorf("%w: ReplaceTemplate - mark booking stale: %w", ErrInternal, err)
			}
		}

		result = &ReplaceResult{
			Provider:        provider,
			Slots:           slots,
			CarriedClaims:   len(carried),
			DiscardedClaims: len(discarded),
		}
		return nil
	})

	if err != nil {
		var discardErr *DiscardError
		if errors.As(err, &discardErr) {
			s.logger.Warn("ReplaceTemplate: provider=%d, %d claim(s) would be discarded, confirmation required",
				req.ProviderID, discardErr.DiscardedClaims)
			return nil, err
		}
		s.logger.Error("ReplaceTemplate: provider=%d: %v", req.ProviderID, err)
		return nil, err
	}

	s.metrics.RecordRegeneration(result.DiscardedClaims)
	s.logger.Info("ReplaceTemplate: provider=%d regenerated to generation=%d, slots=%d, carried=%d, discarded=%d",
		req.ProviderID, result.Provider.Generation, len(result.Slots), result.CarriedClaims, result.DiscardedClaims)
	return result, nil
}

// ExtendHorizon дописывает слоты на даты после последней сгенерированной до rangeEnd
// по текущему шаблону и поколению. Существующие слоты не меняются.
// Возвращает количество добавленных слотов.
func (s *Service) ExtendHorizon(ctx context.Context, providerID int64, rangeStart, rangeEnd time.Time) (int, error) {
	rangeEnd = types.DateOf(rangeEnd)

	unlock := s.locks.Lock(providerID)
	defer unlock()

	appended := 0

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appended = 0

		provider, err := s.getProvider(txCtx, providerID)
		if err != nil {
			return err
		}
		if !provider.HasTemplate() {
			return nil
		}

		from := types.DateOf(rangeStart)
		last, err := s.slotRepo.LastDate(txCtx, providerID)
		if err != nil {
			return fmt.Errorf("%w: ExtendHorizon - get last date: %w", ErrInternal, err)
		}
		if last != nil && !last.Before(from) {
			from = types.AddDays(*last, 1)
		}
		if from.After(rangeEnd) {
			return nil
		}

		slots := s.expander.Expand(provider.Template, from, rangeEnd)
		if len(slots) == 0 {
			return nil
		}
		for _, slot := range slots {
			slot.ProviderID = providerID
			slot.Generation = provider.Generation
		}

		if err := s.slotRepo.Append(txCtx, slots); err != nil {
			return fmt.Errorf("%w: ExtendHorizon - append slots: %w", ErrInternal, err)
		}

		appended = len(slots)
		return nil
	})

	if err != nil {
		s.logger.Error("ExtendHorizon: provider=%d: %v", providerID, err)
		return 0, err
	}

	s.metrics.RecordHorizonExtension(appended)
	if appended > 0 {
		s.logger.Info("ExtendHorizon: provider=%d, appended %d slot(s) up to %s",
			providerID, appended, types.FormatDate(rangeEnd))
	}
	return appended, nil
}

// PatientBookings возвращает записи пациента
func (s *Service) PatientBookings(ctx context.Context, patientID int64, activeOnly bool) ([]*domain.BookingRecord, error) {
	bookings, err := s.bookingRepo.GetByPatient(ctx, patientID, activeOnly)
	if err != nil {
		s.logger.Error("PatientBookings: patient=%d: %v", patientID, err)
		return nil, fmt.Errorf("%w: PatientBookings - repository error: %w", ErrInternal, err)
	}
	return bookings, nil
}

// ProviderBookings возвращает записи к врачу, опционально за одну дату
func (s *Service) ProviderBookings(ctx context.Context, providerID int64, date *time.Time, activeOnly bool) ([]*domain.BookingRecord, error) {
	var day *time.Time
	if date != nil {
		d := types.DateOf(*date)
		day = &d
	}

	var bookings []*domain.BookingRecord

	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		if _, err := s.getProvider(txCtx, providerID); err != nil {
			return err
		}

		var err error
		bookings, err = s.bookingRepo.GetByProvider(txCtx, providerID, day, activeOnly)
		if err != nil {
			s.logger.Error("ProviderBookings: provider=%d: %v", providerID, err)
			return fmt.Errorf("%w: ProviderBookings - repository error: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// Providers возвращает всех врачей с заполненным шаблоном
func (s *Service) Providers(ctx context.Context) ([]*domain.Provider, error) {
	providers, err := s.providerRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error("Providers: repository error: %v", err)
		return nil, fmt.Errorf("%w: Providers - repository error: %w", ErrInternal, err)
	}
	return providers, nil
}

func (s *Service) getProvider(ctx context.Context, providerID int64) (*domain.Provider, error) {
	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("%w: get provider: %w", ErrInternal, err)
	}
	return provider, nil
}

// activeBooking действующая запись пациента на слот, nil если записи нет
func (s *Service) activeBooking(ctx context.Context, providerID int64, claim claimRef) (*domain.BookingRecord, error) {
	booking, err := s.bookingRepo.GetActiveBySlot(ctx, claim.PatientID, providerID, claim.Date, claim.Time)
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		s.logger.Warn("ReplaceTemplate: no booking record for patient=%d on %s %s",
			claim.PatientID, types.FormatDate(claim.Date), claim.Time)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceTemplate - get booking: %w", ErrInternal, err)
	}
	return booking, nil
}

// renumber выставляет ClaimOrder записи пациента по его новой позиции в слоте
func (s *Service) renumber(ctx context.Context, patientID, providerID int64, date time.Time, t types.TimeString, claimOrder int) error {
	booking, err := s.bookingRepo.GetActiveBySlot(ctx, patientID, providerID, date, t)
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		s.logger.Warn("ReleaseSlot: no booking record to renumber for patient=%d", patientID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: ReleaseSlot - get booking to renumber: %w", ErrInternal, err)
	}
	if booking.ClaimOrder == claimOrder {
		return nil
	}
	if err := s.bookingRepo.UpdateClaimOrder(ctx, booking.ID, claimOrder); err != nil {
		return fmt.Errorf("%w: ReleaseSlot - update claim order: %w", ErrInternal, err)
	}
	return nil
}

func (s *Service) logClaimError(op string, patientID, providerID int64, err error) {
	switch {
	case errors.Is(err, ErrInternal):
		s.logger.Error("%s: patient=%d, provider=%d: %v", op, patientID, providerID, err)
	default:
		s.logger.Warn("%s: patient=%d, provider=%d: %v", op, patientID, providerID, err)
	}
}

// findSlot ищет слот по времени начала
func findSlot(slots []*domain.SlotRecord, t types.TimeString) *domain.SlotRecord {
	for _, slot := range slots {
		if slot.Time == t {
			return slot
		}
	}
	return nil
}

// countClaims количество записанных пациентов во всех слотах
func countClaims(slots []*domain.SlotRecord) int {
	total := 0
	for _, slot := range slots {
		total += len(slot.Claimants)
	}
	return total
}

// carryOver переносит записи старых слотов в новые с той же датой и временем.
// Пациенты сверх вместимости нового слота и записи без соответствующего слота
// возвращаются как потерянные.
func carryOver(existing, fresh []*domain.SlotRecord) (carried, discarded []claimRef) {
	type slotKey struct {
		date string
		time types.TimeString
	}

	index := make(map[slotKey]*domain.SlotRecord, len(fresh))
	for _, slot := range fresh {
		index[slotKey{types.FormatDate(slot.Date), slot.Time}] = slot
	}

	carried = make([]claimRef, 0)
	discarded = make([]claimRef, 0)

	for _, old := range existing {
		if len(old.Claimants) == 0 {
			continue
		}

		keep := 0
		if target, ok := index[slotKey{types.FormatDate(old.Date), old.Time}]; ok {
			keep = len(old.Claimants)
			if keep > target.Capacity {
				keep = target.Capacity
			}
			target.Claimants = append([]int64{}, old.Claimants[:keep]...)
			for _, patientID := range target.Claimants {
				carried = append(carried, claimRef{PatientID: patientID, Date: old.Date, Time: old.Time, Capacity: target.Capacity})
			}
		}

		for _, patientID := range old.Claimants[keep:] {
			discarded = append(discarded, claimRef{PatientID: patientID, Date: old.Date, Time: old.Time})
		}
	}

	return carried, discarded
}

func claimResultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ClaimResultSuccess
	case errors.Is(err, ErrSlotFull):
		return metrics.ClaimResultFull
	case errors.Is(err, ErrDuplicateClaim):
		return metrics.ClaimResultDuplicate
	case errors.Is(err, ErrSlotNotFound), errors.Is(err, ErrProviderNotFound):
		return metrics.ClaimResultNotFound
	default:
		return metrics.ClaimResultError
	}
}

type noopMetrics struct{}

func (noopMetrics) RecordClaim(string)         {}
func (noopMetrics) RecordRegeneration(int)     {}
func (noopMetrics) RecordHorizonExtension(int) {}
