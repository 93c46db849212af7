package ledger

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	providerRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/provider"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// memStore хранилище в памяти. Репозитории отдают копии, как это делает БД.
type memStore struct {
	mu        sync.Mutex
	providers map[int64]*domain.Provider
	slots     map[int64][]*domain.SlotRecord
	bookings  map[uuid.UUID]*domain.BookingRecord
}

func newMemStore() *memStore {
	return &memStore{
		providers: make(map[int64]*domain.Provider),
		slots:     make(map[int64][]*domain.SlotRecord),
		bookings:  make(map[uuid.UUID]*domain.BookingRecord),
	}
}

func copySlot(s *domain.SlotRecord) *domain.SlotRecord {
	c := *s
	c.Claimants = append([]int64{}, s.Claimants...)
	return &c
}

func copyProvider(p *domain.Provider) *domain.Provider {
	c := *p
	c.Template = append([]domain.WeeklyTemplateEntry{}, p.Template...)
	return &c
}

func copyBooking(b *domain.BookingRecord) *domain.BookingRecord {
	c := *b
	return &c
}

type snapshot struct {
	providers map[int64]*domain.Provider
	slots     map[int64][]*domain.SlotRecord
	bookings  map[uuid.UUID]*domain.BookingRecord
}

func (m *memStore) snapshot() snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := snapshot{
		providers: make(map[int64]*domain.Provider, len(m.providers)),
		slots:     make(map[int64][]*domain.SlotRecord, len(m.slots)),
		bookings:  make(map[uuid.UUID]*domain.BookingRecord, len(m.bookings)),
	}
	for id, p := range m.providers {
		snap.providers[id] = copyProvider(p)
	}
	for id, list := range m.slots {
		for _, s := range list {
			snap.slots[id] = append(snap.slots[id], copySlot(s))
		}
	}
	for id, b := range m.bookings {
		snap.bookings[id] = copyBooking(b)
	}
	return snap
}

func (m *memStore) restore(snap snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers = snap.providers
	m.slots = snap.slots
	m.bookings = snap.bookings
}

// fakeTxManager откатывает хранилище при ошибке. Изоляции между транзакциями нет:
// параллельные вызовы упорядочивает только сам журнал.
type fakeTxManager struct {
	store         *memStore
	calls         atomic.Int64
	readOnlyCalls atomic.Int64
}

func (f *fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	f.readOnlyCalls.Add(1)
	return fn(ctx)
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls.Add(1)

	snap := f.store.snapshot()
	if err := fn(ctx); err != nil {
		f.store.restore(snap)
		return err
	}
	return nil
}

type fakeProviderRepo struct {
	store *memStore
	err   error
}

func (r *fakeProviderRepo) GetByID(ctx context.Context, id int64) (*domain.Provider, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.store.providers[id]
	if !ok {
		return nil, providerRepo.ErrProviderNotFound
	}
	return copyProvider(p), nil
}

func (r *fakeProviderRepo) GetAll(ctx context.Context) ([]*domain.Provider, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	result := make([]*domain.Provider, 0)
	for _, p := range r.store.providers {
		if p.HasTemplate() {
			result = append(result, copyProvider(p))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeProviderRepo) Save(ctx context.Context, p *domain.Provider) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.providers[p.ID] = copyProvider(p)
	return nil
}

type fakeSlotRepo struct {
	store *memStore
	// failUpdate заставляет UpdateClaimants вернуть ошибку
	failUpdate error
}

func (r *fakeSlotRepo) GetByProvider(ctx context.Context, providerID int64, from time.Time) ([]*domain.SlotRecord, error) {
	defer runtime.Gosched()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	result := make([]*domain.SlotRecord, 0)
	for _, s := range r.store.slots[providerID] {
		if !s.Date.Before(from) {
			result = append(result, copySlot(s))
		}
	}
	sortSlots(result)
	return result, nil
}

func (r *fakeSlotRepo) GetByDate(ctx context.Context, providerID int64, date time.Time) ([]*domain.SlotRecord, error) {
	defer runtime.Gosched()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	result := make([]*domain.SlotRecord, 0)
	for _, s := range r.store.slots[providerID] {
		if s.Date.Equal(date) {
			result = append(result, copySlot(s))
		}
	}
	sortSlots(result)
	return result, nil
}

func (r *fakeSlotRepo) LastDate(ctx context.Context, providerID int64) (*time.Time, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var last *time.Time
	for _, s := range r.store.slots[providerID] {
		if last == nil || s.Date.After(*last) {
			d := s.Date
			last = &d
		}
	}
	return last, nil
}

func (r *fakeSlotRepo) ReplaceFrom(ctx context.Context, providerID int64, from time.Time, slots []*domain.SlotRecord) error {
	r.store.mu.Lock()
	kept := make([]*domain.SlotRecord, 0)
	for _, s := range r.store.slots[providerID] {
		if s.Date.Before(from) {
			kept = append(kept, s)
		}
	}
	r.store.slots[providerID] = kept
	r.store.mu.Unlock()
	return r.Append(ctx, slots)
}

func (r *fakeSlotRepo) Append(ctx context.Context, slots []*domain.SlotRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, s := range slots {
		r.store.slots[s.ProviderID] = append(r.store.slots[s.ProviderID], copySlot(s))
	}
	return nil
}

func (r *fakeSlotRepo) UpdateClaimants(ctx context.Context, slot *domain.SlotRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.failUpdate != nil {
		return r.failUpdate
	}
	for _, s := range r.store.slots[slot.ProviderID] {
		if s.SameSlot(slot.Date, slot.Time) {
			s.Claimants = append([]int64{}, slot.Claimants...)
			return nil
		}
	}
	return slotRepo.ErrSlotNotFound
}

type fakeBookingRepo struct {
	store *memStore
	// failCreate заставляет Create вернуть ошибку
	failCreate error
}

func (r *fakeBookingRepo) Create(ctx context.Context, b *domain.BookingRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	for _, existing := range r.store.bookings {
		if !existing.Stale && existing.PatientID == b.PatientID && existing.ProviderID == b.ProviderID &&
			existing.Date.Equal(b.Date) && existing.Time == b.Time {
			return bookingRepo.ErrDuplicateBooking
		}
	}
	r.store.bookings[b.ID] = copyBooking(b)
	return nil
}

func (r *fakeBookingRepo) GetActiveBySlot(ctx context.Context, patientID, providerID int64, date time.Time, t types.TimeString) (*domain.BookingRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, b := range r.store.bookings {
		if !b.Stale && b.PatientID == patientID && b.ProviderID == providerID && b.Date.Equal(date) && b.Time == t {
			return copyBooking(b), nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (r *fakeBookingRepo) GetByPatient(ctx context.Context, patientID int64, activeOnly bool) ([]*domain.BookingRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	result := make([]*domain.BookingRecord, 0)
	for _, b := range r.store.bookings {
		if b.PatientID != patientID || (activeOnly && b.Stale) {
			continue
		}
		result = append(result, copyBooking(b))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].Time.IsBefore(result[j].Time)
	})
	return result, nil
}

func (r *fakeBookingRepo) GetByProvider(ctx context.Context, providerID int64, date *time.Time, activeOnly bool) ([]*domain.BookingRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	result := make([]*domain.BookingRecord, 0)
	for _, b := range r.store.bookings {
		if b.ProviderID != providerID || (activeOnly && b.Stale) {
			continue
		}
		if date != nil && !b.Date.Equal(*date) {
			continue
		}
		result = append(result, copyBooking(b))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		if result[i].Time != result[j].Time {
			return result[i].Time.IsBefore(result[j].Time)
		}
		return result[i].ClaimOrder < result[j].ClaimOrder
	})
	return result, nil
}

func (r *fakeBookingRepo) UpdateClaimOrder(ctx context.Context, id uuid.UUID, claimOrder int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.ClaimOrder = claimOrder
	return nil
}

func (r *fakeBookingRepo) UpdateGeneration(ctx context.Context, id uuid.UUID, generation int64, capacity int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Generation = generation
	b.Capacity = capacity
	return nil
}

func (r *fakeBookingRepo) MarkStale(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Stale = true
	return nil
}

func (r *fakeBookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	delete(r.store.bookings, id)
	return nil
}

func sortSlots(slots []*domain.SlotRecord) {
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].Date.Equal(slots[j].Date) {
			return slots[i].Date.Before(slots[j].Date)
		}
		return slots[i].Time.IsBefore(slots[j].Time)
	})
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type recordingMetrics struct {
	mu        sync.Mutex
	claims    map[string]int
	regens    int
	discarded int
	appended  int
}

func (m *recordingMetrics) RecordClaim(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claims == nil {
		m.claims = make(map[string]int)
	}
	m.claims[result]++
}

func (m *recordingMetrics) RecordRegeneration(discarded int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regens++
	m.discarded += discarded
}

func (m *recordingMetrics) RecordHorizonExtension(appended int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appended += appended
}
