package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const providerID int64 = 42

// 2025-03-10 is a Monday
var (
	monday  = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	tuesday = types.AddDays(monday, 1)
)

type testEnv struct {
	store    *memStore
	svc      *Service
	slots    *fakeSlotRepo
	bookings *fakeBookingRepo
	tx       *fakeTxManager
	metrics  *recordingMetrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newMemStore()
	env := &testEnv{
		store:    store,
		slots:    &fakeSlotRepo{store: store},
		bookings: &fakeBookingRepo{store: store},
		tx:       &fakeTxManager{store: store},
		metrics:  &recordingMetrics{},
	}
	env.svc = NewService(
		&fakeProviderRepo{store: store},
		env.slots,
		env.bookings,
		schedule.NewExpander(50),
		env.tx,
		env.metrics,
		nopLogger{},
	)
	env.svc.timeProvider = &fixedTimeProvider{now: monday.Add(8 * time.Hour)}
	return env
}

// setTemplate заменяет шаблон врача на неделю начиная с понедельника
func (e *testEnv) setTemplate(t *testing.T, confirm bool, entries ...domain.WeeklyTemplateEntry) *ReplaceResult {
	t.Helper()
	result, err := e.svc.ReplaceTemplate(context.Background(), ReplaceRequest{
		ProviderID:     providerID,
		Entries:        entries,
		ConfirmDiscard: confirm,
		RangeStart:     monday,
		RangeEnd:       types.AddDays(monday, 6),
	})
	require.NoError(t, err)
	return result
}

func (e *testEnv) slotAt(t *testing.T, date time.Time, at types.TimeString) *domain.SlotRecord {
	t.Helper()
	slots, err := e.slots.GetByDate(context.Background(), providerID, date)
	require.NoError(t, err)
	slot := findSlot(slots, at)
	require.NotNil(t, slot, "slot %s %s", types.FormatDate(date), at)
	return slot
}

func mondayEntry(start, end types.TimeString, capacity int) domain.WeeklyTemplateEntry {
	return domain.WeeklyTemplateEntry{Day: domain.Monday, StartTime: start, EndTime: end, CapacityPerSlot: capacity}
}

func TestClaimSlot_Success(t *testing.T) {
	env := newTestEnv(t)
	env.setTemplate(t, false, mondayEntry("09:00", "10:00", 2))

	result, err := env.svc.ClaimSlot(context.Background(), 1, providerID, monday, "09:00")

	require.NoError(t, err)
	assert.Equal(t, 1, result.Booking.ClaimOrder)
	assert.Equal(t, 1, result.Booking.PatientOrder)
	assert.Equal(t, 2, result.Booking.Capacity)
	assert.Equal(t, int64(1), result.Booking.Generation)
	assert.Equal(t, types.TimeString("09:50"), result.EndTime)
	assert.Equal(t, providerID, result.Provider.ID)
	assert.Equal(t, []int64{1}, env.slotAt(t, monday, "09:00").Claimants)

	// запись пациента отражает слот
	bookings, err := env.svc.PatientBookings(context.Background(), 1, false)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, result.Booking.ID, bookings[0].ID)
	assert.Equal(t, providerID, bookings[0].ProviderID)
	assert.Equal(t, types.TimeString("09:00"), bookings[0].Time)
	assert.Equal(t, 1, env.metrics.claims[metrics.ClaimResultSuccess])
}

func TestClaimSlot_CapacityTwoThreePatients(t *testing.T) {
	env := newTestEnv(t)
	env.setTemplate(t, false, mondayEntry("09:00", "10:00", 2))
	ctx := context.Background()

	a, err := env.svc.ClaimSlot(ctx, 1, providerID, monday, "09:00")
	require.NoError(t, err)
	assert.Equal(t, 1, a.Booking.ClaimOrder)

	b, err := env.svc.ClaimSlot(ctx, 2, providerID, monday, "09:00")
	require.NoError(t, err)
	assert.Equal(t, 2, b.Booking.ClaimOrder)

	_, err = env.svc.ClaimSlot(ctx, 3, providerID, monday, "09:00")
	assert.ErrorIs(t, err, ErrSlotFull)

	available, err := env.svc.ListAvailable(ctx, providerID, monday)
	require.NoError(t, err)
	assert.Empty(t, available)
	assert.Equal(t, 1, env.metrics.claims[metrics.ClaimResultFull])
}

func TestClaimSlot_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	env.setTemplate(t, false, mondayEntry("09:00", "10:00", 1))
	ctx := context.Background()

	_, err := env.svc.ClaimSlot(ctx, 1, providerID, monday, "09:00")
	require.NoError(t, err)

	// слот заполнен, но повтор распознается раньше
	_, err = env.svc.ClaimSlot(ctx, 1, providerID, monday, "09:00")
	assert.ErrorIs(t, err, ErrDuplicateClaim)
	assert.Equal(t, []int64{1}, env.slotAt(t, monday, "09:00").Claimants)
}

func TestClaimSlot_NotFound(t *testing.T) {
	env := newTestEnv(t)
	env.setTemplate(t, false, mondayEntry("09:00", "10:00", 1))
	ctx := context.Background()

	_, err := env.svc.ClaimSlot(ctx, 1, providerID, monday, "09:30")
	assert.ErrorIs(t, err, ErrSlotNotFound)

	_, err = env.svc.ClaimSlot(ctx, 1, providerID, tuesday, "09:00")
	assert.ErrorIs(t, err, ErrSlotNotFound)

	_, err = env.svc.ClaimSlot(ctx, 1, 777, monday, "09:00")
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestClaimSlot_PatientOrderCountsWholeDay(t *testing.T) {
	env := newTestEnv(t)
	env.setTemplate(t, false, mondayEntry("09:00", "12:00", 2))
	ctx := context.Background()

	first, err := env.svc.ClaimSlot(ctx, 1, providerID, monday, "09:50")
	require.NoError(t, err)
	second, err := env.svc.ClaimSlot(ctx, 2, providerID, monday, "09:00")
	require.NoError(t, err)
	third, err := env.svc.ClaimSlot(ctx, 3, providerID, monday, "09:50")
	require.NoError(t, err)

	assert.Equal(t, 1, first.Booking.PatientOrder)
	assert.Equal(t, 2, second.Booking.PatientOrder)
	assert.Equal(t, 3, third.Booking.PatientOrder)

	assert.Equal(t, 1, second.Booking.ClaimOrder)
	assert.Equal(t, 2, third.Booking.ClaimOrder)
}

func TestClaimSlot_ConcurrentClaimsRespectCapacity(t *testing.T) {
	env := newTestEnv(t)
	env.setTemplate(t, false, mondayEntry("09:00", "10:00", 3))

	const patients = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		orders    = map[int]bool{}
	)

	for i := 1; i <= patients; i++ {
		wg.Add(1)
		go func(patientID int64) {
			defer wg.Done()
			result, err := env.svc.ClaimSlot(context.Background(), patientID, providerID, monday, "09:00")
			if err != nil {
				assert.ErrorIs(t, err, ErrSlotFull)
				return
			}
			mu.Lock()
			succeeded++
			orders[result.Booking.ClaimOrder] = true
			mu.Unlock()
		}(int64(i))
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, orders)
	assert.Len(t, env.slotAt(t, monday, "09:00").Claimants, 3)
	assert.Len(t, env.store.bookings, 3)
	assert.Equal(t, 0, env.svc.locks.size())
}

func TestClaimSlot_ConcurrentWithRegeneration(t *testing.T) {
	env := newTestEnv(t)
	env.setTemplate(t, false, mondayEntry("09:00", "11:00", 3))

	const patients = 12
	var wg sync.WaitGroup

	for i := 1; i <= patients; i++ {
		wg.Add(1)
		go func(patientID int64) {
			defer wg.Done()
			at := types.TimeString("09:00")
			if patientID%2 == 0 {
				at = "09:50"
			}
			_, err := env.svc.ClaimSlot(context.Background(), patientID, providerID, monday, at)
			if err != nil {
				assert.True(t, errors.Is(err, ErrSlotFull) || errors.Is(err, ErrSlotNotFound), "unexpected error: %v", err)
			}
		}(int64(i))
	}

	// перегенерации с меньшей вместимостью идут параллельно с записью
	for capacity := 2; capacity >= 1; capacity-- {
		wg.Add(1)
		go func(capacity int) {
			defer wg.Done()
			_, err := env.svc.ReplaceTemplate(context.Background(), ReplaceRequest{
				ProviderID:     providerID,
				Entries:        []domain.WeeklyTemplateEntry{mondayEntry("09:00", "11:00", capacity)},
				ConfirmDiscard: true,
				RangeStart:     monday,
				RangeEnd:       types.AddDays(monday, 6),
			})
			assert.NoError(t, err)
		}(capacity)
	}
	wg.Wait()

	slots, err := env.slots.GetByProvider(context.Background(), providerID, monday)
	require.NoError(t, err)

	claimed := 0
	for _, slot := range slots {
		assert.LessOrEqual(t, len(slot.Claimants), slot.Capacity, "slot %s", slot.Time)
		for i, patientID := range slot.Claimants {
			booking, err := env.bookings.GetActiveBySlot(context.Background(), patientID, providerID, slot.Date, slot.Time)
			require.NoError(t, err, "claimant %d of %s has no active booking", patientID, slot.Time)
			assert.Equal(t, i+1, booking.ClaimOrder)
			assert.Equal(t, slot.Generation, booking.Generation)
		}
		claimed += len(slot.Claimants)
	}

	active, err := env.svc.ProviderBookings(context.Background(), providerID, nil, true)
	require.NoError(t, err)
	assert.Len(t, active, claimed)
	assert.Equal(t, 0, env.svc.locks.size())
}

func TestClaimSlot_RollsBackOnBookingFailure(t *testing.T) {
	env := newTestEnv(t)
	env.setTemplate(t, false, mondayEntry("09:00", "10:00", 2))
	env.bookings.failCreate = errors.New("connection refused")

	_, err := env.svc.ClaimSlot(context.Background(), 1, providerID, monday, "09:00")

	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, env.slotAt(t, monday, "09:00").Claimants)
	assert.Empty(t, env.store.bookings)
	assert.Equal(t, 1, env.metrics.claims[metrics.ClaimResultError])
}

func TestReleaseSlot_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.setTemplate(t, false, mondayEntry("09:00", "10:00", 1))
	ctx := context.Background()

	_, err := env.svc.ClaimSlot(ctx, 1, providerID, monday, "09:00")
	require.NoError(t, err)

	require.NoError(t, env.svc.ReleaseSlot(ctx, 1, providerID, monday, "09:00"))

	assert.Empty(t, env.slotAt(t, monday, "09:00").Claimants)
	bookings, err := env.svc.PatientBookings(ctx, 1, false)
	require.NoError(t, err)
	assert.Empty(t, bookings)

	available, err := env.svc.ListAvailable(ctx, providerID, monday)
	require.NoError(t, err)
	require.Len(t, available, 1)

	// место снова можно занять
	_, err = env.svc.ClaimSlot(ctx, 2, providerID, monday, "09:00")
	assert.NoError(t, err)
}

func TestReleaseSlot_RenumbersFollowingClaimants(t *testing.T) {
	env := newTestEnv(t)
	env.setTemplate(t, false, mondayEntry("09:00", "10:00", 3))
	ctx := context.Background()

	for _, patientID := range []int64{1, 2, 3} {
		_, err := env.svc.ClaimSlot(ctx, patientID, providerID, monday, "09:00")
		require.NoError(t, err)
	}

	require.NoError(t, env.svc.ReleaseSlot(ctx, 1, providerID, monday, "09:00"))

	slot := env.slotAt(t, monday, "09:00")
	assert.Equal(t, []int64{2, 3}, slot.Claimants)

	for pos, patientID := range slot.Claimants {
		b, err := env.bookings.GetActiveBySlot(ctx, patientID, providerID, monday, "09:00")
		require.NoError(t, err)
		assert.Equal(t, pos+1, b.ClaimOrder, "patient %d", patientID)
	}
}

func TestReleaseSlot_NotHeld(t *testing.T) {
	env := newTestEnv(t)
	env.setTemplate(t, false, mondayEntry("09:00", "10:00", 3))
	ctx := context.Background()

	err := env.svc.ReleaseSlot(ctx, 1, providerID, monday, "09:00")
	assert.ErrorIs(t, err, ErrClaimNotFound)

	err = env.svc.ReleaseSlot(ctx, 1, providerID, monday, "11:00")
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestReplaceTemplate_GeneratesSlots(t *testing.T) {
	env := newTestEnv(t)
	location := "Clinic A, room 12"

	result, err := env.svc.ReplaceTemplate(context.Background(), ReplaceRequest{
		ProviderID: providerID,
		Entries: []domain.WeeklyTemplateEntry{
			mondayEntry("09:00", "10:00", 2),
			{Day: domain.Tuesday, StartTime: "14:00", EndTime: "16:00", CapacityPerSlot: 1},
		},
		ClinicLocation: &location,
		RangeStart:     monday,
		RangeEnd:       types.AddDays(monday, 13),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Provider.Generation)
	assert.Equal(t, location, *result.Provider.ClinicLocation)
	// 2 понедельника по 1 слоту и 2 вторника по 2 слота
	assert.Len(t, result.Slots, 6)
	assert.Zero(t, result.DiscardedClaims)

	providers, err := env.svc.Providers(context.Background())
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Len(t, providers[0].Template, 2)
	assert.Equal(t, 1, env.metrics.regens)
}

func TestReplaceTemplate_DiscardRequiresConfirmation(t *testing.T) {
	env := newTestEnv(t)
	env.setTemplate(t, false, mondayEntry("09:00", "10:00", 2))
	ctx := context.Background()

	claim, err := env.svc.ClaimSlot(ctx, 1, providerID, monday, "09:00")
	require.NoError(t, err)

	tuesdayOnly := ReplaceRequest{
		ProviderID: providerID,
		Entries:    []domain.WeeklyTemplateEntry{{Day: domain.Tuesday, StartTime: "09:00", EndTime: "10:00", CapacityPerSlot: 2}},
		RangeStart: monday,
		RangeEnd:   types.AddDays(monday, 6),
	}

	_, err = env.svc.ReplaceTemplate(ctx, tuesdayOnly)
	require.ErrorIs(t, err, ErrDiscardNotConfirmed)
	var discardErr *DiscardError
	require.True(t, errors.As(err, &discardErr))
	assert.Equal(t, 1, discardErr.DiscardedClaims)

	// без подтверждения ничего не изменилось
	assert.Equal(t, []int64{1}, env.slotAt(t, monday, "09:00").Claimants)

	tuesdayOnly.ConfirmDiscard = true
	result, err := env.svc.ReplaceTemplate(ctx, tuesdayOnly)
	require.NoError(t, err)
	assert.Equal(t, 1, result.DiscardedClaims)
	assert.Equal(t, int64(2), result.Provider.Generation)

	available, err := env.svc.ListAvailable(ctx, providerID, monday)
	require.NoError(t, err)
	for _, slot := range available {
		assert.False(t, slot.SameSlot(monday, "09:00"), "discarded slot must not be listed")
		assert.Equal(t, int64(2), slot.Generation)
	}

	bookings, err := env.svc.PatientBookings(ctx, 1, false)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, claim.Booking.ID, bookings[0].ID)
	assert.True(t, bookings[0].Stale)

	active, err := env.svc.PatientBookings(ctx, 1, true)
	require.NoError(t, err)
	assert.Empty(t, active)
	assert.Equal(t, 1, env.metrics.discarded)
}

func TestReplaceTemplate_CarriesClaimsThatStillFit(t *testing.T) {
	env := newTestEnv(t)
	env.setTemplate(t, false, mondayEntry("09:00", "10:00", 2))
	ctx := context.Background()

	_, err := env.svc.ClaimSlot(ctx, 1, providerID, monday, "09:00")
	require.NoError(t, err)
	_, err = env.svc.ClaimSlot(ctx, 2, providerID, monday, "09:00")
	require.NoError(t, err)

	// вместимость уменьшилась: первый пациент остается, второй теряет запись
	result := env.setTemplate(t, true, mondayEntry("09:00", "11:00", 1))

	assert.Equal(t, 1, result.CarriedClaims)
	assert.Equal(t, 1, result.DiscardedClaims)
	assert.Equal(t, []int64{1}, env.slotAt(t, monday, "09:00").Claimants)

	kept, err := env.bookings.GetActiveBySlot(ctx, 1, providerID, monday, "09:00")
	require.NoError(t, err)
	assert.False(t, kept.Stale)
	assert.Equal(t, result.Provider.Generation, kept.Generation)
	assert.Equal(t, env.slotAt(t, monday, "09:00").Generation, kept.Generation)
	assert.Equal(t, 1, kept.Capacity)
	assert.Equal(t, 1, kept.ClaimOrder)

	lost, err := env.svc.PatientBookings(ctx, 2, false)
	require.NoError(t, err)
	require.Len(t, lost, 1)
	assert.True(t, lost[0].Stale)

	// освободившийся слот снова доступен для записи пациентом 2
	_, err = env.svc.ClaimSlot(ctx, 2, providerID, monday, "09:50")
	assert.NoError(t, err)
}

func TestReplaceTemplate_EmptyTemplateClearsSlots(t *testing.T) {
	env := newTestEnv(t)
	env.setTemplate(t, false, mondayEntry("09:00", "10:00", 2))

	result := env.setTemplate(t, false)

	assert.Empty(t, result.Slots)
	available, err := env.svc.ListAvailable(context.Background(), providerID, monday)
	require.NoError(t, err)
	assert.Empty(t, available)
}

func TestExtendHorizon_AppendsOnlyNewDates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.ReplaceTemplate(ctx, ReplaceRequest{
		ProviderID: providerID,
		Entries:    []domain.WeeklyTemplateEntry{mondayEntry("09:00", "10:00", 2)},
		RangeStart: monday,
		RangeEnd:   monday,
	})
	require.NoError(t, err)

	_, err = env.svc.ClaimSlot(ctx, 1, providerID, monday, "09:00")
	require.NoError(t, err)

	appended, err := env.svc.ExtendHorizon(ctx, providerID, monday, types.AddDays(monday, 14))
	require.NoError(t, err)
	assert.Equal(t, 2, appended)

	// существующая запись не тронута
	assert.Equal(t, []int64{1}, env.slotAt(t, monday, "09:00").Claimants)
	next := env.slotAt(t, types.AddDays(monday, 7), "09:00")
	assert.Equal(t, int64(1), next.Generation)
	assert.Empty(t, next.Claimants)

	appended, err = env.svc.ExtendHorizon(ctx, providerID, monday, types.AddDays(monday, 14))
	require.NoError(t, err)
	assert.Zero(t, appended)
	assert.Equal(t, 2, env.metrics.appended)
}

func TestExtendHorizon_UnknownProvider(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.ExtendHorizon(context.Background(), 5, monday, tuesday)
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestProviderBookings_RosterInClaimOrder(t *testing.T) {
	env := newTestEnv(t)
	env.setTemplate(t, false, mondayEntry("09:00", "11:00", 2))
	ctx := context.Background()

	_, err := env.svc.ClaimSlot(ctx, 1, providerID, monday, "09:50")
	require.NoError(t, err)
	_, err = env.svc.ClaimSlot(ctx, 2, providerID, monday, "09:00")
	require.NoError(t, err)
	_, err = env.svc.ClaimSlot(ctx, 3, providerID, monday, "09:00")
	require.NoError(t, err)

	roster, err := env.svc.ProviderBookings(ctx, providerID, &monday, true)
	require.NoError(t, err)
	require.Len(t, roster, 3)
	assert.Equal(t, []int64{2, 3, 1}, []int64{roster[0].PatientID, roster[1].PatientID, roster[2].PatientID})
	assert.Equal(t, 2, roster[1].ClaimOrder)

	empty, err := env.svc.ProviderBookings(ctx, providerID, &tuesday, false)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = env.svc.ProviderBookings(ctx, 999, nil, false)
	assert.ErrorIs(t, err, ErrProviderNotFound)
	assert.Equal(t, int64(3), env.tx.readOnlyCalls.Load())
}

func TestListAvailable_FiltersByDateAndCapacity(t *testing.T) {
	env := newTestEnv(t)
	env.setTemplate(t, false,
		mondayEntry("09:00", "11:00", 1),
		domain.WeeklyTemplateEntry{Day: domain.Tuesday, StartTime: "09:00", EndTime: "10:00", CapacityPerSlot: 1},
	)
	ctx := context.Background()

	_, err := env.svc.ClaimSlot(ctx, 1, providerID, monday, "09:00")
	require.NoError(t, err)

	all, err := env.svc.ListAvailable(ctx, providerID, monday)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].SameSlot(monday, "09:50"))
	assert.True(t, all[1].SameSlot(tuesday, "09:00"))

	fromTuesday, err := env.svc.ListAvailable(ctx, providerID, tuesday)
	require.NoError(t, err)
	require.Len(t, fromTuesday, 1)

	_, err = env.svc.ListAvailable(ctx, 999, monday)
	assert.ErrorIs(t, err, ErrProviderNotFound)

	// чтение идет в read-only транзакции
	assert.Equal(t, int64(3), env.tx.readOnlyCalls.Load())
}

func TestCarryOver(t *testing.T) {
	existing := []*domain.SlotRecord{
		{Date: monday, Time: "09:00", Capacity: 3, Claimants: []int64{1, 2, 3}},
		{Date: monday, Time: "10:00", Capacity: 1, Claimants: []int64{4}},
		{Date: tuesday, Time: "09:00", Capacity: 1, Claimants: []int64{}},
	}
	fresh := []*domain.SlotRecord{
		{Date: monday, Time: "09:00", Capacity: 2, Claimants: []int64{}},
	}

	carried, discarded := carryOver(existing, fresh)

	require.Len(t, carried, 2)
	assert.Equal(t, int64(1), carried[0].PatientID)
	assert.Equal(t, int64(2), carried[1].PatientID)
	assert.Equal(t, 2, carried[1].Capacity)
	assert.Equal(t, []int64{1, 2}, fresh[0].Claimants)
	require.Len(t, discarded, 2)
	assert.Equal(t, int64(3), discarded[0].PatientID)
	assert.Equal(t, int64(4), discarded[1].PatientID)
	assert.Equal(t, types.TimeString("10:00"), discarded[1].Time)
}

func TestProviderLocks(t *testing.T) {
	locks := newProviderLocks()

	unlock := locks.Lock(1)

	// другой врач не ждет
	done := make(chan struct{})
	go func() {
		release := locks.Lock(2)
		release()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock for another provider blocked")
	}

	// тот же врач ждет освобождения
	acquired := make(chan struct{})
	go func() {
		release := locks.Lock(1)
		close(acquired)
		release()
	}()
	select {
	case <-acquired:
		t.Fatal("lock for the same provider acquired twice")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	<-acquired

	assert.Eventually(t, func() bool { return locks.size() == 0 }, time.Second, 10*time.Millisecond)
}
