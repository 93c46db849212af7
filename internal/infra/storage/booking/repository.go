package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const codeUniqueViolation = "23505"

var bookingColumns = []string{
	"id",
	"patient_id",
	"provider_id",
	"generation",
	"slot_date",
	"start_time",
	"claim_order",
	"patient_order",
	"capacity",
	"stale",
	"created_at",
}

// Repository репозиторий записей пациентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет запись пациента. Используется внутри транзакции занятия слота,
// вместе с обновлением claimants слота.
func (r *Repository) Create(ctx context.Context, b *domain.BookingRecord) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(bookingColumns...).
		Values(
			b.ID,
			b.PatientID,
			b.ProviderID,
			b.Generation,
			types.FormatDate(b.Date),
			b.Time,
			b.ClaimOrder,
			b.PatientOrder,
			b.Capacity,
			b.Stale,
			b.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == codeUniqueViolation {
			return ErrDuplicateBooking
		}
		return fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// GetActiveBySlot получает действующую запись пациента на слот
func (r *Repository) GetActiveBySlot(ctx context.Context, patientID, providerID int64, date time.Time, t types.TimeString) (*domain.BookingRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{
			"patient_id":  patientID,
			"provider_id": providerID,
			"slot_date":   types.FormatDate(date),
			"start_time":  t,
			"stale":       false,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBySlot - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBySlot - scan booking: %w", ErrScanRow, err)
	}

	return b, nil
}

// GetByPatient получает записи пациента, ближайшие сначала.
// activeOnly исключает записи, потерянные при перегенерации слотов.
func (r *Repository) GetByPatient(ctx context.Context, patientID int64, activeOnly bool) ([]*domain.BookingRecord, error) {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"patient_id": patientID}).
		OrderBy("slot_date ASC", "start_time ASC", "created_at ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"stale": false})
	}

	return r.list(ctx, "GetByPatient", selectBuilder)
}

// GetByProvider получает записи к врачу, опционально за одну дату.
// Внутри слота записи упорядочены по claim_order.
func (r *Repository) GetByProvider(ctx context.Context, providerID int64, date *time.Time, activeOnly bool) ([]*domain.BookingRecord, error) {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("slot_date ASC", "start_time ASC", "claim_order ASC")

	if date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"slot_date": types.FormatDate(*date)})
	}
	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"stale": false})
	}

	return r.list(ctx, "GetByProvider", selectBuilder)
}

func (r *Repository) list(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.BookingRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	bookings := make([]*domain.BookingRecord, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return bookings, nil
}

// UpdateClaimOrder обновляет позицию пациента в слоте после освобождения места перед ним
func (r *Repository) UpdateClaimOrder(ctx context.Context, id uuid.UUID, claimOrder int) error {
	return r.update(ctx, "UpdateClaimOrder", id, map[string]interface{}{"claim_order": claimOrder})
}

// UpdateGeneration переводит перенесенную запись в новое поколение слотов
func (r *Repository) UpdateGeneration(ctx context.Context, id uuid.UUID, generation int64, capacity int) error {
	return r.update(ctx, "UpdateGeneration", id, map[string]interface{}{
		"generation": generation,
		"capacity":   capacity,
	})
}

// MarkStale помечает запись как потерянную при перегенерации слотов
func (r *Repository) MarkStale(ctx context.Context, id uuid.UUID) error {
	return r.update(ctx, "MarkStale", id, map[string]interface{}{"stale": true})
}

// Delete удаляет запись (освобождение слота пациентом)
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

func (r *Repository) update(ctx context.Context, op string, id uuid.UUID, values map[string]interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		SetMap(values).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.BookingRecord, error) {
	var b domain.BookingRecord

	err := row.Scan(
		&b.ID,
		&b.PatientID,
		&b.ProviderID,
		&b.Generation,
		&b.Date,
		&b.Time,
		&b.ClaimOrder,
		&b.PatientOrder,
		&b.Capacity,
		&b.Stale,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Date = types.DateOf(b.Date)
	return &b, nil
}
