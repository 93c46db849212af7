package slot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// insertBatchSize ограничивает число строк в одном INSERT (7 параметров на строку)
const insertBatchSize = 500

var slotColumns = []string{
	"provider_id",
	"generation",
	"slot_date",
	"start_time",
	"slot_index",
	"capacity",
	"claimants",
}

// Repository репозиторий слотов врачей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByProvider получает слоты врача начиная с даты from, упорядоченные по дате и времени.
// Внутри транзакции строки блокируются (FOR UPDATE).
func (r *Repository) GetByProvider(ctx context.Context, providerID int64, from time.Time) ([]*domain.SlotRecord, error) {
	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.GtOrEq{"slot_date": types.FormatDate(from)}).
		OrderBy("slot_date ASC", "start_time ASC")

	return r.query(ctx, "GetByProvider", selectBuilder)
}

// GetByDate получает все слоты врача на дату.
// Внутри транзакции строки блокируются (FOR UPDATE), так как по ним считается patientOrder.
func (r *Repository) GetByDate(ctx context.Context, providerID int64, date time.Time) ([]*domain.SlotRecord, error) {
	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"provider_id": providerID, "slot_date": types.FormatDate(date)}).
		OrderBy("start_time ASC")

	return r.query(ctx, "GetByDate", selectBuilder)
}

// LastDate возвращает последнюю дату, на которую у врача есть слоты, или nil
func (r *Repository) LastDate(ctx context.Context, providerID int64) (*time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("MAX(slot_date)").
		From("slots").
		Where(squirrel.Eq{"provider_id": providerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: LastDate - build select query: %v", ErrBuildQuery, err)
	}

	var last sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&last); err != nil {
		return nil, fmt.Errorf("%w: LastDate - scan: %w", ErrScanRow, err)
	}
	if !last.Valid {
		return nil, nil
	}

	date := types.DateOf(last.Time)
	return &date, nil
}

// ReplaceFrom удаляет слоты врача начиная с даты from и вставляет новый набор
func (r *Repository) ReplaceFrom(ctx context.Context, providerID int64, from time.Time, slots []*domain.SlotRecord) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slots").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.GtOrEq{"slot_date": types.FormatDate(from)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceFrom - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceFrom - execute delete: %w", ErrExecQuery, err)
	}

	return r.Append(ctx, slots)
}

// Append вставляет слоты пачками
func (r *Repository) Append(ctx context.Context, slots []*domain.SlotRecord) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for start := 0; start < len(slots); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(slots) {
			end = len(slots)
		}

		insert := psqlbuilder.Insert("slots").Columns(slotColumns...)
		for _, s := range slots[start:end] {
			insert = insert.Values(
				s.ProviderID,
				s.Generation,
				types.FormatDate(s.Date),
				s.Time,
				s.SlotIndex,
				s.Capacity,
				pq.Array(claimantsOrEmpty(s.Claimants)),
			)
		}

		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: Append - execute insert: %w", ErrExecQuery, err)
		}
	}

	return nil
}

// UpdateClaimants сохраняет список записавшихся пациентов слота
func (r *Repository) UpdateClaimants(ctx context.Context, slot *domain.SlotRecord) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("claimants", pq.Array(claimantsOrEmpty(slot.Claimants))).
		Where(squirrel.Eq{
			"provider_id": slot.ProviderID,
			"slot_date":   types.FormatDate(slot.Date),
			"start_time":  slot.Time,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateClaimants - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateClaimants - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateClaimants - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

func (r *Repository) query(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.SlotRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// scanSlots сканирует результаты запроса в слайс слотов
func scanSlots(rows *sql.Rows) ([]*domain.SlotRecord, error) {
	slots := make([]*domain.SlotRecord, 0)

	for rows.Next() {
		var s domain.SlotRecord
		var claimants pq.Int64Array

		err := rows.Scan(
			&s.ProviderID,
			&s.Generation,
			&s.Date,
			&s.Time,
			&s.SlotIndex,
			&s.Capacity,
			&claimants,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %w", ErrScanRow, err)
		}

		s.Date = types.DateOf(s.Date)
		s.Claimants = []int64(claimants)
		if s.Claimants == nil {
			s.Claimants = []int64{}
		}
		slots = append(slots, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %w", ErrScanRow, err)
	}

	return slots, nil
}

// claimantsOrEmpty nil-слайс pq.Array пишет как NULL, а колонка NOT NULL
func claimantsOrEmpty(claimants []int64) []int64 {
	if claimants == nil {
		return []int64{}
	}
	return claimants
}
