package provider

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий врачей и их недельных шаблонов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория врачей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает врача вместе с шаблоном.
// Внутри транзакции строка врача блокируется (FOR UPDATE), что сериализует
// изменения слотов одного врача между экземплярами сервиса.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Provider, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "clinic_location", "generation", "updated_at").
		From("providers").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.Provider
	var clinicLocation sql.NullString
	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &clinicLocation, &p.Generation, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrProviderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan provider: %w", ErrScanRow, err)
	}
	if clinicLocation.Valid {
		p.ClinicLocation = &clinicLocation.String
	}

	templates, err := r.loadTemplates(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	p.Template = templates[id]

	return &p, nil
}

// GetAll получает всех врачей, у которых есть хотя бы один рабочий день
func (r *Repository) GetAll(ctx context.Context) ([]*domain.Provider, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("p.id", "p.clinic_location", "p.generation", "p.updated_at").
		From("providers p").
		Where("EXISTS (SELECT 1 FROM template_entries t WHERE t.provider_id = p.id)").
		OrderBy("p.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetAll - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAll - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	providers := make([]*domain.Provider, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var p domain.Provider
		var clinicLocation sql.NullString
		if err := rows.Scan(&p.ID, &clinicLocation, &p.Generation, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: GetAll - scan row: %w", ErrScanRow, err)
		}
		if clinicLocation.Valid {
			p.ClinicLocation = &clinicLocation.String
		}
		providers = append(providers, &p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAll - rows error: %w", ErrScanRow, err)
	}

	if len(ids) == 0 {
		return providers, nil
	}

	templates, err := r.loadTemplates(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range providers {
		p.Template = templates[p.ID]
	}

	return providers, nil
}

// Save создает или обновляет врача и полностью заменяет его шаблон
func (r *Repository) Save(ctx context.Context, p *domain.Provider) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("providers").
		Columns("id", "clinic_location", "generation", "updated_at").
		Values(p.ID, p.ClinicLocation, p.Generation, p.UpdatedAt).
		Suffix("ON CONFLICT (id) DO UPDATE SET clinic_location = EXCLUDED.clinic_location, " +
			"generation = EXCLUDED.generation, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Save - build upsert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Save - execute upsert: %w", ErrExecQuery, err)
	}

	query, args, err = psqlbuilder.Delete("template_entries").
		Where(squirrel.Eq{"provider_id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Save - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Save - delete template: %w", ErrExecQuery, err)
	}

	if len(p.Template) == 0 {
		return nil
	}

	insert := psqlbuilder.Insert("template_entries").
		Columns("provider_id", "weekday", "start_time", "end_time", "capacity_per_slot")
	for _, e := range p.Template {
		insert = insert.Values(p.ID, string(e.Day), e.StartTime, e.EndTime, e.CapacityPerSlot)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Save - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Save - insert template: %w", ErrExecQuery, err)
	}

	return nil
}

// loadTemplates загружает шаблоны для набора врачей, записи упорядочены по дням недели
func (r *Repository) loadTemplates(ctx context.Context, providerIDs []int64) (map[int64][]domain.WeeklyTemplateEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("provider_id", "weekday", "start_time", "end_time", "capacity_per_slot").
		From("template_entries").
		Where(squirrel.Eq{"provider_id": providerIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: loadTemplates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadTemplates - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[int64][]domain.WeeklyTemplateEntry, len(providerIDs))
	for rows.Next() {
		var providerID int64
		var day string
		var e domain.WeeklyTemplateEntry
		if err := rows.Scan(&providerID, &day, &e.StartTime, &e.EndTime, &e.CapacityPerSlot); err != nil {
			return nil, fmt.Errorf("%w: loadTemplates - scan row: %w", ErrScanRow, err)
		}
		e.Day = domain.Weekday(day)
		result[providerID] = append(result[providerID], e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadTemplates - rows error: %w", ErrScanRow, err)
	}

	for id := range result {
		sortByWeekday(result[id])
	}

	return result, nil
}

func sortByWeekday(entries []domain.WeeklyTemplateEntry) {
	order := make(map[domain.Weekday]int, len(domain.Weekdays))
	for i, d := range domain.Weekdays {
		order[d] = i
	}
	sort.Slice(entries, func(i, j int) bool {
		return order[entries[i].Day] < order[entries[j].Day]
	})
}
