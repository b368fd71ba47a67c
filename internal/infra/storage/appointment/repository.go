package appointment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/LGS-AppointmentService/internal/domain"
	"github.com/m04kA/LGS-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/LGS-AppointmentService/pkg/psqlbuilder"
)

var appointmentColumns = []string{
	"id",
	"client_user_id",
	"location_branch_id",
	"appointment_datetime",
	"party",
	"reason",
	"status",
	"notes_by_client",
	"notes_by_staff",
	"created_at",
	"updated_at",
	"deleted_at",
}

// Repository репозиторий для работы с записями на приём
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись и её назначения.
// Если в контексте передана активная транзакция, использует её -
// создание записи вместе с назначениями должно быть атомарным.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment, assigneeIDs []int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"client_user_id",
			"location_branch_id",
			"appointment_datetime",
			"party",
			"reason",
			"status",
			"notes_by_client",
			"notes_by_staff",
		).
		Values(
			appt.ClientUserID,
			appt.LocationBranchID,
			appt.AppointmentDateTime,
			appt.Party,
			appt.Reason,
			appt.Status,
			appt.NotesByClient,
			appt.NotesByStaff,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	if len(assigneeIDs) > 0 {
		if err := r.AddAssignees(ctx, appt.ID, assigneeIDs); err != nil {
			return nil, err
		}
	}

	return appt, nil
}

// GetByID получает живую (не удалённую) запись по ID.
// Внутри транзакции блокирует строку через FOR UPDATE - так конкурентное
// обновление статуса валидируется против актуального состояния.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDAny получает запись по ID, включая soft-deleted.
// Внутренний/audit путь - публичное API сюда не ходит.
func (r *Repository) GetByIDAny(ctx context.Context, id int64) (*domain.Appointment, error) {
	return r.getByID(ctx, id, true)
}

func (r *Repository) getByID(ctx context.Context, id int64, includeDeleted bool) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})

	if !includeDeleted {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"deleted_at": nil})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// ListWithFilter получает записи по спецификации фильтра.
// Все указанные условия комбинируются через AND; опущенные измерения
// не ограничивают выборку. Сортировка: appointment_datetime ASC, id ASC.
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildListQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// buildListQuery транслирует спецификацию фильтра в SQL.
// Каждое связанное измерение даёт AND-условие, опущенные измерения
// не ограничивают выборку.
func buildListQuery(filter domain.AppointmentFilter) (string, []interface{}, error) {
	selectBuilder := psqlbuilder.Select(prefixColumns("a", appointmentColumns)...).
		From("appointments a")

	if filter.AssigneeID != nil {
		selectBuilder = selectBuilder.
			Join("appointment_assignees aa ON aa.appointment_id = a.id")
	}

	if !filter.IncludeDeleted {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.deleted_at": nil})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.status": *filter.Status})
	}
	if filter.BranchID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.location_branch_id": *filter.BranchID})
	}
	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.client_user_id": *filter.ClientID})
	}
	if filter.AssigneeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"aa.user_id": *filter.AssigneeID})
	}

	// Границы периода включительные
	if filter.DateTimeFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"a.appointment_datetime": *filter.DateTimeFrom})
	}
	if filter.DateTimeTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"a.appointment_datetime": *filter.DateTimeTo})
	}

	// Вторичная сортировка по id даёт стабильный порядок при равном времени
	return selectBuilder.
		OrderBy("a.appointment_datetime ASC", "a.id ASC").
		ToSql()
}

// GetAssignees получает множество назначенных сотрудников записи
func (r *Repository) GetAssignees(ctx context.Context, appointmentID int64) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("user_id").
		From("appointment_assignees").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		OrderBy("user_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAssignees - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAssignees - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	userIDs := make([]int64, 0)
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("%w: GetAssignees - scan user_id: %v", ErrScanRow, err)
		}
		userIDs = append(userIDs, userID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAssignees - rows error: %v", ErrScanRow, err)
	}

	return userIDs, nil
}

// GetAssigneesForAppointments получает назначения сразу для набора записей
// (для денормализации списков без N+1 запросов)
func (r *Repository) GetAssigneesForAppointments(ctx context.Context, appointmentIDs []int64) (map[int64][]int64, error) {
	result := make(map[int64][]int64, len(appointmentIDs))
	if len(appointmentIDs) == 0 {
		return result, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("appointment_id", "user_id").
		From("appointment_assignees").
		Where(squirrel.Eq{"appointment_id": appointmentIDs}).
		OrderBy("appointment_id ASC", "user_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAssigneesForAppointments - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAssigneesForAppointments - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var appointmentID, userID int64
		if err := rows.Scan(&appointmentID, &userID); err != nil {
			return nil, fmt.Errorf("%w: GetAssigneesForAppointments - scan row: %v", ErrScanRow, err)
		}
		result[appointmentID] = append(result[appointmentID], userID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAssigneesForAppointments - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// AddAssignees добавляет назначения. ON CONFLICT DO NOTHING сохраняет
// инвариант множества: дубликаты user_id невозможны.
func (r *Repository) AddAssignees(ctx context.Context, appointmentID int64, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("appointment_assignees").
		Columns("appointment_id", "user_id")
	for _, userID := range userIDs {
		insertBuilder = insertBuilder.Values(appointmentID, userID)
	}
	insertBuilder = insertBuilder.Suffix("ON CONFLICT (appointment_id, user_id) DO NOTHING")

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddAssignees - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AddAssignees - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// RemoveAssignees снимает назначения
func (r *Repository) RemoveAssignees(ctx context.Context, appointmentID int64, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("appointment_assignees").
		Where(squirrel.Eq{"appointment_id": appointmentID, "user_id": userIDs}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RemoveAssignees - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: RemoveAssignees - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// Update применяет частичное обновление: меняются только поля,
// присутствующие в upd. Назначения обновляются отдельными методами
// AddAssignees/RemoveAssignees в той же транзакции.
func (r *Repository) Update(ctx context.Context, id int64, upd domain.AppointmentUpdate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("appointments").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "deleted_at": nil})

	hasChanges := false
	if upd.LocationBranchID != nil {
		updateBuilder = updateBuilder.Set("location_branch_id", *upd.LocationBranchID)
		hasChanges = true
	}
	if upd.AppointmentDateTime != nil {
		updateBuilder = updateBuilder.Set("appointment_datetime", *upd.AppointmentDateTime)
		hasChanges = true
	}
	if upd.Party != nil {
		updateBuilder = updateBuilder.Set("party", *upd.Party)
		hasChanges = true
	}
	if upd.Reason != nil {
		updateBuilder = updateBuilder.Set("reason", *upd.Reason)
		hasChanges = true
	}
	if upd.Status != nil {
		updateBuilder = updateBuilder.Set("status", *upd.Status)
		hasChanges = true
	}
	if upd.NotesByClient != nil {
		updateBuilder = updateBuilder.Set("notes_by_client", *upd.NotesByClient)
		hasChanges = true
	}
	if upd.NotesByStaff != nil {
		updateBuilder = updateBuilder.Set("notes_by_staff", *upd.NotesByStaff)
		hasChanges = true
	}

	if !hasChanges {
		return ErrEmptyUpdate
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// SoftDelete помечает запись удалённой. Запись остаётся в хранилище
// для истории, но исключается из всех выборок по умолчанию.
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("deleted_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SoftDelete - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SoftDelete - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SoftDelete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.ClientUserID,
		&appt.LocationBranchID,
		&appt.AppointmentDateTime,
		&appt.Party,
		&appt.Reason,
		&appt.Status,
		&appt.NotesByClient,
		&appt.NotesByStaff,
		&createdAt,
		&updatedAt,
		&appt.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

func prefixColumns(alias string, columns []string) []string {
	prefixed := make([]string, len(columns))
	for i, c := range columns {
		prefixed[i] = alias + "." + c
	}
	return prefixed
}
