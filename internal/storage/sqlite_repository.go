package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, in Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, completed, archived, created_at, updated_at, completed_at, archived_at, reminder_at, reminder_cancelled, notification_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, boolInt(in.Completed), boolInt(in.Archived),
		mustTime(in.CreatedAt), nullTime(in.UpdatedAt), nullTime(in.CompletedAt), nullTime(in.ArchivedAt),
		nullTime(in.ReminderAt), boolInt(in.ReminderCancelled), in.NotificationID,
	)
	return err
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, completed, archived, created_at, updated_at, completed_at, archived_at, reminder_at, reminder_cancelled, notification_id
		FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, in Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, completed = ?, archived = ?, updated_at = ?, completed_at = ?, archived_at = ?, reminder_at = ?, reminder_cancelled = ?, notification_id = ?
		WHERE id = ?`,
		in.Title, boolInt(in.Completed), boolInt(in.Archived),
		nullTime(in.UpdatedAt), nullTime(in.CompletedAt), nullTime(in.ArchivedAt),
		nullTime(in.ReminderAt), boolInt(in.ReminderCancelled), in.NotificationID, in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error) {
	query := `SELECT id, title, completed, archived, created_at, updated_at, completed_at, archived_at, reminder_at, reminder_cancelled, notification_id FROM tasks`
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.Completed != nil {
		clauses = append(clauses, "completed = ?")
		args = append(args, boolInt(*filter.Completed))
	}
	if filter.Archived != nil {
		clauses = append(clauses, "archived = ?")
		args = append(args, boolInt(*filter.Archived))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateBirthday(ctx context.Context, in Birthday) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO birthdays (id, name, birth_date, phone, note, created_at, updated_at, notification_id, greeting_sent, greeting_year)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Name, mustTime(in.BirthDate), in.Phone, in.Note,
		mustTime(in.CreatedAt), nullTime(in.UpdatedAt), in.NotificationID,
		boolInt(in.GreetingSent), in.GreetingYear,
	)
	return err
}

func (r *SQLiteRepository) GetBirthday(ctx context.Context, id string) (Birthday, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, birth_date, phone, note, created_at, updated_at, notification_id, greeting_sent, greeting_year
		FROM birthdays WHERE id = ?`, id)
	item, err := scanBirthday(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Birthday{}, ErrNotFound
		}
		return Birthday{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) UpdateBirthday(ctx context.Context, in Birthday) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE birthdays
		SET name = ?, birth_date = ?, phone = ?, note = ?, updated_at = ?, notification_id = ?, greeting_sent = ?, greeting_year = ?
		WHERE id = ?`,
		in.Name, mustTime(in.BirthDate), in.Phone, in.Note,
		nullTime(in.UpdatedAt), in.NotificationID, boolInt(in.GreetingSent), in.GreetingYear, in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteBirthday(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM birthdays WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListBirthdays(ctx context.Context, filter BirthdayListFilter) ([]Birthday, error) {
	args := make([]any, 0, 2)
	query := `SELECT id, name, birth_date, phone, note, created_at, updated_at, notification_id, greeting_sent, greeting_year FROM birthdays ORDER BY name ASC` +
		applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Birthday, 0)
	for rows.Next() {
		item, scanErr := scanBirthday(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateNotification(ctx context.Context, in Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, title, body, fire_at, category_icon, status, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.Body, mustTime(in.FireAt), in.CategoryIcon, in.Status, boolInt(in.Read), mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetNotification(ctx context.Context, id string) (Notification, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, body, fire_at, category_icon, status, read, created_at
		FROM notifications WHERE id = ?`, id)
	item, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Notification{}, ErrNotFound
		}
		return Notification{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) UpdateNotification(ctx context.Context, in Notification) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications
		SET title = ?, body = ?, fire_at = ?, category_icon = ?, status = ?, read = ?
		WHERE id = ?`,
		in.Title, in.Body, mustTime(in.FireAt), in.CategoryIcon, in.Status, boolInt(in.Read), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteNotification(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteAllNotifications(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notifications`)
	return err
}

func (r *SQLiteRepository) ListNotifications(ctx context.Context, filter NotificationListFilter) ([]Notification, error) {
	query := `SELECT id, title, body, fire_at, category_icon, status, read, created_at FROM notifications`
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Read != nil {
		clauses = append(clauses, "read = ?")
		args = append(args, boolInt(*filter.Read))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY fire_at DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Notification, 0)
	for rows.Next() {
		item, scanErr := scanNotification(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = 1 WHERE read = 0`)
	return err
}

func (r *SQLiteRepository) CountUnreadNotifications(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE read = 0`).Scan(&count)
	return count, err
}

func (r *SQLiteRepository) ApplyStatDelta(ctx context.Context, day string, delta StatDelta) error {
	if strings.TrimSpace(day) == "" {
		return errors.New("storage: stat day is required")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE stat_totals
		SET created = created + ?, completed = completed + ?, deleted = deleted + ?, archived = archived + ?, completion_time_ms = completion_time_ms + ?
		WHERE id = 1`,
		delta.Created, delta.Completed, delta.Deleted, delta.Archived, delta.CompletionTimeMs,
	)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO stat_days (day, created, completed, deleted, archived, completion_time_ms)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			created = created + excluded.created,
			completed = completed + excluded.completed,
			deleted = deleted + excluded.deleted,
			archived = archived + excluded.archived,
			completion_time_ms = completion_time_ms + excluded.completion_time_ms`,
		day, delta.Created, delta.Completed, delta.Deleted, delta.Archived, delta.CompletionTimeMs,
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) GetStatTotals(ctx context.Context) (StatTotals, error) {
	var out StatTotals
	err := r.db.QueryRowContext(ctx, `
		SELECT created, completed, deleted, archived, completion_time_ms FROM stat_totals WHERE id = 1`).
		Scan(&out.Created, &out.Completed, &out.Deleted, &out.Archived, &out.CompletionTimeMs)
	if errors.Is(err, sql.ErrNoRows) {
		return StatTotals{}, ErrNotFound
	}
	return out, err
}

func (r *SQLiteRepository) GetStatDay(ctx context.Context, day string) (StatDay, error) {
	var out StatDay
	err := r.db.QueryRowContext(ctx, `
		SELECT day, created, completed, deleted, archived, completion_time_ms FROM stat_days WHERE day = ?`, day).
		Scan(&out.Day, &out.Created, &out.Completed, &out.Deleted, &out.Archived, &out.CompletionTimeMs)
	if errors.Is(err, sql.ErrNoRows) {
		return StatDay{}, ErrNotFound
	}
	return out, err
}

func (r *SQLiteRepository) ListStatDays(ctx context.Context) ([]StatDay, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT day, created, completed, deleted, archived, completion_time_ms FROM stat_days ORDER BY day ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]StatDay, 0)
	for rows.Next() {
		var item StatDay
		if scanErr := rows.Scan(&item.Day, &item.Created, &item.Completed, &item.Deleted, &item.Archived, &item.CompletionTimeMs); scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(sqliteTimeLayout)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (Task, error) {
	var out Task
	var completed, archived, reminderCancelled int
	var created string
	var updated, completedAtRaw, archivedAtRaw, reminderAtRaw sql.NullString
	if err := s.Scan(&out.ID, &out.Title, &completed, &archived, &created, &updated, &completedAtRaw, &archivedAtRaw, &reminderAtRaw, &reminderCancelled, &out.NotificationID); err != nil {
		return Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Task{}, err
	}
	updatedAt, err := parseNullableTime(updated)
	if err != nil {
		return Task{}, err
	}
	completedAt, err := parseNullableTime(completedAtRaw)
	if err != nil {
		return Task{}, err
	}
	archivedAt, err := parseNullableTime(archivedAtRaw)
	if err != nil {
		return Task{}, err
	}
	reminderAt, err := parseNullableTime(reminderAtRaw)
	if err != nil {
		return Task{}, err
	}
	out.Completed = completed == 1
	out.Archived = archived == 1
	out.ReminderCancelled = reminderCancelled == 1
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	out.CompletedAt = completedAt
	out.ArchivedAt = archivedAt
	out.ReminderAt = reminderAt
	return out, nil
}

func scanBirthday(s scanner) (Birthday, error) {
	var out Birthday
	var birthDate, created string
	var updated sql.NullString
	var greetingSent int
	if err := s.Scan(&out.ID, &out.Name, &birthDate, &out.Phone, &out.Note, &created, &updated, &out.NotificationID, &greetingSent, &out.GreetingYear); err != nil {
		return Birthday{}, err
	}
	parsedBirth, err := parseRequiredTime(birthDate)
	if err != nil {
		return Birthday{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Birthday{}, err
	}
	updatedAt, err := parseNullableTime(updated)
	if err != nil {
		return Birthday{}, err
	}
	out.BirthDate = parsedBirth
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	out.GreetingSent = greetingSent == 1
	return out, nil
}

func scanNotification(s scanner) (Notification, error) {
	var out Notification
	var fireAt, created string
	var read int
	if err := s.Scan(&out.ID, &out.Title, &out.Body, &fireAt, &out.CategoryIcon, &out.Status, &read, &created); err != nil {
		return Notification{}, err
	}
	parsedFire, err := parseRequiredTime(fireAt)
	if err != nil {
		return Notification{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Notification{}, err
	}
	out.FireAt = parsedFire
	out.Read = read == 1
	out.CreatedAt = createdAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
