package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pontosapp/pontos/internal/model"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

// --- Task methods ---

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	var active int

	err := scanner.Scan(
		&t.ID, &t.Title, &t.Description, &t.PointsPerUnit, &t.UnitLabel,
		&t.Icon, &active, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Active = active != 0
	return &t, nil
}

const taskCols = `id, title, description, points_per_unit, unit_label, icon, is_active, created_at, updated_at`

func (s *TaskStore) Create(title, description string, pointsPerUnit int, unitLabel, icon string, active bool) (*model.Task, error) {
	var a int
	if active {
		a = 1
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO tasks (id, title, description, points_per_unit, unit_label, icon, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, title, description, pointsPerUnit, unitLabel, icon, a, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) GetByID(id string) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// List returns all tasks, active first, then by title.
func (s *TaskStore) List() ([]model.Task, error) {
	rows, err := s.db.Query(`SELECT ` + taskCols + ` FROM tasks ORDER BY is_active DESC, title ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// ListActive returns only active tasks, ordered by title.
func (s *TaskStore) ListActive() ([]model.Task, error) {
	rows, err := s.db.Query(`SELECT ` + taskCols + ` FROM tasks WHERE is_active = 1 ORDER BY title ASC`)
	if err != nil {
		return nil, fmt.Errorf("list active tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *TaskStore) Update(id, title, description string, pointsPerUnit int, unitLabel, icon string, active bool) (*model.Task, error) {
	var a int
	if active {
		a = 1
	}

	_, err := s.db.Exec(
		`UPDATE tasks SET title = ?, description = ?, points_per_unit = ?, unit_label = ?, icon = ?, is_active = ?, updated_at = ?
		 WHERE id = ?`,
		title, description, pointsPerUnit, unitLabel, icon, a, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a task; its completions go with it (ON DELETE CASCADE).
func (s *TaskStore) Delete(id string) error {
	result, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Completion methods ---

func scanCompletion(scanner interface{ Scan(...any) error }) (*model.TaskCompletion, error) {
	var c model.TaskCompletion
	err := scanner.Scan(&c.ID, &c.TaskID, &c.Quantity, &c.PointsEarned, &c.CompletedAt, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const completionCols = `id, task_id, quantity, points_earned, completed_at, created_at`

// Complete records a task completion and credits the earned points to the
// user record in the same transaction, so the history row and the balance
// can never disagree.
func (s *TaskStore) Complete(taskID string, quantity, pointsEarned int) (*model.TaskCompletion, *model.UserSettings, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err = tx.Exec(
		`INSERT INTO task_completions (id, task_id, quantity, points_earned, completed_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, taskID, quantity, pointsEarned, now, now,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("insert completion: %w", err)
	}

	result, err := tx.Exec(
		`UPDATE user_settings
		 SET current_points = current_points + ?, total_points_earned = total_points_earned + ?, updated_at = ?
		 WHERE id = (SELECT id FROM user_settings LIMIT 1)`,
		pointsEarned, pointsEarned, now,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("credit points: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, nil, ErrNotFound
	}

	completion, err := scanCompletion(tx.QueryRow(`SELECT `+completionCols+` FROM task_completions WHERE id = ?`, id))
	if err != nil {
		return nil, nil, fmt.Errorf("get completion: %w", err)
	}
	settings, err := scanUserSettings(tx.QueryRow(`SELECT ` + userSettingsCols + ` FROM user_settings LIMIT 1`))
	if err != nil {
		return nil, nil, fmt.Errorf("get user settings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	return completion, settings, nil
}

// ListRecentCompletions returns the newest completions joined with their
// task's display fields, ordered by completed_at descending.
func (s *TaskStore) ListRecentCompletions(limit int) ([]model.CompletionWithTask, error) {
	rows, err := s.db.Query(
		`SELECT c.id, c.task_id, c.quantity, c.points_earned, c.completed_at, c.created_at,
		        t.title, t.icon, t.unit_label
		 FROM task_completions c
		 JOIN tasks t ON t.id = c.task_id
		 ORDER BY c.completed_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent completions: %w", err)
	}
	defer rows.Close()

	var completions []model.CompletionWithTask
	for rows.Next() {
		var c model.CompletionWithTask
		err := rows.Scan(
			&c.ID, &c.TaskID, &c.Quantity, &c.PointsEarned, &c.CompletedAt, &c.CreatedAt,
			&c.TaskTitle, &c.TaskIcon, &c.UnitLabel,
		)
		if err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}
