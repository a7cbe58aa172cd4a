package model

import "time"

type Task struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	PointsPerUnit int       `json:"points_per_unit"`
	UnitLabel     string    `json:"unit_label"`
	Icon          string    `json:"icon"`
	Active        bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TaskCompletion records performing units of a task. Append-only.
type TaskCompletion struct {
	ID           string    `json:"id"`
	TaskID       string    `json:"task_id"`
	Quantity     int       `json:"quantity"`
	PointsEarned int       `json:"points_earned"`
	CompletedAt  time.Time `json:"completed_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// CompletionWithTask is a completion joined with the display fields of its task.
type CompletionWithTask struct {
	TaskCompletion
	TaskTitle string `json:"task_title"`
	TaskIcon  string `json:"task_icon"`
	UnitLabel string `json:"unit_label"`
}
