package model

import "time"

// UserSettings is the singleton user record: profile plus the points counters.
// current_points never goes negative; total_points_earned only grows.
type UserSettings struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	AvatarURL         *string   `json:"avatar_url"`
	CurrentPoints     int       `json:"current_points"`
	TotalPointsEarned int       `json:"total_points_earned"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
