package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pontosapp/pontos/internal/model"
)

type UserSettingsStore struct {
	db *sql.DB
}

func NewUserSettingsStore(db *sql.DB) *UserSettingsStore {
	return &UserSettingsStore{db: db}
}

func scanUserSettings(scanner interface{ Scan(...any) error }) (*model.UserSettings, error) {
	var u model.UserSettings
	var avatar sql.NullString

	err := scanner.Scan(&u.ID, &u.Name, &avatar, &u.CurrentPoints, &u.TotalPointsEarned, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if avatar.Valid {
		u.AvatarURL = &avatar.String
	}
	return &u, nil
}

const userSettingsCols = `id, name, avatar_url, current_points, total_points_earned, created_at, updated_at`

// Get returns the singleton user record, or nil if none exists.
func (s *UserSettingsStore) Get() (*model.UserSettings, error) {
	row := s.db.QueryRow(`SELECT ` + userSettingsCols + ` FROM user_settings LIMIT 1`)
	u, err := scanUserSettings(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user settings: %w", err)
	}
	return u, nil
}

func (s *UserSettingsStore) GetByID(id string) (*model.UserSettings, error) {
	row := s.db.QueryRow(`SELECT `+userSettingsCols+` FROM user_settings WHERE id = ?`, id)
	u, err := scanUserSettings(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user settings by id: %w", err)
	}
	return u, nil
}

// SetPoints overwrites current_points with an absolute value.
func (s *UserSettingsStore) SetPoints(id string, points int) (*model.UserSettings, error) {
	result, err := s.db.Exec(
		`UPDATE user_settings SET current_points = ?, updated_at = ? WHERE id = ?`,
		points, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("set points: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(id)
}

// AddPoints credits both counters in a single relative update, so concurrent
// writers cannot lose an increment to a stale read.
func (s *UserSettingsStore) AddPoints(id string, points int) (*model.UserSettings, error) {
	result, err := s.db.Exec(
		`UPDATE user_settings
		 SET current_points = current_points + ?, total_points_earned = total_points_earned + ?, updated_at = ?
		 WHERE id = ?`,
		points, points, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("add points: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(id)
}

// SubtractPoints debits current_points. The update is guarded so the balance
// can never go negative, even if the caller's view of it was stale.
func (s *UserSettingsStore) SubtractPoints(id string, points int) (*model.UserSettings, error) {
	result, err := s.db.Exec(
		`UPDATE user_settings SET current_points = current_points - ?, updated_at = ?
		 WHERE id = ? AND current_points >= ?`,
		points, time.Now().UTC(), id, points,
	)
	if err != nil {
		return nil, fmt.Errorf("subtract points: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		existing, err := s.GetByID(id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrNotFound
		}
		return nil, ErrInsufficientPoints
	}
	return s.GetByID(id)
}

func (s *UserSettingsStore) UpdateProfile(id, name string, avatarURL *string) (*model.UserSettings, error) {
	var avatar sql.NullString
	if avatarURL != nil {
		avatar = sql.NullString{String: *avatarURL, Valid: true}
	}

	result, err := s.db.Exec(
		`UPDATE user_settings SET name = ?, avatar_url = ?, updated_at = ? WHERE id = ?`,
		name, avatar, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(id)
}
