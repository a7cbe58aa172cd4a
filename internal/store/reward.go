package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pontosapp/pontos/internal/model"
)

type RewardStore struct {
	db *sql.DB
}

func NewRewardStore(db *sql.DB) *RewardStore {
	return &RewardStore{db: db}
}

// --- Reward methods ---

func scanReward(scanner interface{ Scan(...any) error }) (*model.Reward, error) {
	var r model.Reward
	var imageURL sql.NullString
	var available int

	err := scanner.Scan(
		&r.ID, &r.Title, &r.Description, &r.PointsCost, &imageURL,
		&r.Icon, &available, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if imageURL.Valid {
		r.ImageURL = &imageURL.String
	}
	r.Available = available != 0
	return &r, nil
}

const rewardCols = `id, title, description, points_cost, image_url, icon, is_available, created_at, updated_at`

func (s *RewardStore) Create(title, description string, pointsCost int, imageURL *string, icon string, available bool) (*model.Reward, error) {
	var img sql.NullString
	if imageURL != nil {
		img = sql.NullString{String: *imageURL, Valid: true}
	}
	var a int
	if available {
		a = 1
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO rewards (id, title, description, points_cost, image_url, icon, is_available, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, title, description, pointsCost, img, icon, a, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert reward: %w", err)
	}
	return s.GetByID(id)
}

func (s *RewardStore) GetByID(id string) (*model.Reward, error) {
	row := s.db.QueryRow(`SELECT `+rewardCols+` FROM rewards WHERE id = ?`, id)
	r, err := scanReward(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reward: %w", err)
	}
	return r, nil
}

// ListAvailable returns available rewards, cheapest first.
func (s *RewardStore) ListAvailable() ([]model.Reward, error) {
	rows, err := s.db.Query(`SELECT ` + rewardCols + ` FROM rewards WHERE is_available = 1 ORDER BY points_cost ASC`)
	if err != nil {
		return nil, fmt.Errorf("list available rewards: %w", err)
	}
	defer rows.Close()

	var rewards []model.Reward
	for rows.Next() {
		r, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		rewards = append(rewards, *r)
	}
	return rewards, rows.Err()
}

// List returns all rewards, available first, then cheapest first.
func (s *RewardStore) List() ([]model.Reward, error) {
	rows, err := s.db.Query(`SELECT ` + rewardCols + ` FROM rewards ORDER BY is_available DESC, points_cost ASC`)
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	defer rows.Close()

	var rewards []model.Reward
	for rows.Next() {
		r, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		rewards = append(rewards, *r)
	}
	return rewards, rows.Err()
}

func (s *RewardStore) Update(id, title, description string, pointsCost int, imageURL *string, icon string, available bool) (*model.Reward, error) {
	var img sql.NullString
	if imageURL != nil {
		img = sql.NullString{String: *imageURL, Valid: true}
	}
	var a int
	if available {
		a = 1
	}

	_, err := s.db.Exec(
		`UPDATE rewards SET title = ?, description = ?, points_cost = ?, image_url = ?, icon = ?, is_available = ?, updated_at = ?
		 WHERE id = ?`,
		title, description, pointsCost, img, icon, a, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update reward: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a reward; its redemptions go with it (ON DELETE CASCADE).
func (s *RewardStore) Delete(id string) error {
	result, err := s.db.Exec(`DELETE FROM rewards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reward: %w", err)
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

// --- Redemption methods ---

func scanRedemption(scanner interface{ Scan(...any) error }) (*model.RewardRedemption, error) {
	var r model.RewardRedemption
	var grantedAt sql.NullTime

	err := scanner.Scan(&r.ID, &r.RewardID, &r.PointsSpent, &r.Status, &r.RedeemedAt, &grantedAt, &r.CreatedAt)
	if err != nil {
		return nil, err
	}

	if grantedAt.Valid {
		r.GrantedAt = &grantedAt.Time
	}
	return &r, nil
}

const redemptionCols = `id, reward_id, points_spent, status, redeemed_at, granted_at, created_at`

// Redeem creates a PENDENTE redemption and debits the spent points from the
// user record in the same transaction. The debit is guarded: if the balance
// is short the whole transaction fails with ErrInsufficientPoints and no
// redemption row is created.
func (s *RewardStore) Redeem(rewardID string, pointsSpent int) (*model.RewardRedemption, *model.UserSettings, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.Exec(
		`UPDATE user_settings SET current_points = current_points - ?, updated_at = ?
		 WHERE id = (SELECT id FROM user_settings LIMIT 1) AND current_points >= ?`,
		pointsSpent, now, pointsSpent,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("debit points: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		var exists int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM user_settings`).Scan(&exists); err != nil {
			return nil, nil, fmt.Errorf("check user settings: %w", err)
		}
		if exists == 0 {
			return nil, nil, ErrNotFound
		}
		return nil, nil, ErrInsufficientPoints
	}

	id := uuid.NewString()
	_, err = tx.Exec(
		`INSERT INTO reward_redemptions (id, reward_id, points_spent, status, redeemed_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, rewardID, pointsSpent, model.RedemptionPending, now, now,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("insert redemption: %w", err)
	}

	redemption, err := scanRedemption(tx.QueryRow(`SELECT `+redemptionCols+` FROM reward_redemptions WHERE id = ?`, id))
	if err != nil {
		return nil, nil, fmt.Errorf("get redemption: %w", err)
	}
	settings, err := scanUserSettings(tx.QueryRow(`SELECT ` + userSettingsCols + ` FROM user_settings LIMIT 1`))
	if err != nil {
		return nil, nil, fmt.Errorf("get user settings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	return redemption, settings, nil
}

// Grant transitions a redemption from PENDENTE to CONCEDIDA and stamps
// granted_at. Granting a missing redemption returns ErrNotFound; granting one
// that already left PENDENTE returns ErrAlreadyGranted.
func (s *RewardStore) Grant(id string) (*model.RewardRedemption, error) {
	result, err := s.db.Exec(
		`UPDATE reward_redemptions SET status = ?, granted_at = ? WHERE id = ? AND status = ?`,
		model.RedemptionGranted, time.Now().UTC(), id, model.RedemptionPending,
	)
	if err != nil {
		return nil, fmt.Errorf("grant redemption: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		var status string
		err := s.db.QueryRow(`SELECT status FROM reward_redemptions WHERE id = ?`, id).Scan(&status)
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("check redemption: %w", err)
		}
		return nil, ErrAlreadyGranted
	}

	row := s.db.QueryRow(`SELECT `+redemptionCols+` FROM reward_redemptions WHERE id = ?`, id)
	return scanRedemption(row)
}

// ListRecentRedemptions returns the newest redemptions joined with their
// reward's display fields, ordered by redeemed_at descending.
func (s *RewardStore) ListRecentRedemptions(limit int) ([]model.RedemptionWithReward, error) {
	rows, err := s.db.Query(
		`SELECT rd.id, rd.reward_id, rd.points_spent, rd.status, rd.redeemed_at, rd.granted_at, rd.created_at,
		        rw.title, rw.icon
		 FROM reward_redemptions rd
		 JOIN rewards rw ON rw.id = rd.reward_id
		 ORDER BY rd.redeemed_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent redemptions: %w", err)
	}
	defer rows.Close()

	var redemptions []model.RedemptionWithReward
	for rows.Next() {
		var r model.RedemptionWithReward
		var grantedAt sql.NullTime
		err := rows.Scan(
			&r.ID, &r.RewardID, &r.PointsSpent, &r.Status, &r.RedeemedAt, &grantedAt, &r.CreatedAt,
			&r.RewardTitle, &r.RewardIcon,
		)
		if err != nil {
			return nil, fmt.Errorf("scan redemption: %w", err)
		}
		if grantedAt.Valid {
			r.GrantedAt = &grantedAt.Time
		}
		redemptions = append(redemptions, r)
	}
	return redemptions, rows.Err()
}
