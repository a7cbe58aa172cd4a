package model

import "time"

type Reward struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PointsCost  int       `json:"points_cost"`
	ImageURL    *string   `json:"image_url"`
	Icon        string    `json:"icon"`
	Available   bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Redemption statuses. A redemption is created PENDENTE and only ever
// transitions to CONCEDIDA via an explicit grant.
const (
	RedemptionPending = "PENDENTE"
	RedemptionGranted = "CONCEDIDA"
)

type RewardRedemption struct {
	ID          string     `json:"id"`
	RewardID    string     `json:"reward_id"`
	PointsSpent int        `json:"points_spent"`
	Status      string     `json:"status"`
	RedeemedAt  time.Time  `json:"redeemed_at"`
	GrantedAt   *time.Time `json:"granted_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// RedemptionWithReward is a redemption joined with the display fields of its reward.
type RedemptionWithReward struct {
	RewardRedemption
	RewardTitle string `json:"reward_title"`
	RewardIcon  string `json:"reward_icon"`
}
