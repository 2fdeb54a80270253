package models

import "time"

// Prize - позиция каталога призов с ограниченным остатком.
type Prize struct {
	ID          int     `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	PointsCost  int     `json:"points" db:"points_cost"`
	Quantity    int     `json:"quantity" db:"quantity"`
	Description *string `json:"description" db:"description"`
}

// Claim is an immutable record of one prize unit exchanged for points.
type Claim struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	PrizeID   int       `json:"prize_id" db:"prize_id"`
	ClaimedAt time.Time `json:"claimed_at" db:"claimed_at"`

	Prize *Prize `json:"prize,omitempty" db:"-"`
}

// ClaimReceipt is returned to the participant after a successful claim.
type ClaimReceipt struct {
	PrizeID         int    `json:"prize_id"`
	PrizeName       string `json:"prize_name"`
	RemainingPoints int    `json:"remaining_points"`
	RemainingStock  int    `json:"-"`
}
