package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ClaimState holds the last granted claim per user. Absent means never claimed.
type ClaimState struct {
	bun.BaseModel `bun:"table:claim_state"`
	UserID        string    `bun:"user_id,pk" json:"userId"`
	LastClaimAt   time.Time `bun:"last_claim_at,notnull" json:"lastClaimAt"`
}

type ClaimResult struct {
	Success bool  `json:"success"`
	Amount  int64 `json:"amount"`
	Balance int64 `json:"balance"`
}
