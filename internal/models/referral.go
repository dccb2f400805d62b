package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Referral struct {
	bun.BaseModel `bun:"table:referral"`
	ReferredID    string    `bun:"referred_id,pk" json:"referredId"`
	ReferrerID    string    `bun:"referrer_id,notnull" json:"referrerId"`
	Handle        string    `bun:"handle" json:"handle"`
	Reward        int64     `bun:"reward,notnull" json:"reward"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"createdAt"`
}

type ReferralResult struct {
	Success bool  `json:"success"`
	Reward  int64 `json:"reward"`
}
