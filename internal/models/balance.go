package models

import (
	"time"

	"github.com/uptrace/bun"
)

type BalanceAction string

const (
	BalanceActionAdd    BalanceAction = "add"
	BalanceActionDeduct BalanceAction = "deduct"
	BalanceActionSet    BalanceAction = "set"
)

func (a BalanceAction) Valid() bool {
	switch a {
	case BalanceActionAdd, BalanceActionDeduct, BalanceActionSet:
		return true
	}
	return false
}

type UserBalance struct {
	bun.BaseModel `bun:"table:user_balance"`
	UserID        string    `bun:"user_id,pk" json:"userId"`
	Balance       int64     `bun:"balance,notnull" json:"balance"`
	UpdatedAt     time.Time `bun:"updated_at,notnull" json:"updatedAt"`
}
