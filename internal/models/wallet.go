package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Wallet struct {
	bun.BaseModel `bun:"table:wallet"`
	UserID        string    `bun:"user_id,pk" json:"userId"`
	Address       string    `bun:"address,notnull,unique" json:"address"`
	PrivateKey    string    `bun:"private_key,notnull" json:"-"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"createdAt"`
}

type WalletInfo struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
	Created bool   `json:"created"`
}

type WalletSecret struct {
	Address    string `json:"address"`
	PrivateKey string `json:"privateKey"`
}
