package models

import (
	"github.com/uptrace/bun"
)

const (
	CONFIG_ADMIN_IDS            = "ADMIN_IDS"
	CONFIG_CLAIM_AMOUNT         = "CLAIM_AMOUNT"
	CONFIG_CLAIM_COOLDOWN_HOURS = "CLAIM_COOLDOWN_HOURS"
	CONFIG_TASK_REWARD          = "TASK_REWARD"
)

type Config struct {
	bun.BaseModel `bun:"table:config"`
	Key           string `bun:"key,pk" json:"key"`
	Value         string `bun:"value" json:"value"`
}
