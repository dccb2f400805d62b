package models

import (
	"time"

	"github.com/uptrace/bun"
)

type HistoryType string

const (
	HistoryTypeClaim          HistoryType = "claim"
	HistoryTypeBalance        HistoryType = "balance"
	HistoryTypeReferral       HistoryType = "referral"
	HistoryTypeTaskSubmission HistoryType = "task_submission"
	HistoryTypeTaskReview     HistoryType = "task_review"
)

func (t HistoryType) Valid() bool {
	switch t {
	case HistoryTypeClaim, HistoryTypeBalance, HistoryTypeReferral, HistoryTypeTaskSubmission, HistoryTypeTaskReview:
		return true
	}
	return false
}

type HistoryEntry struct {
	bun.BaseModel `bun:"table:history"`
	ID            int64       `bun:"id,pk,autoincrement" json:"id"`
	UserID        string      `bun:"user_id,notnull" json:"userId"`
	Type          HistoryType `bun:"type,notnull" json:"type"`
	Message       string      `bun:"message,notnull" json:"message"`
	Read          bool        `bun:"is_read,notnull" json:"read"`
	CreatedAt     time.Time   `bun:"created_at,notnull" json:"createdAt"`
}
