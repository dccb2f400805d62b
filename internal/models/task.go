package models

import (
	"time"

	"github.com/uptrace/bun"
)

type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusAccepted SubmissionStatus = "accepted"
	SubmissionStatusDeclined SubmissionStatus = "declined"
)

type Task struct {
	bun.BaseModel `bun:"table:task"`
	ID            string     `bun:"id,pk" json:"id"`
	Type          string     `bun:"type,notnull" json:"type"`
	Slug          string     `bun:"slug,notnull" json:"slug"`
	Description   string     `bun:"description,notnull" json:"description"`
	Link          string     `bun:"link,notnull" json:"link"`
	Reward        int64      `bun:"reward,notnull" json:"reward"`
	Active        bool       `bun:"active,notnull" json:"active"`
	CreatedAt     time.Time  `bun:"created_at,notnull" json:"createdAt"`
	ExpiresAt     *time.Time `bun:"expires_at" json:"expiresAt,omitempty"`
}

// Open reports whether the task can still be listed and submitted at t.
func (task *Task) Open(t time.Time) bool {
	if !task.Active {
		return false
	}
	return task.ExpiresAt == nil || task.ExpiresAt.After(t)
}

type TaskSubmission struct {
	bun.BaseModel `bun:"table:task_submission"`
	ID            int64            `bun:"id,pk,autoincrement" json:"id"`
	UserID        string           `bun:"user_id,notnull" json:"userId"`
	TaskID        string           `bun:"task_id,notnull" json:"taskId"`
	WalletAddress string           `bun:"wallet_address,notnull" json:"walletAddress"`
	Handle        string           `bun:"handle" json:"handle"`
	Status        SubmissionStatus `bun:"status,notnull" json:"status"`
	CreatedAt     time.Time        `bun:"created_at,notnull" json:"createdAt"`
	ReviewedAt    *time.Time       `bun:"reviewed_at" json:"reviewedAt,omitempty"`
}

type UserSubmissions struct {
	UserID      string            `json:"userId"`
	Handle      string            `json:"handle"`
	Submissions []*TaskSubmission `json:"submissions"`
}

type ReviewResult struct {
	Updated  int `json:"updated"`
	Credited int `json:"credited"`
}

type TaskInput struct {
	Type        string     `json:"type"`
	Description string     `json:"description"`
	Link        string     `json:"link"`
	Reward      int64      `json:"reward"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

type SubmissionInput struct {
	UserID        string `json:"userId"`
	TaskID        string `json:"taskId"`
	WalletAddress string `json:"walletAddress"`
	Handle        string `json:"handle"`
}
