package services

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUserIDRequired     = errors.New("User ID is required")
	ErrUserLock           = errors.New("request in progress")
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrInvalidAction      = errors.New("invalid action")
	ErrInvalidAmount      = errors.New("amount must be a positive integer")
	ErrInvalidHistoryType = errors.New("invalid history type")
	ErrMessageRequired    = errors.New("message is required")
	ErrClaimCooldown      = errors.New("claim is cooling down")
	ErrSelfReferral       = errors.New("cannot refer yourself")
	ErrAlreadyReferred    = errors.New("user already referred")
	ErrReferrerNotFound   = errors.New("referrer not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrTaskClosed         = errors.New("task is no longer available")
	ErrTaskFieldsRequired = errors.New("type, description and link are required")
	ErrInvalidLink        = errors.New("link must be an http(s) url")
	ErrInvalidWallet      = errors.New("wallet address is invalid")
	ErrAlreadySubmitted   = errors.New("task already submitted")
	ErrInvalidStatus      = errors.New("status must be accepted or declined")
	ErrNoSubmissions      = errors.New("submission ids are required")
	ErrUnknownConfigKey   = errors.New("unknown config key")
	ErrConfigValue        = errors.New("value must be a positive integer")
)

const (
	REASON_COOLDOWN          = "cooldown"
	REASON_SELF_REFERRAL     = "self_referral"
	REASON_ALREADY_REFERRED  = "already_referred"
	REASON_ALREADY_SUBMITTED = "already_submitted"

	DEFAULT_CLAIM_AMOUNT         = 100
	DEFAULT_CLAIM_COOLDOWN_HOURS = 24
	DEFAULT_TASK_REWARD          = 500

	HISTORY_DEFAULT_LIMIT = 10
	HISTORY_MAX_LIMIT     = 50

	CACHE_TTL_5_MINS = 5 * time.Minute
)

func LockKeyUserClaim(userID string) string {
	return fmt.Sprintf("lock:user-claim:%s", userID)
}

func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", key)
}

func DBKeyActiveTasks() string {
	return "task:active"
}
