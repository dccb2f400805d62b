package services

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ClaimAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trezzy_claim_attempts_total",
			Help: "Claim attempts by result",
		},
		[]string{"result"},
	)
	ReferralAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trezzy_referral_attempts_total",
			Help: "Referral registrations by result",
		},
		[]string{"result"},
	)
	BalanceUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trezzy_balance_updates_total",
			Help: "Balance mutations by action",
		},
		[]string{"action"},
	)
	TaskSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trezzy_task_submissions_total",
			Help: "Task submissions and reviews by status",
		},
		[]string{"status"},
	)
	WalletsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trezzy_wallets_created_total",
			Help: "Wallets issued",
		},
	)
)

func init() {
	prometheus.MustRegister(ClaimAttempts)
	prometheus.MustRegister(ReferralAttempts)
	prometheus.MustRegister(BalanceUpdates)
	prometheus.MustRegister(TaskSubmissions)
	prometheus.MustRegister(WalletsCreated)
}
