// Package observability exposes Prometheus collectors for the accrual
// engine and the review workflows.
package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	accrualRunCounter     *prometheus.CounterVec
	accrualCreditedCents  prometheus.Counter
	depositReviewCounter  *prometheus.CounterVec
	withdrawalReviewCount *prometheus.CounterVec
	referralPayoutCounter *prometheus.CounterVec
)

// Init registers all Prometheus collectors. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		accrualRunCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accrual_investments_total",
			Help: "Investments handled by accrual passes, by outcome",
		}, []string{"outcome"})

		accrualCreditedCents = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "accrual_credited_cents_total",
			Help: "Total yield credited by accrual passes, in cents",
		})

		depositReviewCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "deposit_reviews_total",
			Help: "Deposit review decisions",
		}, []string{"decision"})

		withdrawalReviewCount = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "withdrawal_reviews_total",
			Help: "Withdrawal review decisions",
		}, []string{"decision"})

		referralPayoutCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "referral_payouts_total",
			Help: "Referral commissions paid, by level",
		}, []string{"level"})

		prometheus.MustRegister(
			accrualRunCounter,
			accrualCreditedCents,
			depositReviewCounter,
			withdrawalReviewCount,
			referralPayoutCounter,
		)
	})
}

// ObserveAccrual records one investment's accrual outcome
// ("credited", "completed", "skipped", or "failed") and the cents credited.
func ObserveAccrual(outcome string, creditedCents int64) {
	if accrualRunCounter == nil {
		return
	}
	accrualRunCounter.WithLabelValues(outcome).Inc()
	if creditedCents > 0 {
		accrualCreditedCents.Add(float64(creditedCents))
	}
}

// ObserveDepositReview records an approve/reject decision on a deposit.
func ObserveDepositReview(decision string) {
	if depositReviewCounter == nil {
		return
	}
	depositReviewCounter.WithLabelValues(decision).Inc()
}

// ObserveWithdrawalReview records an approve/reject decision on a withdrawal.
func ObserveWithdrawalReview(decision string) {
	if withdrawalReviewCount == nil {
		return
	}
	withdrawalReviewCount.WithLabelValues(decision).Inc()
}

// ObserveReferralPayout records one commission credit at the given level.
func ObserveReferralPayout(level string) {
	if referralPayoutCounter == nil {
		return
	}
	referralPayoutCounter.WithLabelValues(level).Inc()
}
