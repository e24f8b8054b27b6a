// Package notify delivers user-facing notifications on a best-effort
// basis. Delivery sits outside every financial commit: a slow or failing
// notifier must never block or roll back a balance mutation, so callers
// go through Send, which logs failures and swallows them.
package notify

import "yieldvault/internal/logger"

// Kind identifies the notification template to render.
type Kind string

const (
	KindDepositApproved     Kind = "deposit_approved"
	KindDepositRejected     Kind = "deposit_rejected"
	KindWithdrawalApproved  Kind = "withdrawal_approved"
	KindWithdrawalRejected  Kind = "withdrawal_rejected"
	KindInvestmentCompleted Kind = "investment_completed"
	KindReferralEarning     Kind = "referral_earning"
)

// Notification is the structured payload handed to the delivery backend.
type Notification struct {
	UserID      string
	Email       string
	Kind        Kind
	AmountCents int64
	Asset       string
	Reference   string
}

// Notifier delivers a single notification.
type Notifier interface {
	Notify(n Notification) error
}

// Send dispatches n through the notifier, logging and discarding any
// delivery error. A nil notifier is a no-op.
func Send(notifier Notifier, n Notification) {
	if notifier == nil {
		return
	}
	if err := notifier.Notify(n); err != nil {
		logger.Get().Warnw("notification delivery failed",
			"kind", n.Kind,
			"user_id", n.UserID,
			"error", err,
		)
	}
}

// LogNotifier writes notifications to the application log. It stands in
// for the external mail gateway in development and tests.
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(n Notification) error {
	logger.Get().Infow("notification",
		"kind", n.Kind,
		"user_id", n.UserID,
		"email", n.Email,
		"amount_cents", n.AmountCents,
		"asset", n.Asset,
		"reference", n.Reference,
	)
	return nil
}
