package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "yieldvault/internal/errors"
	"yieldvault/internal/logger"
	"yieldvault/internal/models"
	"yieldvault/internal/notify"
	"yieldvault/internal/observability"
)

// accrualService walks active investments and credits elapsed-day yield.
type accrualService struct {
	db       *gorm.DB
	ledger   LedgerServicer
	referral ReferralServicer
	settings SettingsServicer
	notifier notify.Notifier
}

// NewAccrualService creates a new AccrualServicer.
func NewAccrualService(db *gorm.DB, ledger LedgerServicer, referral ReferralServicer, settings SettingsServicer, notifier notify.Notifier) AccrualServicer {
	return &accrualService{db: db, ledger: ledger, referral: referral, settings: settings, notifier: notifier}
}

// wholeDays returns the number of complete 24-hour periods in d.
func wholeDays(d time.Duration) int64 {
	return int64(d / (24 * time.Hour))
}

// dailyReturnCents computes one day of yield on the principal, rounded
// half away from zero at the cent.
func dailyReturnCents(amountCents, roiBps int64) int64 {
	return (amountCents*roiBps + 5000) / 10000
}

// RunAccrualPass processes every active investment once. It is invoked
// by the external scheduler and is idempotent at day granularity:
// re-running it before another whole day has elapsed credits nothing.
//
// Each investment is handled in its own transaction. A failed investment
// is logged and skipped; because last_roi_accrued_at only advances
// inside the same commit as the credit, the next pass simply retries it
// with the same elapsed-day computation.
func (s *accrualService) RunAccrualPass(now time.Time) (*AccrualReport, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return nil, err
	}

	var investments []models.Investment
	if err := s.db.Preload("Plan").Preload("User").
		Where("status = ?", models.InvestmentStatusActive).
		Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report := &AccrualReport{}
	for i := range investments {
		inv := &investments[i]
		report.Processed++

		profit, completed, skipped, credits, err := s.accrueOne(inv, now, settings)
		switch {
		case err != nil:
			report.Failed++
			observability.ObserveAccrual("failed", 0)
			logger.Get().Errorw("accrual failed for investment",
				"investment_id", inv.ID,
				"user_id", inv.UserID,
				"error", err,
			)
			continue
		case skipped:
			report.Skipped++
			observability.ObserveAccrual("skipped", 0)
			continue
		}

		report.ProfitCents += profit
		if profit > 0 {
			report.Credited++
		}
		if completed {
			report.Completed++
			observability.ObserveAccrual("completed", profit)
			// Outside the financial commit; a stuck notifier can
			// neither block nor roll back the credit.
			notify.Send(s.notifier, notify.Notification{
				UserID:      inv.UserID,
				Email:       inv.User.Email,
				Kind:        notify.KindInvestmentCompleted,
				AmountCents: inv.AmountCents + profit,
				Reference:   inv.ID,
			})
		} else {
			observability.ObserveAccrual("credited", profit)
		}
		for _, c := range credits {
			notify.Send(s.notifier, notify.Notification{
				UserID:      c.EarnerID,
				Email:       c.EarnerEmail,
				Kind:        notify.KindReferralEarning,
				AmountCents: c.AmountCents,
				Reference:   inv.ID,
			})
		}
	}

	return report, nil
}

// accrueOne credits one investment's elapsed yield in a single
// transaction: the accrued-return increment, the accrual watermark, the
// balance credit, the ledger entries, the completion transition, and the
// referral cascade all commit or roll back together.
func (s *accrualService) accrueOne(inv *models.Investment, now time.Time, settings models.Settings) (profitCents int64, completed, skipped bool, credits []CommissionCredit, err error) {
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Re-read transactionally fresh; the row may have changed
		// between the scan and this commit.
		var current models.Investment
		if txErr := tx.First(&current, "id = ?", inv.ID).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		if current.Status != models.InvestmentStatusActive {
			skipped = true
			return nil
		}

		elapsed := wholeDays(now.Sub(current.LastRoiAccruedAt))
		// Yield never accrues past the contractual end date, even when
		// the scheduler missed several ticks.
		if current.EndDate != nil {
			if remaining := wholeDays(current.EndDate.Sub(current.LastRoiAccruedAt)); elapsed > remaining {
				elapsed = remaining
			}
		}

		willComplete := current.EndDate != nil && !now.Before(*current.EndDate)
		if elapsed <= 0 && !willComplete {
			skipped = true
			return nil
		}

		profit := int64(0)
		if elapsed > 0 {
			profit = dailyReturnCents(current.AmountCents, inv.Plan.DailyRoiBps) * elapsed
		}

		updates := map[string]interface{}{
			"accrued_return_cents": gorm.Expr("accrued_return_cents + ?", profit),
			"last_roi_accrued_at":  now,
		}
		if willComplete {
			updates["status"] = models.InvestmentStatusCompleted
		}
		if txErr := tx.Model(&models.Investment{}).Where("id = ?", current.ID).Updates(updates).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		if profit > 0 {
			entry := &models.Transaction{
				Type:        models.TransactionTypeInvestmentReturn,
				AmountCents: profit,
				Status:      models.TransactionStatusCompleted,
				Reference:   current.ID,
				Meta:        fmt.Sprintf("yield for %d day(s)", elapsed),
			}
			if txErr := s.ledger.ApplyBalanceDelta(tx, current.UserID, profit, entry); txErr != nil {
				return txErr
			}
		}

		if willComplete {
			entry := &models.Transaction{
				Type:        models.TransactionTypeInvestmentReturn,
				AmountCents: current.AmountCents,
				Status:      models.TransactionStatusCompleted,
				Reference:   current.ID,
				Meta:        "principal return",
			}
			if txErr := s.ledger.ApplyBalanceDelta(tx, current.UserID, current.AmountCents, entry); txErr != nil {
				return txErr
			}
		}

		if profit > 0 {
			paid, txErr := s.referral.Distribute(tx, &inv.User, profit, &current.ID, settings)
			if txErr != nil {
				return txErr
			}
			credits = paid
		}

		profitCents = profit
		completed = willComplete
		return nil
	})
	if err != nil {
		credits = nil
	}
	return profitCents, completed, skipped, credits, err
}
