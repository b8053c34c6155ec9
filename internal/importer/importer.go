// Package importer builds payments from general-ledger postings.
//
// Only unreconciled journal entries become payments: references that were
// already imported are skipped, so repeated imports are safe.
package importer

import (
	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"github.com/shopspring/decimal"
	"github.com/zakaah-management/backend/internal/models"
	"github.com/zakaah-management/backend/internal/types"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// Result holds the outcome of a payment import.
type Result struct {
	Payments []models.Payment // new payments, posting-date order, not yet persisted
	Skipped  int              // journal references skipped because they were already imported
}

// FromLedger collects the debit postings for accounts matching any of the
// given glob patterns in the date range and turns them into payments, one
// per journal reference.
//
// The returned payments are not persisted; the caller decides whether to
// save them.
func FromLedger(db *gorm.DB, companyID uuid.UUID, from, until types.Day, accountPatterns []string) (Result, error) {
	var entries []models.LedgerEntry

	err := db.
		Where("company_id = ?", companyID).
		Where("posting_date >= date(?) AND posting_date <= date(?)", from, until).
		Order("posting_date ASC, journal_reference ASC").
		Find(&entries).Error
	if err != nil {
		return Result{}, err
	}

	// One payment per journal reference, debit amounts summed over all
	// matching postings of the entry
	type pending struct {
		payment models.Payment
		order   int
	}
	grouped := map[string]*pending{}

	for _, entry := range entries {
		if !matchesAny(entry.Account, accountPatterns) {
			continue
		}

		p, ok := grouped[entry.JournalReference]
		if !ok {
			p = &pending{
				payment: models.Payment{
					CompanyID:        companyID,
					JournalReference: entry.JournalReference,
					PostingDate:      entry.PostingDate,
					Note:             entry.Remarks,
					GrossAmount:      decimal.Zero,
					AllocatedToDate:  decimal.Zero,
				},
				order: len(grouped),
			}
			grouped[entry.JournalReference] = p
		}

		p.payment.GrossAmount = p.payment.GrossAmount.Add(entry.Debit)
	}

	result := Result{Payments: []models.Payment{}}

	pendings := make([]*pending, 0, len(grouped))
	for _, p := range grouped {
		pendings = append(pendings, p)
	}
	slices.SortFunc(pendings, func(a, b *pending) int {
		return a.order - b.order
	})

	for _, p := range pendings {
		// References that are already imported stay untouched: their
		// allocation state lives on the existing payment
		var count int64
		err = db.
			Model(&models.Payment{}).
			Where("company_id = ? AND journal_reference = ?", companyID, p.payment.JournalReference).
			Count(&count).Error
		if err != nil {
			return Result{}, err
		}

		if count > 0 || !p.payment.GrossAmount.IsPositive() {
			result.Skipped++
			continue
		}

		result.Payments = append(result.Payments, p.payment)
	}

	return result, nil
}

// matchesAny reports whether the account matches at least one of the
// glob patterns. An empty pattern list matches nothing, callers have to
// select accounts explicitly.
func matchesAny(account string, patterns []string) bool {
	for _, pattern := range patterns {
		if glob.Glob(pattern, account) {
			return true
		}
	}

	return false
}
