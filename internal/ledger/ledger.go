// Package ledger is the boundary to the general ledger.
//
// The allocation and calculation code only ever sees the BalanceProvider
// interface; how balances come into existence (here: from the
// ledger_entries table, in the surrounding system: from the ERP) is not
// its concern.
package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zakaah-management/backend/internal/models"
	"github.com/zakaah-management/backend/internal/types"
	"gorm.io/gorm"
)

// BalanceProvider resolves account balances for the zakaah calculation.
type BalanceProvider interface {
	// BalanceAsOf returns the absolute balance of an account as of the
	// given day, trial-balance style.
	BalanceAsOf(companyID uuid.UUID, account string, asOf types.Day) (decimal.Decimal, error)

	// DebitTotal returns the total debit booked to an account in the
	// inclusive date range.
	DebitTotal(companyID uuid.UUID, account string, from, until types.Day) (decimal.Decimal, error)

	// Accounts returns the distinct account names that have postings for
	// the company.
	Accounts(companyID uuid.UUID) ([]string, error)
}

// Database provides balances from the ledger_entries table.
type Database struct {
	DB *gorm.DB
}

var _ BalanceProvider = Database{}

type sums struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// BalanceAsOf returns the absolute balance of an account as of the given
// day. The absolute value is used so that asset and liability accounts
// can be summed uniformly, matching the trial balance of the source
// system.
func (d Database) BalanceAsOf(companyID uuid.UUID, account string, asOf types.Day) (decimal.Decimal, error) {
	var result sums

	err := d.DB.
		Model(&models.LedgerEntry{}).
		Select("COALESCE(SUM(debit), 0) AS debit, COALESCE(SUM(credit), 0) AS credit").
		Where("company_id = ? AND account = ?", companyID, account).
		Where("posting_date <= date(?)", asOf).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}

	return result.Debit.Sub(result.Credit).Abs(), nil
}

// DebitTotal returns the total debit booked to an account in the
// inclusive date range. Payment accounts are always on the debit side,
// so this is the amount that was paid out through the account.
func (d Database) DebitTotal(companyID uuid.UUID, account string, from, until types.Day) (decimal.Decimal, error) {
	var result sums

	err := d.DB.
		Model(&models.LedgerEntry{}).
		Select("COALESCE(SUM(debit), 0) AS debit, COALESCE(SUM(credit), 0) AS credit").
		Where("company_id = ? AND account = ?", companyID, account).
		Where("posting_date >= date(?) AND posting_date <= date(?)", from, until).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}

	return result.Debit, nil
}

// Accounts returns the distinct account names with postings for the
// company, sorted by name.
func (d Database) Accounts(companyID uuid.UUID) ([]string, error) {
	var accounts []string

	err := d.DB.
		Model(&models.LedgerEntry{}).
		Where("company_id = ?", companyID).
		Distinct().
		Order("account ASC").
		Pluck("account", &accounts).Error
	if err != nil {
		return nil, err
	}

	return accounts, nil
}
