// Package calculation materializes zakaah obligations from an assets
// configuration.
//
// All required balances are resolved first through the ledger boundary,
// then the margins and the rate are applied as pure arithmetic. The
// original system interleaved remote balance lookups with the
// computation; resolving everything up front removes that ordering
// dependency.
package calculation

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/zakaah-management/backend/internal/allocation"
	"github.com/zakaah-management/backend/internal/ledger"
	"github.com/zakaah-management/backend/internal/models"
)

// Rate is the zakaah rate of 2.5%.
var Rate = decimal.New(25, -3)

var ErrNoAccounts = errors.New("the assets configuration has no accounts")

// Run resolves the balances for all accounts of a configuration, applies
// the adjustment margins and returns the resulting obligation together
// with the updated account rows.
//
// Asset classes add to the zakaah base, liability and reserve classes
// subtract from it. Payment accounts never contribute to the base: their
// balance is the debit total over the period and is kept for the payment
// reconciliation views only. A negative net base clamps to zero, so a
// company with more deductions than assets owes nothing.
func Run(provider ledger.BalanceProvider, config models.Configuration, accounts []models.ConfigurationAccount) (models.Obligation, []models.ConfigurationAccount, error) {
	if len(accounts) == 0 {
		return models.Obligation{}, nil, ErrNoAccounts
	}

	base := decimal.Zero

	updated := make([]models.ConfigurationAccount, 0, len(accounts))
	for _, account := range accounts {
		var err error
		var balance decimal.Decimal

		if account.Class == models.AccountClassPayment {
			balance, err = provider.DebitTotal(config.CompanyID, account.Account, config.PeriodStart, config.PeriodEnd)
		} else {
			balance, err = provider.BalanceAsOf(config.CompanyID, account.Account, config.PeriodEnd)
		}

		if err != nil {
			return models.Obligation{}, nil, fmt.Errorf("could not resolve balance for account %q: %w", account.Account, err)
		}

		account.Balance = balance
		account.AdjustedValue = allocation.AdjustedValue(balance, account.Margin)

		switch {
		case account.Class == models.AccountClassPayment:
			// not part of the base
		case account.Class.Deductible():
			base = base.Sub(account.AdjustedValue)
		default:
			base = base.Add(account.AdjustedValue)
		}

		updated = append(updated, account)
	}

	if base.IsNegative() {
		base = decimal.Zero
	}

	obligation := models.Obligation{
		CompanyID:   config.CompanyID,
		PeriodLabel: config.PeriodLabel,
		PeriodStart: config.PeriodStart,
		TotalDue:    base.Mul(Rate).Round(2),
		PaidToDate:  decimal.Zero,
	}

	return obligation, updated, nil
}
