package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zakaah-management/backend/internal/types"
	"gorm.io/gorm"
)

// LedgerEntry is a single general-ledger posting. Entries are fed into the
// backend by the surrounding accounting system and are the source for both
// account balances and the payment import.
type LedgerEntry struct {
	DefaultModel
	Company          Company `json:"-"`
	CompanyID        uuid.UUID
	Account          string // account name in the chart of accounts
	JournalReference string // identifier of the journal entry this posting belongs to
	PostingDate      types.Day
	Debit            decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Credit           decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Remarks          string
}

func (l *LedgerEntry) BeforeSave(_ *gorm.DB) error {
	l.Account = strings.TrimSpace(l.Account)
	l.JournalReference = strings.TrimSpace(l.JournalReference)
	l.Remarks = strings.TrimSpace(l.Remarks)

	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return ErrAmountNegative
	}

	return nil
}

func (l *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	_ = l.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*LedgerEntry)
	return tx.First(&Company{}, toSave.CompanyID).Error
}
