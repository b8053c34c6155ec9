package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zakaah-management/backend/internal/types"
	"gorm.io/gorm"
)

// Payment is an incoming ledger transaction that is available to settle
// obligations. GrossAmount is fixed at import, AllocatedToDate only ever
// grows through allocations.
type Payment struct {
	DefaultModel
	Company          Company   `json:"-"`
	CompanyID        uuid.UUID `gorm:"uniqueIndex:payments_company_reference"`
	JournalReference string    `gorm:"uniqueIndex:payments_company_reference"` // identifier of the originating journal entry
	PostingDate      types.Day
	Note             string
	GrossAmount      decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	AllocatedToDate  decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

// Unallocated returns the amount that has not been assigned to an
// obligation yet.
func (p Payment) Unallocated() decimal.Decimal {
	return p.GrossAmount.Sub(p.AllocatedToDate)
}

// Reconciled reports whether the payment is fully allocated.
func (p Payment) Reconciled() bool {
	return p.Unallocated().IsZero()
}

func (p *Payment) BeforeSave(_ *gorm.DB) error {
	p.JournalReference = strings.TrimSpace(p.JournalReference)
	p.Note = strings.TrimSpace(p.Note)

	if p.GrossAmount.IsNegative() || p.AllocatedToDate.IsNegative() {
		return ErrAmountNegative
	}

	if p.AllocatedToDate.GreaterThan(p.GrossAmount) {
		return ErrPaymentOverAllocated
	}

	return nil
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	_ = p.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Payment)
	return tx.First(&Company{}, toSave.CompanyID).Error
}

// BeforeDelete keeps the audit trail intact: a payment that appears in
// allocation records cannot be removed.
func (p *Payment) BeforeDelete(tx *gorm.DB) error {
	var count int64
	err := tx.Model(&Allocation{}).Where("payment_id = ?", p.ID).Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return ErrPaymentHasAllocations
	}

	return nil
}
