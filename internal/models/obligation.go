package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zakaah-management/backend/internal/types"
	"gorm.io/gorm"
)

// ObligationStatus describes how far an obligation is settled.
// It is fully derived from the balances, never stored.
type ObligationStatus string

const (
	ObligationStatusOpen          ObligationStatus = "Open"
	ObligationStatusPartiallyPaid ObligationStatus = "PartiallyPaid"
	ObligationStatusPaid          ObligationStatus = "Paid"
)

// Obligation is the zakaah due for one company and period, produced by a
// calculation run. TotalDue is fixed once the obligation exists, only
// PaidToDate moves - and only upwards, through allocations.
type Obligation struct {
	DefaultModel
	Company     Company   `json:"-"`
	CompanyID   uuid.UUID `gorm:"uniqueIndex:obligations_company_period"`
	PeriodLabel string    `gorm:"uniqueIndex:obligations_company_period"` // e.g. the Hijri year, "1446H"
	PeriodStart types.Day // ordering key, obligations are settled oldest first
	Note        string
	TotalDue    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	PaidToDate  decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

// Outstanding returns the amount that still needs to be paid.
func (o Obligation) Outstanding() decimal.Decimal {
	return o.TotalDue.Sub(o.PaidToDate)
}

// Status derives the settlement status from the balances.
func (o Obligation) Status() ObligationStatus {
	if o.Outstanding().IsZero() {
		return ObligationStatusPaid
	}

	if o.PaidToDate.IsPositive() {
		return ObligationStatusPartiallyPaid
	}

	return ObligationStatusOpen
}

func (o *Obligation) BeforeSave(_ *gorm.DB) error {
	o.PeriodLabel = strings.TrimSpace(o.PeriodLabel)
	o.Note = strings.TrimSpace(o.Note)

	if o.TotalDue.IsNegative() || o.PaidToDate.IsNegative() {
		return ErrAmountNegative
	}

	if o.PaidToDate.GreaterThan(o.TotalDue) {
		return ErrObligationOverpaid
	}

	return nil
}

func (o *Obligation) BeforeCreate(tx *gorm.DB) error {
	_ = o.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Obligation)
	return tx.First(&Company{}, toSave.CompanyID).Error
}

// BeforeDelete keeps the audit trail intact: an obligation that appears
// in allocation records cannot be removed.
func (o *Obligation) BeforeDelete(tx *gorm.DB) error {
	var count int64
	err := tx.Model(&Allocation{}).Where("obligation_id = ?", o.ID).Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return ErrObligationHasAllocations
	}

	return nil
}
