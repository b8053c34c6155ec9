package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Allocation is the audit record for one amount moved from a payment to
// an obligation. Records are append-only: once written, they are never
// updated or deleted.
type Allocation struct {
	DefaultModel
	Obligation     Obligation `json:"-"`
	ObligationID   uuid.UUID
	Payment        Payment `json:"-"`
	PaymentID      uuid.UUID
	Amount         decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	AllocationDate time.Time       // time of the allocation run, not the payment's posting date
}

func (a *Allocation) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Allocation)
	if !toSave.Amount.IsPositive() {
		return ErrAllocationAmountNotPositive
	}

	err := tx.First(&Obligation{}, toSave.ObligationID).Error
	if err != nil {
		return err
	}

	return tx.First(&Payment{}, toSave.PaymentID).Error
}

func (a *Allocation) BeforeSave(_ *gorm.DB) error {
	if a.AllocationDate.IsZero() {
		a.AllocationDate = time.Now().In(time.UTC)
	} else {
		a.AllocationDate = a.AllocationDate.In(time.UTC)
	}

	return nil
}

// BeforeUpdate rejects every update. The allocation ledger is the audit
// trail for reconciliation, corrections happen through new records.
func (a *Allocation) BeforeUpdate(_ *gorm.DB) error {
	return ErrAllocationImmutable
}

// BeforeDelete rejects every delete, see BeforeUpdate. The cleanup
// endpoint resets the whole database and skips hooks explicitly.
func (a *Allocation) BeforeDelete(_ *gorm.DB) error {
	return ErrAllocationImmutable
}
