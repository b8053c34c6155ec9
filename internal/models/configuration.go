package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zakaah-management/backend/internal/types"
	"gorm.io/gorm"
)

// AccountClass groups the accounts of an assets configuration by their
// role in the zakaah calculation.
type AccountClass string

const (
	AccountClassCash        AccountClass = "cash"
	AccountClassInventory   AccountClass = "inventory"
	AccountClassReceivable  AccountClass = "receivable"
	AccountClassLiabilities AccountClass = "liabilities"
	AccountClassReserve     AccountClass = "reserve"
	AccountClassPayment     AccountClass = "payment"
)

// AccountClasses lists all valid account classes.
var AccountClasses = []AccountClass{
	AccountClassCash,
	AccountClassInventory,
	AccountClassReceivable,
	AccountClassLiabilities,
	AccountClassReserve,
	AccountClassPayment,
}

// Valid reports whether the class is one of the defined classes.
func (c AccountClass) Valid() bool {
	for _, class := range AccountClasses {
		if c == class {
			return true
		}
	}

	return false
}

// Deductible reports whether balances of this class reduce the zakaah
// base. Liabilities and reserves are subtracted, asset classes are added.
func (c AccountClass) Deductible() bool {
	return c == AccountClassLiabilities || c == AccountClassReserve
}

// Configuration holds the ledger accounts that make up the zakaah base of
// a company for one period, together with their adjustment margins.
type Configuration struct {
	DefaultModel
	Company     Company   `json:"-"`
	CompanyID   uuid.UUID `gorm:"uniqueIndex:configurations_company_period"`
	PeriodLabel string    `gorm:"uniqueIndex:configurations_company_period"` // e.g. the Hijri year, "1446H"
	PeriodStart types.Day
	PeriodEnd   types.Day // balances are fetched as of this date
	Note        string
}

func (c *Configuration) BeforeSave(_ *gorm.DB) error {
	c.PeriodLabel = strings.TrimSpace(c.PeriodLabel)
	c.Note = strings.TrimSpace(c.Note)

	return nil
}

func (c *Configuration) BeforeCreate(tx *gorm.DB) error {
	_ = c.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Configuration)
	return tx.First(&Company{}, toSave.CompanyID).Error
}

// ConfigurationAccount is one account row of an assets configuration.
//
// For asset, liability and reserve classes, Balance holds the account
// balance as of the period end. For the payment class, Balance holds the
// debit total over the period and Account may be a glob pattern matching
// several accounts. AdjustedValue is Balance with the margin rule applied.
type ConfigurationAccount struct {
	DefaultModel
	Configuration   Configuration `json:"-"`
	ConfigurationID uuid.UUID
	Class           AccountClass
	Account         string
	Margin          string          // adjustment specifier: "", "10%", "-250"
	Balance         decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	AdjustedValue   decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

func (a *ConfigurationAccount) BeforeSave(_ *gorm.DB) error {
	a.Account = strings.TrimSpace(a.Account)
	a.Margin = strings.TrimSpace(a.Margin)

	// Partial updates leave the class empty, BeforeCreate enforces it
	if a.Class != "" && !a.Class.Valid() {
		return ErrAccountClassInvalid
	}

	return nil
}

func (a *ConfigurationAccount) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*ConfigurationAccount)
	if !toSave.Class.Valid() {
		return ErrAccountClassInvalid
	}

	return tx.First(&Configuration{}, toSave.ConfigurationID).Error
}
