package models

import (
	"strings"

	"gorm.io/gorm"
)

// Company represents a legal entity that zakaah is calculated and
// reconciled for. All other resources belong to exactly one company.
type Company struct {
	DefaultModel
	Name     string `gorm:"uniqueIndex:company_name"`
	Note     string
	Currency string
}

// BeforeSave trims whitespace and sets the default currency.
func (c *Company) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Note = strings.TrimSpace(c.Note)
	c.Currency = strings.TrimSpace(c.Currency)

	if c.Currency == "" {
		c.Currency = "SAR"
	}

	return nil
}

// BeforeDelete blocks the deletion of companies that still have
// resources. Deleting those through the company would silently destroy
// the allocation audit trail.
func (c *Company) BeforeDelete(tx *gorm.DB) error {
	dependents := []any{
		&Obligation{},
		&Payment{},
		&Configuration{},
		&LedgerEntry{},
	}

	for _, model := range dependents {
		var count int64
		err := tx.Model(model).Where("company_id = ?", c.ID).Count(&count).Error
		if err != nil {
			return err
		}

		if count > 0 {
			return ErrCompanyReferenced
		}
	}

	return nil
}
