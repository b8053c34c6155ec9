package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

var (
	ErrAmountNegative       = errors.New("monetary amounts must not be negative")
	ErrCompanyNameNotUnique = errors.New("the company name must be unique")
	ErrCompanyReferenced    = errors.New("companies with obligations, payments, configurations or ledger entries cannot be deleted")

	ErrObligationPeriodNotUnique = errors.New("there already is an obligation for this company and period")
	ErrObligationOverpaid        = errors.New("the paid amount of an obligation cannot exceed its total due")
	ErrObligationHasAllocations  = errors.New("obligations with allocations cannot be deleted")

	ErrPaymentReferenceNotUnique = errors.New("there already is a payment for this company and journal reference")
	ErrPaymentOverAllocated      = errors.New("the allocated amount of a payment cannot exceed its gross amount")
	ErrPaymentHasAllocations     = errors.New("payments with allocations cannot be deleted")

	ErrAllocationImmutable         = errors.New("allocation records are immutable, they can never be updated or deleted")
	ErrAllocationAmountNotPositive = errors.New("allocation amounts must be larger than zero")

	ErrConfigurationPeriodNotUnique = errors.New("there already is an assets configuration for this company and period")
	ErrAccountClassInvalid          = errors.New("the account class is invalid")
)
