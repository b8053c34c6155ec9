// Package allocation implements the payment-to-obligation allocation
// engine.
//
// The engine is a pure computation: it takes the outstanding obligations
// and the unreconciled payments of a company, matches them in a fixed
// order and returns the allocation records together with the updated
// balances. Persistence, transaction handling and the serialization of
// runs per company are the caller's responsibility.
package allocation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zakaah-management/backend/internal/models"
	"golang.org/x/exp/slices"
)

var (
	// ErrNothingToAllocate is returned when either input is empty. An empty
	// selection points to a caller mistake and is surfaced instead of being
	// treated as a silent no-op.
	ErrNothingToAllocate = errors.New("there is nothing to allocate")

	// ErrInvalidInput is returned when the caller supplies an obligation
	// without outstanding balance, a payment without unallocated balance or
	// a negative amount. The whole run is rejected.
	ErrInvalidInput = errors.New("invalid allocation input")

	// ErrInternal is returned when an invariant is violated mid-run. This is
	// a defect, the run aborts and nothing must be committed.
	ErrInternal = errors.New("internal error during allocation")
)

// precision is the number of fractional digits allocation amounts are
// rounded to.
const precision = 2

// quantum is the smallest allocatable step, 0.01.
var quantum = decimal.New(1, -precision)

// Summary describes the outcome of an allocation run.
type Summary struct {
	AllocatedCount          int             `json:"allocatedCount" example:"3"`          // Number of allocation records created
	TotalAllocated          decimal.Decimal `json:"totalAllocated" example:"1700"`       // Sum of all allocated amounts
	ObligationsFullyPaid    int             `json:"obligationsFullyPaid" example:"1"`    // Obligations settled completely in this run
	PaymentsFullyReconciled int             `json:"paymentsFullyReconciled" example:"2"` // Payments consumed completely in this run
	UnallocatedExcess       decimal.Decimal `json:"unallocatedExcess" example:"200"`     // Payment amount left over, carries forward to the next period
}

// Result is the outcome of an allocation run. Records, Obligations and
// Payments are fresh values, the engine never mutates its inputs.
type Result struct {
	Records     []models.Allocation
	Obligations []models.Obligation // updated obligations, oldest period first
	Payments    []models.Payment    // updated payments, in the order supplied
	Summary     Summary
}

// Allocate runs the sequential allocation sweep.
//
// Obligations are settled strictly oldest period first, ties broken by ID
// so that runs are deterministic. Payments are consumed in the order they
// are supplied: callers pass them in posting-date order, but the engine
// does not re-sort them, so a deliberate manual ordering stays auditable.
//
// Every record is stamped with now, so all records of one run carry the
// same allocation date.
func Allocate(obligations []models.Obligation, payments []models.Payment, now time.Time) (Result, error) {
	if len(obligations) == 0 || len(payments) == 0 {
		return Result{}, fmt.Errorf("%w: the selection contains %d obligations and %d payments", ErrNothingToAllocate, len(obligations), len(payments))
	}

	for _, o := range obligations {
		if o.TotalDue.IsNegative() || o.PaidToDate.IsNegative() {
			return Result{}, fmt.Errorf("%w: obligation %s has a negative amount", ErrInvalidInput, o.ID)
		}

		if !o.Outstanding().IsPositive() {
			return Result{}, fmt.Errorf("%w: obligation %s has no outstanding balance", ErrInvalidInput, o.ID)
		}
	}

	for _, p := range payments {
		if p.GrossAmount.IsNegative() || p.AllocatedToDate.IsNegative() {
			return Result{}, fmt.Errorf("%w: payment %s has a negative amount", ErrInvalidInput, p.ID)
		}

		if !p.Unallocated().IsPositive() {
			return Result{}, fmt.Errorf("%w: payment %s has no unallocated balance", ErrInvalidInput, p.ID)
		}
	}

	// Work on copies, the inputs stay untouched
	obligations = slices.Clone(obligations)
	payments = slices.Clone(payments)

	// Oldest period first, ties broken by ID for determinism
	slices.SortStableFunc(obligations, func(a, b models.Obligation) int {
		if c := a.PeriodStart.Compare(b.PeriodStart); c != 0 {
			return c
		}

		return strings.Compare(a.ID.String(), b.ID.String())
	})

	result := Result{
		Records:     []models.Allocation{},
		Obligations: obligations,
		Payments:    payments,
	}

	oi := 0
	for pi := range payments {
		for oi < len(obligations) && payments[pi].Unallocated().IsPositive() {
			amount := decimal.Min(obligations[oi].Outstanding(), payments[pi].Unallocated())

			// Amounts are rounded to two fractional digits. A sub-cent
			// residue settles in full so that no dust is left behind.
			if amount.GreaterThanOrEqual(quantum) {
				amount = amount.Truncate(precision)
			}

			if !amount.IsPositive() {
				return Result{}, fmt.Errorf("%w: computed allocation amount %s for obligation %s and payment %s", ErrInternal, amount, obligations[oi].ID, payments[pi].ID)
			}

			result.Records = append(result.Records, models.Allocation{
				ObligationID:   obligations[oi].ID,
				PaymentID:      payments[pi].ID,
				Amount:         amount,
				AllocationDate: now.In(time.UTC),
			})

			obligations[oi].PaidToDate = obligations[oi].PaidToDate.Add(amount)
			payments[pi].AllocatedToDate = payments[pi].AllocatedToDate.Add(amount)

			result.Summary.AllocatedCount++
			result.Summary.TotalAllocated = result.Summary.TotalAllocated.Add(amount)

			if obligations[oi].Outstanding().IsZero() {
				result.Summary.ObligationsFullyPaid++
				oi++
			}
		}

		if payments[pi].Reconciled() {
			result.Summary.PaymentsFullyReconciled++
		}

		if oi == len(obligations) {
			break
		}
	}

	// Payments left over after all obligations are settled are not an
	// error: the excess carries forward to the next period.
	for _, p := range payments {
		result.Summary.UnallocatedExcess = result.Summary.UnallocatedExcess.Add(p.Unallocated())
	}

	return result, nil
}
