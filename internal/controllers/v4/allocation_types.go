package v4

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zakaah-management/backend/internal/allocation"
	"github.com/zakaah-management/backend/internal/models"
	zm_uuid "github.com/zakaah-management/backend/internal/uuid"
)

type AllocationLinks struct {
	Self       string `json:"self" example:"https://example.com/api/v4/allocations/99b8e264-6e29-4ebb-a207-2c9e6bb1597e"`       // The allocation record itself
	Obligation string `json:"obligation" example:"https://example.com/api/v4/obligations/d1c7c6a4-a8d2-4b20-a52f-7dd83a10eb36"` // The obligation the amount was applied to
	Payment    string `json:"payment" example:"https://example.com/api/v4/payments/a3e1999c-16bb-4a05-bc52-0dbbd3fef698"`       // The payment the amount was taken from
}

// Allocation is one record of the allocation ledger. Records are
// immutable, there is no editable representation.
type Allocation struct {
	models.DefaultModel
	ObligationID   uuid.UUID       `json:"obligationId" example:"d1c7c6a4-a8d2-4b20-a52f-7dd83a10eb36"` // ID of the obligation the amount was applied to
	PaymentID      uuid.UUID       `json:"paymentId" example:"a3e1999c-16bb-4a05-bc52-0dbbd3fef698"`    // ID of the payment the amount was taken from
	Amount         decimal.Decimal `json:"amount" example:"1500"`                                       // The allocated amount
	AllocationDate time.Time       `json:"allocationDate" example:"2024-11-14T09:12:04.198231Z"`        // Time of the allocation run
	Links          AllocationLinks `json:"links"`
}

func newAllocation(c *gin.Context, model models.Allocation) Allocation {
	url := c.GetString(string(models.DBContextURL))

	return Allocation{
		DefaultModel:   model.DefaultModel,
		ObligationID:   model.ObligationID,
		PaymentID:      model.PaymentID,
		Amount:         model.Amount,
		AllocationDate: model.AllocationDate,
		Links: AllocationLinks{
			Self:       fmt.Sprintf("%s/v4/allocations/%s", url, model.ID),
			Obligation: fmt.Sprintf("%s/v4/obligations/%s", url, model.ObligationID),
			Payment:    fmt.Sprintf("%s/v4/payments/%s", url, model.PaymentID),
		},
	}
}

type AllocationListResponse struct {
	Data       []Allocation `json:"data"`                                                          // List of allocation records
	Error      *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination  `json:"pagination"`                                                    // Pagination information
}

type AllocationResponse struct {
	Data  *Allocation `json:"data"`                                                          // Data for the allocation record
	Error *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type AllocationQueryFilter struct {
	ObligationID zm_uuid.UUID `form:"obligation"`                 // By ID of the obligation
	PaymentID    zm_uuid.UUID `form:"payment"`                    // By ID of the payment
	Offset       uint         `form:"offset" filterField:"false"` // The offset of the first record returned. Defaults to 0.
	Limit        int          `form:"limit" filterField:"false"`  // Maximum number of records to return. Defaults to 50.
}

func (f AllocationQueryFilter) model() models.Allocation {
	return models.Allocation{
		ObligationID: f.ObligationID.UUID,
		PaymentID:    f.PaymentID.UUID,
	}
}

// AllocationRunEditable represents the selection for an allocation run.
//
// When obligation or payment IDs are given, exactly those resources are
// used; payments are consumed in the order they are listed. Without an
// explicit selection, all obligations with an outstanding balance and
// all payments with an unallocated balance of the company take part.
type AllocationRunEditable struct {
	CompanyID     uuid.UUID   `json:"companyId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf" binding:"required"` // ID of the company to run the allocation for
	ObligationIDs []uuid.UUID `json:"obligationIds"`                                                               // Explicit obligation selection, optional
	PaymentIDs    []uuid.UUID `json:"paymentIds"`                                                                  // Explicit payment selection, consumed in this order, optional
}

// AllocationRunData is the outcome of an allocation run.
type AllocationRunData struct {
	Records     []Allocation       `json:"records"`     // The allocation records created by this run
	Obligations []Obligation       `json:"obligations"` // The updated obligations, oldest period first
	Payments    []Payment          `json:"payments"`    // The updated payments, in consumption order
	Summary     allocation.Summary `json:"summary"`     // Aggregate numbers for the run
}

type AllocationRunResponse struct {
	Data  *AllocationRunData `json:"data"`                                                          // Data for the allocation run
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}
