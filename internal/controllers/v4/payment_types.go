package v4

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zakaah-management/backend/internal/models"
	"github.com/zakaah-management/backend/internal/types"
	zm_uuid "github.com/zakaah-management/backend/internal/uuid"
)

// PaymentEditable represents all user configurable parameters
type PaymentEditable struct {
	CompanyID        uuid.UUID       `json:"companyId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // ID of the company the payment belongs to
	JournalReference string          `json:"journalReference" example:"JV-2024-00412" default:""`      // Reference of the journal entry the payment originates from, unique per company
	PostingDate      types.Day       `json:"postingDate" example:"2024-11-02"`                         // Day the payment was posted
	Note             string          `json:"note" example:"Bank transfer to charity fund" default:""`  // Notes about the payment
	GrossAmount      decimal.Decimal `json:"grossAmount" example:"5000"`                               // Paid amount
}

func (editable PaymentEditable) model() models.Payment {
	return models.Payment{
		CompanyID:        editable.CompanyID,
		JournalReference: editable.JournalReference,
		PostingDate:      editable.PostingDate,
		Note:             editable.Note,
		GrossAmount:      editable.GrossAmount,
	}
}

type PaymentLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v4/payments/a3e1999c-16bb-4a05-bc52-0dbbd3fef698"`                   // The payment itself
	Company     string `json:"company" example:"https://example.com/api/v4/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`               // The company this payment belongs to
	Allocations string `json:"allocations" example:"https://example.com/api/v4/allocations?payment=a3e1999c-16bb-4a05-bc52-0dbbd3fef698"` // Allocations for this payment
}

type Payment struct {
	models.DefaultModel
	PaymentEditable
	Links PaymentLinks `json:"links"`

	// These fields are computed
	AllocatedToDate decimal.Decimal `json:"allocatedToDate" example:"3000"` // Amount already allocated to obligations
	Unallocated     decimal.Decimal `json:"unallocated" example:"2000"`     // Amount not yet allocated
	Reconciled      bool            `json:"reconciled" example:"false"`     // Is the payment fully allocated?
}

func newPayment(c *gin.Context, model models.Payment) Payment {
	url := c.GetString(string(models.DBContextURL))

	return Payment{
		DefaultModel: model.DefaultModel,
		PaymentEditable: PaymentEditable{
			CompanyID:        model.CompanyID,
			JournalReference: model.JournalReference,
			PostingDate:      model.PostingDate,
			Note:             model.Note,
			GrossAmount:      model.GrossAmount,
		},
		Links: PaymentLinks{
			Self:        fmt.Sprintf("%s/v4/payments/%s", url, model.ID),
			Company:     fmt.Sprintf("%s/v4/companies/%s", url, model.CompanyID),
			Allocations: fmt.Sprintf("%s/v4/allocations?payment=%s", url, model.ID),
		},
		AllocatedToDate: model.AllocatedToDate,
		Unallocated:     model.Unallocated(),
		Reconciled:      model.Reconciled(),
	}
}

type PaymentListResponse struct {
	Data       []Payment   `json:"data"`                                                          // List of Payments
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type PaymentCreateResponse struct {
	Data  []PaymentResponse `json:"data"`                                                          // List of the created Payments or their respective error
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (p *PaymentCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	p.Data = append(p.Data, PaymentResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type PaymentResponse struct {
	Data  *Payment `json:"data"`                                                          // Data for the Payment
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type PaymentQueryFilter struct {
	CompanyID        zm_uuid.UUID `form:"company"`                    // By ID of the Company
	JournalReference string       `form:"reference"`                  // By journal reference
	Note             string       `form:"note" filterField:"false"`   // By note
	Search           string       `form:"search" filterField:"false"` // By string in note and journal reference
	Offset           uint         `form:"offset" filterField:"false"` // The offset of the first Payment returned. Defaults to 0.
	Limit            int          `form:"limit" filterField:"false"`  // Maximum number of Payments to return. Defaults to 50.
}

func (f PaymentQueryFilter) model() models.Payment {
	return models.Payment{
		CompanyID:        f.CompanyID.UUID,
		JournalReference: f.JournalReference,
	}
}

type PaymentImportQuery struct {
	CompanyID zm_uuid.UUID `form:"company" binding:"required"` // ID of the company to import payments for
	From      types.Day    `form:"from" binding:"required"`    // First posting date to consider
	Until     types.Day    `form:"until" binding:"required"`   // Last posting date to consider
	Accounts  string       `form:"accounts"`                   // Comma separated list of account glob patterns. Defaults to the payment accounts of the company's configurations.
}

type PaymentImportData struct {
	Payments []Payment `json:"payments"`            // The imported payments
	Skipped  int       `json:"skipped" example:"2"` // Journal references skipped because they were already imported
}

type PaymentImportResponse struct {
	Data  *PaymentImportData `json:"data"`                                                          // Data for the import
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}
