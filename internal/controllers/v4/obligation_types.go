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

// ObligationEditable represents all user configurable parameters
type ObligationEditable struct {
	CompanyID   uuid.UUID       `json:"companyId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // ID of the company the obligation belongs to
	PeriodLabel string          `json:"periodLabel" example:"1446H" default:""`                   // Label of the zakaah period, unique per company
	PeriodStart types.Day       `json:"periodStart" example:"2024-07-07"`                         // First day of the zakaah period, used for the settlement order
	Note        string          `json:"note" example:"Assessed by external auditor" default:""`   // Notes about the obligation
	TotalDue    decimal.Decimal `json:"totalDue" example:"14250.75"`                              // Total zakaah due for the period
}

func (editable ObligationEditable) model() models.Obligation {
	return models.Obligation{
		CompanyID:   editable.CompanyID,
		PeriodLabel: editable.PeriodLabel,
		PeriodStart: editable.PeriodStart,
		Note:        editable.Note,
		TotalDue:    editable.TotalDue,
	}
}

type ObligationLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v4/obligations/d1c7c6a4-a8d2-4b20-a52f-7dd83a10eb36"`                   // The obligation itself
	Company     string `json:"company" example:"https://example.com/api/v4/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                  // The company this obligation belongs to
	Allocations string `json:"allocations" example:"https://example.com/api/v4/allocations?obligation=d1c7c6a4-a8d2-4b20-a52f-7dd83a10eb36"` // Allocations for this obligation
}

type Obligation struct {
	models.DefaultModel
	ObligationEditable
	Links ObligationLinks `json:"links"`

	// These fields are computed
	PaidToDate  decimal.Decimal         `json:"paidToDate" example:"10000"`     // Amount already settled through allocations
	Outstanding decimal.Decimal         `json:"outstanding" example:"4250.75"`  // Amount still to be paid
	Status      models.ObligationStatus `json:"status" example:"PartiallyPaid"` // Settlement status, derived from the balances
}

func newObligation(c *gin.Context, model models.Obligation) Obligation {
	url := c.GetString(string(models.DBContextURL))

	return Obligation{
		DefaultModel: model.DefaultModel,
		ObligationEditable: ObligationEditable{
			CompanyID:   model.CompanyID,
			PeriodLabel: model.PeriodLabel,
			PeriodStart: model.PeriodStart,
			Note:        model.Note,
			TotalDue:    model.TotalDue,
		},
		Links: ObligationLinks{
			Self:        fmt.Sprintf("%s/v4/obligations/%s", url, model.ID),
			Company:     fmt.Sprintf("%s/v4/companies/%s", url, model.CompanyID),
			Allocations: fmt.Sprintf("%s/v4/allocations?obligation=%s", url, model.ID),
		},
		PaidToDate:  model.PaidToDate,
		Outstanding: model.Outstanding(),
		Status:      model.Status(),
	}
}

type ObligationListResponse struct {
	Data       []Obligation `json:"data"`                                                          // List of Obligations
	Error      *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination  `json:"pagination"`                                                    // Pagination information
}

type ObligationCreateResponse struct {
	Data  []ObligationResponse `json:"data"`                                                          // List of the created Obligations or their respective error
	Error *string              `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (o *ObligationCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	o.Data = append(o.Data, ObligationResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ObligationResponse struct {
	Data  *Obligation `json:"data"`                                                          // Data for the Obligation
	Error *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type ObligationQueryFilter struct {
	CompanyID   zm_uuid.UUID `form:"company"`                    // By ID of the Company
	PeriodLabel string       `form:"period"`                     // By period label
	Note        string       `form:"note" filterField:"false"`   // By note
	Search      string       `form:"search" filterField:"false"` // By string in note
	Offset      uint         `form:"offset" filterField:"false"` // The offset of the first Obligation returned. Defaults to 0.
	Limit       int          `form:"limit" filterField:"false"`  // Maximum number of Obligations to return. Defaults to 50.
}

func (f ObligationQueryFilter) model() models.Obligation {
	return models.Obligation{
		CompanyID:   f.CompanyID.UUID,
		PeriodLabel: f.PeriodLabel,
	}
}
