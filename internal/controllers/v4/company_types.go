package v4

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/zakaah-management/backend/internal/models"
)

// CompanyEditable represents all user configurable parameters
type CompanyEditable struct {
	Name     string `json:"name" example:"Al Noor Trading LLC" default:""`      // Name of the company
	Note     string `json:"note" example:"Main trading entity" default:""`      // Notes about the company
	Currency string `json:"currency" example:"SAR" default:"SAR" maxLength:"3"` // Currency the company's ledger is kept in
}

func (editable CompanyEditable) model() models.Company {
	return models.Company{
		Name:     editable.Name,
		Note:     editable.Note,
		Currency: editable.Currency,
	}
}

type CompanyLinks struct {
	Self           string `json:"self" example:"https://example.com/api/v4/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                        // The company itself
	Configurations string `json:"configurations" example:"https://example.com/api/v4/configurations?company=550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // Assets configurations of this company
	Obligations    string `json:"obligations" example:"https://example.com/api/v4/obligations?company=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`       // Obligations of this company
	Payments       string `json:"payments" example:"https://example.com/api/v4/payments?company=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`             // Payments of this company
	LedgerEntries  string `json:"ledgerEntries" example:"https://example.com/api/v4/ledger-entries?company=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`  // Ledger entries of this company
}

type Company struct {
	models.DefaultModel
	CompanyEditable
	Links CompanyLinks `json:"links"`
}

func newCompany(c *gin.Context, model models.Company) Company {
	url := c.GetString(string(models.DBContextURL))

	return Company{
		DefaultModel: model.DefaultModel,
		CompanyEditable: CompanyEditable{
			Name:     model.Name,
			Note:     model.Note,
			Currency: model.Currency,
		},
		Links: CompanyLinks{
			Self:           fmt.Sprintf("%s/v4/companies/%s", url, model.ID),
			Configurations: fmt.Sprintf("%s/v4/configurations?company=%s", url, model.ID),
			Obligations:    fmt.Sprintf("%s/v4/obligations?company=%s", url, model.ID),
			Payments:       fmt.Sprintf("%s/v4/payments?company=%s", url, model.ID),
			LedgerEntries:  fmt.Sprintf("%s/v4/ledger-entries?company=%s", url, model.ID),
		},
	}
}

type CompanyListResponse struct {
	Data       []Company   `json:"data"`                                                          // List of Companies
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type CompanyCreateResponse struct {
	Data  []CompanyResponse `json:"data"`                                                          // List of the created Companies or their respective error
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (c *CompanyCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	c.Data = append(c.Data, CompanyResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type CompanyResponse struct {
	Data  *Company `json:"data"`                                                          // Data for the Company
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type CompanyQueryFilter struct {
	Name     string `form:"name" filterField:"false"`   // By name
	Note     string `form:"note" filterField:"false"`   // By note
	Currency string `form:"currency"`                   // By currency
	Search   string `form:"search" filterField:"false"` // By string in name or note
	Offset   uint   `form:"offset" filterField:"false"` // The offset of the first Company returned. Defaults to 0.
	Limit    int    `form:"limit" filterField:"false"`  // Maximum number of Companies to return. Defaults to 50.
}

func (f CompanyQueryFilter) model() models.Company {
	return models.Company{
		Currency: f.Currency,
	}
}
