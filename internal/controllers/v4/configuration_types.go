package v4

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zakaah-management/backend/internal/models"
	"github.com/zakaah-management/backend/internal/types"
	zm_uuid "github.com/zakaah-management/backend/internal/uuid"
	"gorm.io/gorm"
)

// ConfigurationAccountEditable represents all user configurable
// parameters of one account row of an assets configuration
type ConfigurationAccountEditable struct {
	Class   models.AccountClass `json:"class" example:"cash" enums:"cash,inventory,receivable,liabilities,reserve,payment"` // Role of the account in the zakaah calculation
	Account string              `json:"account" example:"1010 - Cash at Bank" default:""`                                   // Ledger account. Payment accounts may be glob patterns.
	Margin  string              `json:"margin" example:"10%" default:""`                                                    // Adjustment margin: empty, a percentage like "10%" or a flat amount like "-250"
}

func (editable ConfigurationAccountEditable) model(configurationID uuid.UUID) models.ConfigurationAccount {
	return models.ConfigurationAccount{
		ConfigurationID: configurationID,
		Class:           editable.Class,
		Account:         editable.Account,
		Margin:          editable.Margin,
	}
}

// ConfigurationAccount is one account row of an assets configuration.
// Balance and AdjustedValue are filled by the last calculation run.
type ConfigurationAccount struct {
	models.DefaultModel
	ConfigurationAccountEditable

	// These fields are computed
	Balance       decimal.Decimal `json:"balance" example:"150000"`       // Balance resolved from the ledger by the last calculation
	AdjustedValue decimal.Decimal `json:"adjustedValue" example:"165000"` // Balance with the margin applied
}

func newConfigurationAccount(model models.ConfigurationAccount) ConfigurationAccount {
	return ConfigurationAccount{
		DefaultModel: model.DefaultModel,
		ConfigurationAccountEditable: ConfigurationAccountEditable{
			Class:   model.Class,
			Account: model.Account,
			Margin:  model.Margin,
		},
		Balance:       model.Balance,
		AdjustedValue: model.AdjustedValue,
	}
}

// ConfigurationEditable represents all user configurable parameters
type ConfigurationEditable struct {
	CompanyID   uuid.UUID                      `json:"companyId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // ID of the company the configuration belongs to
	PeriodLabel string                         `json:"periodLabel" example:"1446H" default:""`                   // Label of the zakaah period, unique per company
	PeriodStart types.Day                      `json:"periodStart" example:"2024-07-07"`                         // First day of the zakaah period
	PeriodEnd   types.Day                      `json:"periodEnd" example:"2025-06-25"`                           // Last day of the zakaah period, balances are resolved as of this day
	Note        string                         `json:"note" example:"" default:""`                               // Notes about the configuration
	Accounts    []ConfigurationAccountEditable `json:"accounts"`                                                 // The accounts making up the zakaah base
}

func (editable ConfigurationEditable) model() models.Configuration {
	return models.Configuration{
		CompanyID:   editable.CompanyID,
		PeriodLabel: editable.PeriodLabel,
		PeriodStart: editable.PeriodStart,
		PeriodEnd:   editable.PeriodEnd,
		Note:        editable.Note,
	}
}

type ConfigurationLinks struct {
	Self      string `json:"self" example:"https://example.com/api/v4/configurations/27bb3b46-0c28-4988-b6d8-e5c1a18e1dd9"`                // The configuration itself
	Company   string `json:"company" example:"https://example.com/api/v4/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                  // The company this configuration belongs to
	Calculate string `json:"calculate" example:"https://example.com/api/v4/configurations/27bb3b46-0c28-4988-b6d8-e5c1a18e1dd9/calculate"` // Endpoint materializing the obligation for this configuration
}

type Configuration struct {
	models.DefaultModel
	ConfigurationEditable
	Links ConfigurationLinks `json:"links"`

	// These fields are computed
	Accounts []ConfigurationAccount `json:"accounts"` // The accounts making up the zakaah base
}

func newConfiguration(c *gin.Context, db *gorm.DB, model models.Configuration) (Configuration, error) {
	url := c.GetString(string(models.DBContextURL))

	configuration := Configuration{
		DefaultModel: model.DefaultModel,
		ConfigurationEditable: ConfigurationEditable{
			CompanyID:   model.CompanyID,
			PeriodLabel: model.PeriodLabel,
			PeriodStart: model.PeriodStart,
			PeriodEnd:   model.PeriodEnd,
			Note:        model.Note,
		},
		Links: ConfigurationLinks{
			Self:      fmt.Sprintf("%s/v4/configurations/%s", url, model.ID),
			Company:   fmt.Sprintf("%s/v4/companies/%s", url, model.CompanyID),
			Calculate: fmt.Sprintf("%s/v4/configurations/%s/calculate", url, model.ID),
		},
		Accounts: []ConfigurationAccount{},
	}

	var accounts []models.ConfigurationAccount
	err := db.
		Where("configuration_id = ?", model.ID).
		Order("class ASC, account ASC").
		Find(&accounts).Error
	if err != nil {
		return Configuration{}, err
	}

	for _, account := range accounts {
		configuration.Accounts = append(configuration.Accounts, newConfigurationAccount(account))
	}

	return configuration, nil
}

type ConfigurationListResponse struct {
	Data       []Configuration `json:"data"`                                                          // List of configurations
	Error      *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination     `json:"pagination"`                                                    // Pagination information
}

type ConfigurationCreateResponse struct {
	Data  []ConfigurationResponse `json:"data"`                                                          // List of the created configurations or their respective error
	Error *string                 `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (r *ConfigurationCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, ConfigurationResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ConfigurationResponse struct {
	Data  *Configuration `json:"data"`                                                          // Data for the configuration
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type ConfigurationQueryFilter struct {
	CompanyID   zm_uuid.UUID `form:"company"`                    // By ID of the Company
	PeriodLabel string       `form:"period"`                     // By period label
	Note        string       `form:"note" filterField:"false"`   // By note
	Offset      uint         `form:"offset" filterField:"false"` // The offset of the first configuration returned. Defaults to 0.
	Limit       int          `form:"limit" filterField:"false"`  // Maximum number of configurations to return. Defaults to 50.
}

func (f ConfigurationQueryFilter) model() models.Configuration {
	return models.Configuration{
		CompanyID:   f.CompanyID.UUID,
		PeriodLabel: f.PeriodLabel,
	}
}

// CalculationData is the outcome of a calculation run.
type CalculationData struct {
	Obligation Obligation             `json:"obligation"` // The materialized obligation
	Accounts   []ConfigurationAccount `json:"accounts"`   // The account rows with their resolved balances
}

type CalculationResponse struct {
	Data  *CalculationData `json:"data"`                                                          // Data for the calculation
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}
