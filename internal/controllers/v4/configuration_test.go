package v4_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/zakaah-management/backend/internal/calculation"
	v4 "github.com/zakaah-management/backend/internal/controllers/v4"
	"github.com/zakaah-management/backend/internal/models"
	"github.com/zakaah-management/backend/internal/types"
	"github.com/zakaah-management/backend/test"
)

func (suite *TestSuiteStandard) TestConfigurationsDBClosed() {
	company := createTestCompany(suite.T(), v4.CompanyEditable{})

	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestConfiguration(t, v4.ConfigurationEditable{CompanyID: company.Data.ID}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v4/configurations", "")
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

				var response v4.ConfigurationListResponse
				test.DecodeResponse(t, &recorder, &response)
				assert.Contains(t, *response.Error, models.ErrGeneral.Error())
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.CloseDB()

			tt.test(t)
		})
	}
}

func (suite *TestSuiteStandard) TestConfigurationsOptions() {
	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"No Configuration with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Configuration exists", createTestConfiguration(suite.T(), v4.ConfigurationEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v4/configurations", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestConfigurationsCalculateOptions() {
	configuration := createTestConfiguration(suite.T(), v4.ConfigurationEditable{})

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"No Configuration with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Configuration exists", configuration.Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("http://example.com/v4/configurations/%s/calculate", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, POST", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestConfigurationsCreate() {
	company := createTestCompany(suite.T(), v4.CompanyEditable{})

	configuration := createTestConfiguration(suite.T(), v4.ConfigurationEditable{
		CompanyID:   company.Data.ID,
		PeriodLabel: "1446H",
		PeriodStart: types.NewDay(2024, 7, 7),
		PeriodEnd:   types.NewDay(2025, 6, 25),
		Accounts: []v4.ConfigurationAccountEditable{
			{Class: models.AccountClassInventory, Account: "1201 - Inventory", Margin: "10%"},
			{Class: models.AccountClassCash, Account: "1010 - Cash at Bank"},
		},
	})

	assert.Equal(suite.T(), "1446H", configuration.Data.PeriodLabel)
	assert.Contains(suite.T(), configuration.Data.Links.Calculate, fmt.Sprintf("/v4/configurations/%s/calculate", configuration.Data.ID))

	// Accounts are returned ordered by class, then account
	if assert.Len(suite.T(), configuration.Data.Accounts, 2) {
		assert.Equal(suite.T(), models.AccountClassCash, configuration.Data.Accounts[0].Class)
		assert.Equal(suite.T(), "1201 - Inventory", configuration.Data.Accounts[1].Account)
		assert.Equal(suite.T(), "10%", configuration.Data.Accounts[1].Margin)
	}
}

func (suite *TestSuiteStandard) TestConfigurationsCreateInvalidAccountRollsBack() {
	company := createTestCompany(suite.T(), v4.CompanyEditable{})

	// An invalid account class rolls back the whole configuration
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v4/configurations", []v4.ConfigurationEditable{{
		CompanyID:   company.Data.ID,
		PeriodLabel: "1446H",
		Accounts: []v4.ConfigurationAccountEditable{
			{Class: models.AccountClassCash, Account: "1010 - Cash at Bank"},
			{Class: "savings", Account: "1020 - Savings"},
		},
	}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v4.ConfigurationCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Contains(suite.T(), *response.Data[0].Error, models.ErrAccountClassInvalid.Error())

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v4/configurations", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var list v4.ConfigurationListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	assert.Len(suite.T(), list.Data, 0)
}

func (suite *TestSuiteStandard) TestConfigurationsCreateDuplicatePeriod() {
	company := createTestCompany(suite.T(), v4.CompanyEditable{})
	_ = createTestConfiguration(suite.T(), v4.ConfigurationEditable{
		CompanyID:   company.Data.ID,
		PeriodLabel: "1446H",
	})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v4/configurations", []v4.ConfigurationEditable{{
		CompanyID:   company.Data.ID,
		PeriodLabel: "1446H",
	}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v4.ConfigurationCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Contains(suite.T(), *response.Data[0].Error, models.ErrConfigurationPeriodNotUnique.Error())
}

func (suite *TestSuiteStandard) TestConfigurationsGetSingle() {
	configuration := createTestConfiguration(suite.T(), v4.ConfigurationEditable{})

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing Configuration", configuration.Data.ID.String(), http.StatusOK, http.MethodGet},
		{"GET No Configuration with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodGet},
		{"PATCH Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodPatch},
		{"DELETE Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodDelete},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v4/configurations/%s", tt.id), "")

			var response v4.ConfigurationResponse
			test.DecodeResponse(t, &r, &response)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestConfigurationsGetFilter() {
	company := createTestCompany(suite.T(), v4.CompanyEditable{})

	_ = createTestConfiguration(suite.T(), v4.ConfigurationEditable{
		CompanyID:   company.Data.ID,
		PeriodLabel: "1445H",
		Note:        "First configured period",
	})

	_ = createTestConfiguration(suite.T(), v4.ConfigurationEditable{
		CompanyID:   company.Data.ID,
		PeriodLabel: "1446H",
	})

	_ = createTestConfiguration(suite.T(), v4.ConfigurationEditable{
		PeriodLabel: "1446H",
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Company", fmt.Sprintf("company=%s", company.Data.ID), 2},
		{"Period", "period=1446H", 2},
		{"Company and period", fmt.Sprintf("company=%s&period=1446H", company.Data.ID), 1},
		{"Note", "note=configured", 1},
		{"Limit 2", "limit=2", 2},
		{"Offset 2", "offset=2", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v4/configurations?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v4.ConfigurationListResponse
			test.DecodeResponse(t, &r, &response)

			assert.Equal(t, tt.len, len(response.Data), "Wrong number of configurations for query %q", tt.query)
		})
	}
}

func (suite *TestSuiteStandard) TestConfigurationsUpdate() {
	configuration := createTestConfiguration(suite.T(), v4.ConfigurationEditable{
		Note: "Before",
		Accounts: []v4.ConfigurationAccountEditable{
			{Class: models.AccountClassCash, Account: "1010 - Cash at Bank"},
		},
	})

	r := test.Request(suite.T(), http.MethodPatch, configuration.Data.Links.Self, map[string]any{
		"note": "After",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v4.ConfigurationResponse
	test.DecodeResponse(suite.T(), &r, &updated)

	assert.Equal(suite.T(), "After", updated.Data.Note)

	// The account list stays untouched when it is not in the body
	assert.Len(suite.T(), updated.Data.Accounts, 1)
}

func (suite *TestSuiteStandard) TestConfigurationsUpdateReplacesAccounts() {
	configuration := createTestConfiguration(suite.T(), v4.ConfigurationEditable{
		Accounts: []v4.ConfigurationAccountEditable{
			{Class: models.AccountClassCash, Account: "1010 - Cash at Bank"},
			{Class: models.AccountClassInventory, Account: "1201 - Inventory"},
		},
	})

	r := test.Request(suite.T(), http.MethodPatch, configuration.Data.Links.Self, map[string]any{
		"accounts": []v4.ConfigurationAccountEditable{
			{Class: models.AccountClassReceivable, Account: "1300 - Trade Receivables"},
		},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v4.ConfigurationResponse
	test.DecodeResponse(suite.T(), &r, &updated)

	// The whole account list is replaced
	if assert.Len(suite.T(), updated.Data.Accounts, 1) {
		assert.Equal(suite.T(), "1300 - Trade Receivables", updated.Data.Accounts[0].Account)
	}
}

func (suite *TestSuiteStandard) TestConfigurationsDelete() {
	configuration := createTestConfiguration(suite.T(), v4.ConfigurationEditable{
		Accounts: []v4.ConfigurationAccountEditable{
			{Class: models.AccountClassCash, Account: "1010 - Cash at Bank"},
		},
	})

	r := test.Request(suite.T(), http.MethodDelete, configuration.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, configuration.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestConfigurationsCalculate() {
	company := createTestCompany(suite.T(), v4.CompanyEditable{})

	configuration := createTestConfiguration(suite.T(), v4.ConfigurationEditable{
		CompanyID:   company.Data.ID,
		PeriodLabel: "1446H",
		PeriodStart: types.NewDay(2024, 7, 7),
		PeriodEnd:   types.NewDay(2025, 6, 25),
		Accounts: []v4.ConfigurationAccountEditable{
			{Class: models.AccountClassCash, Account: "1010 - Cash at Bank"},
			{Class: models.AccountClassLiabilities, Account: "2100 - Trade Payables"},
		},
	})

	// Cash balance of 130000 as of the period end
	_ = createTestLedgerEntry(suite.T(), v4.LedgerEntryEditable{
		CompanyID:   company.Data.ID,
		Account:     "1010 - Cash at Bank",
		PostingDate: types.NewDay(2024, 9, 1),
		Debit:       decimal.NewFromFloat(150000),
	})
	_ = createTestLedgerEntry(suite.T(), v4.LedgerEntryEditable{
		CompanyID:   company.Data.ID,
		Account:     "1010 - Cash at Bank",
		PostingDate: types.NewDay(2025, 2, 10),
		Credit:      decimal.NewFromFloat(20000),
	})

	// Posted after the period end, must not count
	_ = createTestLedgerEntry(suite.T(), v4.LedgerEntryEditable{
		CompanyID:   company.Data.ID,
		Account:     "1010 - Cash at Bank",
		PostingDate: types.NewDay(2025, 7, 1),
		Debit:       decimal.NewFromFloat(99999),
	})

	// Payables balance of 30000, deducted from the base
	_ = createTestLedgerEntry(suite.T(), v4.LedgerEntryEditable{
		CompanyID:   company.Data.ID,
		Account:     "2100 - Trade Payables",
		PostingDate: types.NewDay(2024, 12, 24),
		Credit:      decimal.NewFromFloat(30000),
	})

	r := test.Request(suite.T(), http.MethodPost, configuration.Data.Links.Calculate, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v4.CalculationResponse
	test.DecodeResponse(suite.T(), &r, &response)

	// Base of 100000 at the 2.5% rate
	obligation := response.Data.Obligation
	assert.Equal(suite.T(), "1446H", obligation.PeriodLabel)
	assert.True(suite.T(), obligation.TotalDue.Equal(decimal.NewFromFloat(2500)), "total due is %s", obligation.TotalDue)
	assert.Equal(suite.T(), models.ObligationStatusOpen, obligation.Status)

	if assert.Len(suite.T(), response.Data.Accounts, 2) {
		assert.True(suite.T(), response.Data.Accounts[0].Balance.Equal(decimal.NewFromFloat(130000)), "cash balance is %s", response.Data.Accounts[0].Balance)
		assert.True(suite.T(), response.Data.Accounts[1].Balance.Equal(decimal.NewFromFloat(30000)), "payables balance is %s", response.Data.Accounts[1].Balance)
	}

	// The resolved balances are persisted on the configuration
	r = test.Request(suite.T(), http.MethodGet, configuration.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var persisted v4.ConfigurationResponse
	test.DecodeResponse(suite.T(), &r, &persisted)
	if assert.Len(suite.T(), persisted.Data.Accounts, 2) {
		assert.True(suite.T(), persisted.Data.Accounts[0].Balance.Equal(decimal.NewFromFloat(130000)))
	}
}

func (suite *TestSuiteStandard) TestConfigurationsCalculateTwice() {
	company := createTestCompany(suite.T(), v4.CompanyEditable{})

	configuration := createTestConfiguration(suite.T(), v4.ConfigurationEditable{
		CompanyID:   company.Data.ID,
		PeriodLabel: "1446H",
		Accounts: []v4.ConfigurationAccountEditable{
			{Class: models.AccountClassCash, Account: "1010 - Cash at Bank"},
		},
	})

	r := test.Request(suite.T(), http.MethodPost, configuration.Data.Links.Calculate, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	// An obligation for the period already exists
	r = test.Request(suite.T(), http.MethodPost, configuration.Data.Links.Calculate, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v4.CalculationResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Contains(suite.T(), *response.Error, models.ErrObligationPeriodNotUnique.Error())
}

func (suite *TestSuiteStandard) TestConfigurationsCalculateNoAccounts() {
	configuration := createTestConfiguration(suite.T(), v4.ConfigurationEditable{})

	r := test.Request(suite.T(), http.MethodPost, configuration.Data.Links.Calculate, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v4.CalculationResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Contains(suite.T(), *response.Error, calculation.ErrNoAccounts.Error())
}
