package v4_test

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	v4 "github.com/zakaah-management/backend/internal/controllers/v4"
	"github.com/zakaah-management/backend/test"
)

func (suite *TestSuiteStandard) TestCleanup() {
	company := createTestCompany(suite.T(), v4.CompanyEditable{})
	_ = createTestObligation(suite.T(), v4.ObligationEditable{
		CompanyID: company.Data.ID,
		TotalDue:  decimal.NewFromFloat(100),
	})
	_ = createTestPayment(suite.T(), v4.PaymentEditable{
		CompanyID:   company.Data.ID,
		GrossAmount: decimal.NewFromFloat(100),
	})
	_ = createTestConfiguration(suite.T(), v4.ConfigurationEditable{
		CompanyID: company.Data.ID,
		Accounts: []v4.ConfigurationAccountEditable{
			{Class: "cash", Account: "1010 - Cash at Bank"},
		},
	})
	_ = createTestLedgerEntry(suite.T(), v4.LedgerEntryEditable{
		CompanyID: company.Data.ID,
		Debit:     decimal.NewFromFloat(100),
	})

	// Allocation records refuse deletion everywhere else, the cleanup
	// still removes them
	_ = runAllocation(suite.T(), v4.AllocationRunEditable{CompanyID: company.Data.ID})

	r := test.Request(suite.T(), http.MethodDelete, "http://example.com/v4?confirm=yes-please-delete-everything", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	// Verify that all resources are deleted
	tests := []struct {
		name string
		path string
	}{
		{"Allocations", "/v4/allocations"},
		{"Companies", "/v4/companies"},
		{"Configurations", "/v4/configurations"},
		{"LedgerEntries", "/v4/ledger-entries"},
		{"Obligations", "/v4/obligations"},
		{"Payments", "/v4/payments"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, "http://example.com"+tt.path, "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response struct {
				Data []any `json:"data"`
			}
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, 0, "There are resources left for type %s", tt.name)
		})
	}
}

func (suite *TestSuiteStandard) TestCleanupFails() {
	tests := []struct {
		name string
		path string
	}{
		{"No confirmation", "http://example.com/v4"},
		{"Wrong confirmation", "http://example.com/v4?confirm=on-second-thought-no"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodDelete, tt.path, "")
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

			var response struct {
				Error string `json:"error"`
			}
			test.DecodeResponse(t, &r, &response)
			assert.Contains(t, response.Error, "confirmation for the cleanup API call was incorrect")
		})
	}
}

func (suite *TestSuiteStandard) TestCleanupDBClosed() {
	suite.CloseDB()

	r := test.Request(suite.T(), http.MethodDelete, "http://example.com/v4?confirm=yes-please-delete-everything", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)
}
