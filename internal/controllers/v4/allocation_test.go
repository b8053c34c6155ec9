package v4_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/zakaah-management/backend/internal/allocation"
	v4 "github.com/zakaah-management/backend/internal/controllers/v4"
	"github.com/zakaah-management/backend/internal/types"
	"github.com/zakaah-management/backend/test"
)

// runAllocation posts an allocation run and decodes the response.
func runAllocation(t *testing.T, editable v4.AllocationRunEditable, expectedStatus ...int) v4.AllocationRunResponse {
	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := test.Request(t, http.MethodPost, "http://example.com/v4/allocations/run", editable)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v4.AllocationRunResponse
	test.DecodeResponse(t, &r, &response)
	return response
}

func (suite *TestSuiteStandard) TestAllocationsOptions() {
	tests := []struct {
		name  string
		path  string
		allow string
	}{
		{"List", "http://example.com/v4/allocations", "OPTIONS, GET"},
		{"Run", "http://example.com/v4/allocations/run", "OPTIONS, POST"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodOptions, tt.path, "")
			test.AssertHTTPStatus(t, &r, http.StatusNoContent)
			assert.Equal(t, tt.allow, r.Header().Get("allow"))
		})
	}
}

func (suite *TestSuiteStandard) TestAllocationsOptionsDetail() {
	company := createTestCompany(suite.T(), v4.CompanyEditable{})
	_ = createTestObligation(suite.T(), v4.ObligationEditable{
		CompanyID: company.Data.ID,
		TotalDue:  decimal.NewFromFloat(100),
	})
	_ = createTestPayment(suite.T(), v4.PaymentEditable{
		CompanyID:   company.Data.ID,
		GrossAmount: decimal.NewFromFloat(100),
	})

	run := runAllocation(suite.T(), v4.AllocationRunEditable{CompanyID: company.Data.ID})

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"No record with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Record exists", run.Data.Records[0].ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodOptions, fmt.Sprintf("http://example.com/v4/allocations/%s", tt.id), "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				// Records are immutable, no PATCH or DELETE
				assert.Equal(t, "OPTIONS, GET", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestAllocationsRun() {
	company := createTestCompany(suite.T(), v4.CompanyEditable{})

	older := createTestObligation(suite.T(), v4.ObligationEditable{
		CompanyID:   company.Data.ID,
		PeriodLabel: "1445H",
		PeriodStart: types.NewDay(2023, 7, 19),
		TotalDue:    decimal.NewFromFloat(1000),
	})
	newer := createTestObligation(suite.T(), v4.ObligationEditable{
		CompanyID:   company.Data.ID,
		PeriodLabel: "1446H",
		PeriodStart: types.NewDay(2024, 7, 7),
		TotalDue:    decimal.NewFromFloat(1000),
	})

	_ = createTestPayment(suite.T(), v4.PaymentEditable{
		CompanyID:   company.Data.ID,
		GrossAmount: decimal.NewFromFloat(1500),
	})

	response := runAllocation(suite.T(), v4.AllocationRunEditable{CompanyID: company.Data.ID})

	// The oldest period is settled first
	if assert.Len(suite.T(), response.Data.Records, 2) {
		assert.Equal(suite.T(), older.Data.ID, response.Data.Records[0].ObligationID)
		assert.True(suite.T(), response.Data.Records[0].Amount.Equal(decimal.NewFromFloat(1000)))

		assert.Equal(suite.T(), newer.Data.ID, response.Data.Records[1].ObligationID)
		assert.True(suite.T(), response.Data.Records[1].Amount.Equal(decimal.NewFromFloat(500)))
	}

	assert.Equal(suite.T(), 2, response.Data.Summary.AllocatedCount)
	assert.True(suite.T(), response.Data.Summary.TotalAllocated.Equal(decimal.NewFromFloat(1500)))
	assert.Equal(suite.T(), 1, response.Data.Summary.ObligationsFullyPaid)
	assert.Equal(suite.T(), 1, response.Data.Summary.PaymentsFullyReconciled)
	assert.True(suite.T(), response.Data.Summary.UnallocatedExcess.IsZero())

	// The balances are persisted
	r := test.Request(suite.T(), http.MethodGet, older.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var obligation v4.ObligationResponse
	test.DecodeResponse(suite.T(), &r, &obligation)
	assert.True(suite.T(), obligation.Data.PaidToDate.Equal(decimal.NewFromFloat(1000)))
	assert.True(suite.T(), obligation.Data.Outstanding.IsZero())
}

func (suite *TestSuiteStandard) TestAllocationsRunExplicitSelection() {
	company := createTestCompany(suite.T(), v4.CompanyEditable{})

	obligation := createTestObligation(suite.T(), v4.ObligationEditable{
		CompanyID: company.Data.ID,
		TotalDue:  decimal.NewFromFloat(1000),
	})

	// This payment is excluded from the run
	excluded := createTestPayment(suite.T(), v4.PaymentEditable{
		CompanyID:   company.Data.ID,
		PostingDate: types.NewDay(2024, 1, 1),
		GrossAmount: decimal.NewFromFloat(400),
	})
	selected := createTestPayment(suite.T(), v4.PaymentEditable{
		CompanyID:   company.Data.ID,
		PostingDate: types.NewDay(2024, 6, 1),
		GrossAmount: decimal.NewFromFloat(300),
	})

	response := runAllocation(suite.T(), v4.AllocationRunEditable{
		CompanyID:     company.Data.ID,
		ObligationIDs: []uuid.UUID{obligation.Data.ID},
		PaymentIDs:    []uuid.UUID{selected.Data.ID},
	})

	if assert.Len(suite.T(), response.Data.Records, 1) {
		assert.Equal(suite.T(), selected.Data.ID, response.Data.Records[0].PaymentID)
		assert.True(suite.T(), response.Data.Records[0].Amount.Equal(decimal.NewFromFloat(300)))
	}

	// The excluded payment stays unallocated
	r := test.Request(suite.T(), http.MethodGet, excluded.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var payment v4.PaymentResponse
	test.DecodeResponse(suite.T(), &r, &payment)
	assert.True(suite.T(), payment.Data.AllocatedToDate.IsZero())
}

func (suite *TestSuiteStandard) TestAllocationsRunExcessCarriesForward() {
	company := createTestCompany(suite.T(), v4.CompanyEditable{})

	_ = createTestObligation(suite.T(), v4.ObligationEditable{
		CompanyID: company.Data.ID,
		TotalDue:  decimal.NewFromFloat(100),
	})
	payment := createTestPayment(suite.T(), v4.PaymentEditable{
		CompanyID:   company.Data.ID,
		GrossAmount: decimal.NewFromFloat(300),
	})

	response := runAllocation(suite.T(), v4.AllocationRunEditable{CompanyID: company.Data.ID})
	assert.True(suite.T(), response.Data.Summary.UnallocatedExcess.Equal(decimal.NewFromFloat(200)))

	r := test.Request(suite.T(), http.MethodGet, payment.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v4.PaymentResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	assert.True(suite.T(), updated.Data.Unallocated.Equal(decimal.NewFromFloat(200)))
	assert.False(suite.T(), updated.Data.Reconciled)
}

func (suite *TestSuiteStandard) TestAllocationsRunTwice() {
	company := createTestCompany(suite.T(), v4.CompanyEditable{})

	_ = createTestObligation(suite.T(), v4.ObligationEditable{
		CompanyID: company.Data.ID,
		TotalDue:  decimal.NewFromFloat(1000),
	})
	_ = createTestPayment(suite.T(), v4.PaymentEditable{
		CompanyID:   company.Data.ID,
		GrossAmount: decimal.NewFromFloat(1000),
	})

	first := runAllocation(suite.T(), v4.AllocationRunEditable{CompanyID: company.Data.ID})
	assert.Len(suite.T(), first.Data.Records, 1)

	// Everything is settled, so the default selection of a second run is
	// empty and nothing is allocated twice
	second := runAllocation(suite.T(), v4.AllocationRunEditable{CompanyID: company.Data.ID}, http.StatusBadRequest)
	assert.Contains(suite.T(), *second.Error, allocation.ErrNothingToAllocate.Error())

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v4/allocations", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var list v4.AllocationListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	assert.Len(suite.T(), list.Data, 1)
}

func (suite *TestSuiteStandard) TestAllocationsRunInvalid() {
	company := createTestCompany(suite.T(), v4.CompanyEditable{})
	other := createTestCompany(suite.T(), v4.CompanyEditable{})

	otherObligation := createTestObligation(suite.T(), v4.ObligationEditable{
		CompanyID: other.Data.ID,
		TotalDue:  decimal.NewFromFloat(100),
	})
	_ = createTestPayment(suite.T(), v4.PaymentEditable{
		CompanyID:   company.Data.ID,
		GrossAmount: decimal.NewFromFloat(100),
	})

	tests := []struct {
		name     string
		editable v4.AllocationRunEditable
		status   int
		err      string
	}{
		{
			"Unknown company",
			v4.AllocationRunEditable{CompanyID: uuid.New()},
			http.StatusNotFound,
			"there is no company matching your query",
		},
		{
			"Obligation of another company",
			v4.AllocationRunEditable{CompanyID: company.Data.ID, ObligationIDs: []uuid.UUID{otherObligation.Data.ID}},
			http.StatusBadRequest,
			"does not belong to the company",
		},
		{
			"Nothing to allocate",
			v4.AllocationRunEditable{CompanyID: other.Data.ID, ObligationIDs: []uuid.UUID{otherObligation.Data.ID}},
			http.StatusBadRequest,
			allocation.ErrNothingToAllocate.Error(),
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			response := runAllocation(t, tt.editable, tt.status)
			assert.Contains(t, *response.Error, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestAllocationsRunMissingCompany() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v4/allocations/run", `{}`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestAllocationsGetSingle() {
	company := createTestCompany(suite.T(), v4.CompanyEditable{})
	_ = createTestObligation(suite.T(), v4.ObligationEditable{
		CompanyID: company.Data.ID,
		TotalDue:  decimal.NewFromFloat(100),
	})
	_ = createTestPayment(suite.T(), v4.PaymentEditable{
		CompanyID:   company.Data.ID,
		GrossAmount: decimal.NewFromFloat(100),
	})

	run := runAllocation(suite.T(), v4.AllocationRunEditable{CompanyID: company.Data.ID})
	record := run.Data.Records[0]

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"GET Existing record", record.ID.String(), http.StatusOK},
		{"GET No record with this ID", uuid.New().String(), http.StatusNotFound},
		{"GET Invalid ID (string)", "notaUUID", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v4/allocations/%s", tt.id), "")

			var response v4.AllocationResponse
			test.DecodeResponse(t, &r, &response)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestAllocationsGetFilter() {
	company := createTestCompany(suite.T(), v4.CompanyEditable{})

	obligation := createTestObligation(suite.T(), v4.ObligationEditable{
		CompanyID: company.Data.ID,
		TotalDue:  decimal.NewFromFloat(100),
	})
	other := createTestObligation(suite.T(), v4.ObligationEditable{
		CompanyID:   company.Data.ID,
		PeriodStart: types.NewDay(2025, 6, 26),
		TotalDue:    decimal.NewFromFloat(100),
	})
	payment := createTestPayment(suite.T(), v4.PaymentEditable{
		CompanyID:   company.Data.ID,
		GrossAmount: decimal.NewFromFloat(200),
	})

	_ = runAllocation(suite.T(), v4.AllocationRunEditable{CompanyID: company.Data.ID})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 2},
		{"Obligation", fmt.Sprintf("obligation=%s", obligation.Data.ID), 1},
		{"Other obligation", fmt.Sprintf("obligation=%s", other.Data.ID), 1},
		{"Payment", fmt.Sprintf("payment=%s", payment.Data.ID), 2},
		{"Limit 1", "limit=1", 1},
		{"Offset 1", "offset=1", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v4/allocations?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v4.AllocationListResponse
			test.DecodeResponse(t, &r, &response)

			assert.Equal(t, tt.len, len(response.Data), "Wrong number of records for query %q", tt.query)
		})
	}
}
