package v4_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	v4 "github.com/zakaah-management/backend/internal/controllers/v4"
	"github.com/zakaah-management/backend/internal/models"
	"github.com/zakaah-management/backend/internal/types"
	"github.com/zakaah-management/backend/test"
)

func (suite *TestSuiteStandard) TestObligationsDBClosed() {
	company := createTestCompany(suite.T(), v4.CompanyEditable{})

	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestObligation(t, v4.ObligationEditable{CompanyID: company.Data.ID}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v4/obligations", "")
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

				var response v4.ObligationListResponse
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

func (suite *TestSuiteStandard) TestObligationsOptions() {
	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"No Obligation with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Obligation exists", createTestObligation(suite.T(), v4.ObligationEditable{TotalDue: decimal.NewFromFloat(100)}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v4/obligations", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestObligationsCreate() {
	company := createTestCompany(suite.T(), v4.CompanyEditable{})

	obligation := createTestObligation(suite.T(), v4.ObligationEditable{
		CompanyID:   company.Data.ID,
		PeriodLabel: "1446H",
		PeriodStart: types.NewDay(2024, 7, 7),
		TotalDue:    decimal.NewFromFloat(14250.75),
	})

	assert.Equal(suite.T(), "1446H", obligation.Data.PeriodLabel)
	assert.True(suite.T(), obligation.Data.TotalDue.Equal(decimal.NewFromFloat(14250.75)))

	// A new obligation is fully outstanding
	assert.True(suite.T(), obligation.Data.PaidToDate.IsZero())
	assert.True(suite.T(), obligation.Data.Outstanding.Equal(decimal.NewFromFloat(14250.75)))
	assert.Equal(suite.T(), models.ObligationStatusOpen, obligation.Data.Status)

	assert.Contains(suite.T(), obligation.Data.Links.Company, fmt.Sprintf("/v4/companies/%s", company.Data.ID))
	assert.Contains(suite.T(), obligation.Data.Links.Allocations, fmt.Sprintf("/v4/allocations?obligation=%s", obligation.Data.ID))
}

func (suite *TestSuiteStandard) TestObligationsCreateDuplicatePeriod() {
	company := createTestCompany(suite.T(), v4.CompanyEditable{})
	_ = createTestObligation(suite.T(), v4.ObligationEditable{
		CompanyID:   company.Data.ID,
		PeriodLabel: "1446H",
		TotalDue:    decimal.NewFromFloat(100),
	})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v4/obligations", []v4.ObligationEditable{{
		CompanyID:   company.Data.ID,
		PeriodLabel: "1446H",
		TotalDue:    decimal.NewFromFloat(200),
	}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v4.ObligationCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Contains(suite.T(), *response.Data[0].Error, models.ErrObligationPeriodNotUnique.Error())
}

func (suite *TestSuiteStandard) TestObligationsCreateSamePeriodOtherCompany() {
	// The same period label is fine for another company
	_ = createTestObligation(suite.T(), v4.ObligationEditable{PeriodLabel: "1446H", TotalDue: decimal.NewFromFloat(100)})
	_ = createTestObligation(suite.T(), v4.ObligationEditable{PeriodLabel: "1446H", TotalDue: decimal.NewFromFloat(100)})
}

func (suite *TestSuiteStandard) TestObligationsCreateInvalid() {
	tests := []struct {
		name     string
		editable v4.ObligationEditable
		err      error
	}{
		{"No company", v4.ObligationEditable{CompanyID: uuid.New(), TotalDue: decimal.NewFromFloat(100)}, models.ErrResourceNotFound},
		{"Negative amount", v4.ObligationEditable{TotalDue: decimal.NewFromFloat(-100)}, models.ErrAmountNegative},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			status := http.StatusBadRequest
			if tt.err == models.ErrResourceNotFound {
				status = http.StatusNotFound
			}

			if tt.editable.CompanyID == uuid.Nil && tt.err != models.ErrResourceNotFound {
				tt.editable.CompanyID = createTestCompany(t, v4.CompanyEditable{}).Data.ID
			}
			tt.editable.PeriodLabel = uuid.NewString()

			r := test.Request(t, http.MethodPost, "http://example.com/v4/obligations", []v4.ObligationEditable{tt.editable})
			test.AssertHTTPStatus(t, &r, status)

			var response v4.ObligationCreateResponse
			test.DecodeResponse(t, &r, &response)
			assert.Contains(t, *response.Data[0].Error, tt.err.Error())
		})
	}
}

func (suite *TestSuiteStandard) TestObligationsGetSingle() {
	o := createTestObligation(suite.T(), v4.ObligationEditable{TotalDue: decimal.NewFromFloat(100)})

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing Obligation", o.Data.ID.String(), http.StatusOK, http.MethodGet},
		{"GET ID nil", uuid.Nil.String(), http.StatusNotFound, http.MethodGet},
		{"GET No Obligation with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodGet},
		{"PATCH Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodPatch},
		{"DELETE Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodDelete},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v4/obligations/%s", tt.id), "")

			var obligation v4.ObligationResponse
			test.DecodeResponse(t, &r, &obligation)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestObligationsGetFilter() {
	company := createTestCompany(suite.T(), v4.CompanyEditable{})

	_ = createTestObligation(suite.T(), v4.ObligationEditable{
		CompanyID:   company.Data.ID,
		PeriodLabel: "1445H",
		Note:        "First assessed period",
		TotalDue:    decimal.NewFromFloat(100),
	})

	_ = createTestObligation(suite.T(), v4.ObligationEditable{
		CompanyID:   company.Data.ID,
		PeriodLabel: "1446H",
		Note:        "Assessed by auditor",
		TotalDue:    decimal.NewFromFloat(200),
	})

	_ = createTestObligation(suite.T(), v4.ObligationEditable{
		PeriodLabel: "1446H",
		TotalDue:    decimal.NewFromFloat(300),
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Company", fmt.Sprintf("company=%s", company.Data.ID), 2},
		{"Company and period", fmt.Sprintf("company=%s&period=1446H", company.Data.ID), 1},
		{"Period", "period=1446H", 2},
		{"Note", "note=assessed", 2},
		{"Empty note", "note=", 1},
		{"Search note", "search=auditor", 1},
		{"Search period label", "search=1445", 1},
		{"Limit 2", "limit=2", 2},
		{"Offset 2", "offset=2", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v4/obligations?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v4.ObligationListResponse
			test.DecodeResponse(t, &r, &response)

			assert.Equal(t, tt.len, len(response.Data), "Wrong number of obligations for query %q", tt.query)
		})
	}
}

func (suite *TestSuiteStandard) TestObligationsGetOrdered() {
	company := createTestCompany(suite.T(), v4.CompanyEditable{})

	later := createTestObligation(suite.T(), v4.ObligationEditable{
		CompanyID:   company.Data.ID,
		PeriodLabel: "1446H",
		PeriodStart: types.NewDay(2024, 7, 7),
		TotalDue:    decimal.NewFromFloat(100),
	})

	earlier := createTestObligation(suite.T(), v4.ObligationEditable{
		CompanyID:   company.Data.ID,
		PeriodLabel: "1445H",
		PeriodStart: types.NewDay(2023, 7, 19),
		TotalDue:    decimal.NewFromFloat(100),
	})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v4/obligations", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v4.ObligationListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	// Obligations are returned in settlement order, oldest period first
	if assert.Len(suite.T(), response.Data, 2) {
		assert.Equal(suite.T(), earlier.Data.ID, response.Data[0].ID)
		assert.Equal(suite.T(), later.Data.ID, response.Data[1].ID)
	}
}

func (suite *TestSuiteStandard) TestObligationsUpdate() {
	obligation := createTestObligation(suite.T(), v4.ObligationEditable{
		Note:     "Before",
		TotalDue: decimal.NewFromFloat(100),
	})

	r := test.Request(suite.T(), http.MethodPatch, obligation.Data.Links.Self, map[string]any{
		"note":     "After",
		"totalDue": 250.50,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v4.ObligationResponse
	test.DecodeResponse(suite.T(), &r, &updated)

	assert.Equal(suite.T(), "After", updated.Data.Note)
	assert.True(suite.T(), updated.Data.TotalDue.Equal(decimal.NewFromFloat(250.50)))
}

func (suite *TestSuiteStandard) TestObligationsUpdateInvalidBody() {
	obligation := createTestObligation(suite.T(), v4.ObligationEditable{TotalDue: decimal.NewFromFloat(100)})

	r := test.Request(suite.T(), http.MethodPatch, obligation.Data.Links.Self, `{ broken`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestObligationsDelete() {
	obligation := createTestObligation(suite.T(), v4.ObligationEditable{TotalDue: decimal.NewFromFloat(100)})

	r := test.Request(suite.T(), http.MethodDelete, obligation.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, obligation.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestObligationsDeleteAllocated() {
	company := createTestCompany(suite.T(), v4.CompanyEditable{})
	obligation := createTestObligation(suite.T(), v4.ObligationEditable{
		CompanyID: company.Data.ID,
		TotalDue:  decimal.NewFromFloat(100),
	})
	_ = createTestPayment(suite.T(), v4.PaymentEditable{
		CompanyID:   company.Data.ID,
		GrossAmount: decimal.NewFromFloat(100),
	})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v4/allocations/run", v4.AllocationRunEditable{
		CompanyID: company.Data.ID,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	r = test.Request(suite.T(), http.MethodDelete, obligation.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response struct {
		Error string `json:"error"`
	}
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Contains(suite.T(), response.Error, models.ErrObligationHasAllocations.Error())
}
