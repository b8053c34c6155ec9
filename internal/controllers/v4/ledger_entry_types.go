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

// LedgerEntryEditable represents all user configurable parameters
type LedgerEntryEditable struct {
	CompanyID        uuid.UUID       `json:"companyId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // ID of the company the entry belongs to
	Account          string          `json:"account" example:"1101 - Zakaah Payable" default:""`       // Ledger account the posting was booked to
	JournalReference string          `json:"journalReference" example:"JV-2024-00412" default:""`      // Reference of the journal entry
	PostingDate      types.Day       `json:"postingDate" example:"2024-11-02"`                         // Day the entry was posted
	Debit            decimal.Decimal `json:"debit" example:"5000"`                                     // Debit amount
	Credit           decimal.Decimal `json:"credit" example:"0"`                                       // Credit amount
	Remarks          string          `json:"remarks" example:"Zakaah payment Q2" default:""`           // Remarks on the posting
}

func (editable LedgerEntryEditable) model() models.LedgerEntry {
	return models.LedgerEntry{
		CompanyID:        editable.CompanyID,
		Account:          editable.Account,
		JournalReference: editable.JournalReference,
		PostingDate:      editable.PostingDate,
		Debit:            editable.Debit,
		Credit:           editable.Credit,
		Remarks:          editable.Remarks,
	}
}

type LedgerEntryLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v4/ledger-entries/2c1b19d6-a5ed-4f0c-b960-037b3ae9b101"` // The ledger entry itself
	Company string `json:"company" example:"https://example.com/api/v4/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`   // The company this entry belongs to
}

type LedgerEntry struct {
	models.DefaultModel
	LedgerEntryEditable
	Links LedgerEntryLinks `json:"links"`
}

func newLedgerEntry(c *gin.Context, model models.LedgerEntry) LedgerEntry {
	url := c.GetString(string(models.DBContextURL))

	return LedgerEntry{
		DefaultModel: model.DefaultModel,
		LedgerEntryEditable: LedgerEntryEditable{
			CompanyID:        model.CompanyID,
			Account:          model.Account,
			JournalReference: model.JournalReference,
			PostingDate:      model.PostingDate,
			Debit:            model.Debit,
			Credit:           model.Credit,
			Remarks:          model.Remarks,
		},
		Links: LedgerEntryLinks{
			Self:    fmt.Sprintf("%s/v4/ledger-entries/%s", url, model.ID),
			Company: fmt.Sprintf("%s/v4/companies/%s", url, model.CompanyID),
		},
	}
}

type LedgerEntryListResponse struct {
	Data       []LedgerEntry `json:"data"`                                                          // List of ledger entries
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type LedgerEntryCreateResponse struct {
	Data  []LedgerEntryResponse `json:"data"`                                                          // List of the created ledger entries or their respective error
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (l *LedgerEntryCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	l.Data = append(l.Data, LedgerEntryResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type LedgerEntryResponse struct {
	Data  *LedgerEntry `json:"data"`                                                          // Data for the ledger entry
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type LedgerEntryQueryFilter struct {
	CompanyID        zm_uuid.UUID `form:"company"`                     // By ID of the Company
	Account          string       `form:"account" filterField:"false"` // By account, fuzzy
	JournalReference string       `form:"reference"`                   // By journal reference
	From             types.Day    `form:"from" filterField:"false"`    // Only entries posted on or after this day
	Until            types.Day    `form:"until" filterField:"false"`   // Only entries posted on or before this day
	Offset           uint         `form:"offset" filterField:"false"`  // The offset of the first entry returned. Defaults to 0.
	Limit            int          `form:"limit" filterField:"false"`   // Maximum number of entries to return. Defaults to 50.
}

func (f LedgerEntryQueryFilter) model() models.LedgerEntry {
	return models.LedgerEntry{
		CompanyID:        f.CompanyID.UUID,
		JournalReference: f.JournalReference,
	}
}

type LedgerAccountQuery struct {
	CompanyID zm_uuid.UUID `form:"company" binding:"required"` // ID of the company to list accounts for
}

type LedgerAccountListResponse struct {
	Data  []string `json:"data"`                                                          // The distinct accounts with postings, sorted by name
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type LedgerEntryImportQuery struct {
	CompanyID zm_uuid.UUID `form:"company" binding:"required"` // ID of the company to import ledger entries for
	Charset   string       `form:"charset"`                    // Encoding of the file. Defaults to utf-8, windows-1256 is supported for older ERP exports.
}

type LedgerEntryImportResponse struct {
	Data  []LedgerEntry `json:"data"`                                                          // The imported ledger entries
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}
