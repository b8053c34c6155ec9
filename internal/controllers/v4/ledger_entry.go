package v4

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zakaah-management/backend/internal/httputil"
	"github.com/zakaah-management/backend/internal/importer/parser/journalcsv"
	"github.com/zakaah-management/backend/internal/ledger"
	"github.com/zakaah-management/backend/internal/models"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterLedgerEntryRoutes registers the routes for ledger entries with
// the RouterGroup that is passed.
func RegisterLedgerEntryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsLedgerEntryList)
		r.GET("", GetLedgerEntries)
		r.POST("", CreateLedgerEntries)
	}

	// CSV import
	{
		r.OPTIONS("/import", OptionsLedgerEntryImport)
		r.POST("/import", ImportLedgerEntries)
	}

	// Account listing
	{
		r.OPTIONS("/accounts", OptionsLedgerAccounts)
		r.GET("/accounts", GetLedgerAccounts)
	}

	// Ledger entry with ID
	{
		r.OPTIONS("/:id", OptionsLedgerEntryDetail)
		r.GET("/:id", GetLedgerEntry)
		r.DELETE("/:id", DeleteLedgerEntry)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			LedgerEntries
// @Success		204
// @Router			/v4/ledger-entries [options]
func OptionsLedgerEntryList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			LedgerEntries
// @Success		204
// @Router			/v4/ledger-entries/import [options]
func OptionsLedgerEntryImport(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			LedgerEntries
// @Success		204
// @Router			/v4/ledger-entries/accounts [options]
func OptionsLedgerAccounts(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			LedgerEntries
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v4/ledger-entries/{id} [options]
func OptionsLedgerEntryDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.LedgerEntry{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetDelete(c)
}

// @Summary		Create ledger entries
// @Description	Creates new ledger entries
// @Tags			LedgerEntries
// @Produce		json
// @Success		201				{object}	LedgerEntryCreateResponse
// @Failure		400				{object}	LedgerEntryCreateResponse
// @Failure		404				{object}	LedgerEntryCreateResponse
// @Failure		500				{object}	LedgerEntryCreateResponse
// @Param			ledgerEntries	body		[]LedgerEntryEditable	true	"Ledger entries"
// @Router			/v4/ledger-entries [post]
func CreateLedgerEntries(c *gin.Context) {
	var editables []LedgerEntryEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), LedgerEntryCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := LedgerEntryCreateResponse{}

	for _, editable := range editables {
		entry := editable.model()

		err = models.DB.Create(&entry).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newLedgerEntry(c, entry)
		r.Data = append(r.Data, LedgerEntryResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Import ledger entries
// @Description	Imports ledger entries from a CSV export. The expected columns are posting date, journal reference, account, debit, credit and remarks, the first line is skipped as the header.
// @Tags			LedgerEntries
// @Accept			multipart/form-data
// @Produce		json
// @Success		201		{object}	LedgerEntryImportResponse
// @Failure		400		{object}	LedgerEntryImportResponse
// @Failure		404		{object}	LedgerEntryImportResponse
// @Failure		500		{object}	LedgerEntryImportResponse
// @Param			company	query		string	true	"ID of the company to import ledger entries for"
// @Param			charset	query		string	false	"Encoding of the file. Defaults to utf-8, windows-1256 is supported for older ERP exports."
// @Param			file	formData	file	true	"The CSV export"
// @Router			/v4/ledger-entries/import [post]
func ImportLedgerEntries(c *gin.Context) {
	var query LedgerEntryImportQuery
	err := c.BindQuery(&query)
	if err != nil {
		s := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, LedgerEntryImportResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.First(&models.Company{}, query.CompanyID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerEntryImportResponse{
			Error: &s,
		})
		return
	}

	file, err := getUploadedFile(c, ".csv")
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerEntryImportResponse{
			Error: &s,
		})
		return
	}

	entries, err := journalcsv.Parse(file, query.CompanyID.UUID, query.Charset)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, LedgerEntryImportResponse{
			Error: &s,
		})
		return
	}

	data := make([]LedgerEntry, 0, len(entries))
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		for i := range entries {
			err := tx.Create(&entries[i]).Error
			if err != nil {
				return err
			}

			data = append(data, newLedgerEntry(c, entries[i]))
		}

		return nil
	})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerEntryImportResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusCreated, LedgerEntryImportResponse{Data: data})
}

// @Summary		Get ledger accounts
// @Description	Returns the distinct accounts that have postings for a company. This is the account list to pick from when setting up an assets configuration.
// @Tags			LedgerEntries
// @Produce		json
// @Success		200		{object}	LedgerAccountListResponse
// @Failure		400		{object}	LedgerAccountListResponse
// @Failure		404		{object}	LedgerAccountListResponse
// @Failure		500		{object}	LedgerAccountListResponse
// @Param			company	query		string	true	"ID of the company to list accounts for"
// @Router			/v4/ledger-entries/accounts [get]
func GetLedgerAccounts(c *gin.Context) {
	var query LedgerAccountQuery
	err := c.BindQuery(&query)
	if err != nil {
		s := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, LedgerAccountListResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.First(&models.Company{}, query.CompanyID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerAccountListResponse{
			Error: &s,
		})
		return
	}

	accounts, err := ledger.Database{DB: models.DB}.Accounts(query.CompanyID.UUID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerAccountListResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, LedgerAccountListResponse{Data: accounts})
}

// @Summary		Get ledger entries
// @Description	Returns a list of ledger entries
// @Tags			LedgerEntries
// @Produce		json
// @Success		200	{object}	LedgerEntryListResponse
// @Failure		400	{object}	LedgerEntryListResponse
// @Failure		500	{object}	LedgerEntryListResponse
// @Router			/v4/ledger-entries [get]
// @Param			company		query	string	false	"Filter by company ID"
// @Param			account		query	string	false	"Filter by account, fuzzy"
// @Param			reference	query	string	false	"Filter by journal reference"
// @Param			from		query	string	false	"Only entries posted on or after this day (YYYY-MM-DD)"
// @Param			until		query	string	false	"Only entries posted on or before this day (YYYY-MM-DD)"
// @Param			offset		query	uint	false	"The offset of the first entry returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of entries to return. Defaults to 50."
func GetLedgerEntries(c *gin.Context) {
	var filter LedgerEntryQueryFilter

	err := c.Bind(&filter)
	if err != nil {
		s := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, LedgerEntryListResponse{
			Error: &s,
		})
		return
	}

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Order("posting_date ASC, journal_reference ASC").
		Where(filter.model(), queryFields...)

	if filter.Account != "" {
		q = q.Where("account LIKE ?", fmt.Sprintf("%%%s%%", filter.Account))
	}

	if !filter.From.IsZero() {
		q = q.Where("posting_date >= date(?)", filter.From)
	}

	if !filter.Until.IsZero() {
		q = q.Where("posting_date <= date(?)", filter.Until)
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 entries and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var entries []models.LedgerEntry
	err = q.Find(&entries).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerEntryListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), LedgerEntryListResponse{
			Error: &e,
		})
		return
	}

	data := make([]LedgerEntry, 0)
	for _, entry := range entries {
		data = append(data, newLedgerEntry(c, entry))
	}

	c.JSON(http.StatusOK, LedgerEntryListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get ledger entry
// @Description	Returns a specific ledger entry
// @Tags			LedgerEntries
// @Produce		json
// @Success		200	{object}	LedgerEntryResponse
// @Failure		400	{object}	LedgerEntryResponse
// @Failure		404	{object}	LedgerEntryResponse
// @Failure		500	{object}	LedgerEntryResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v4/ledger-entries/{id} [get]
func GetLedgerEntry(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerEntryResponse{
			Error: &s,
		})
		return
	}

	var entry models.LedgerEntry
	err = models.DB.First(&entry, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerEntryResponse{
			Error: &s,
		})
		return
	}

	data := newLedgerEntry(c, entry)
	c.JSON(http.StatusOK, LedgerEntryResponse{Data: &data})
}

// @Summary		Delete ledger entry
// @Description	Deletes a ledger entry
// @Tags			LedgerEntries
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v4/ledger-entries/{id} [delete]
func DeleteLedgerEntry(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var entry models.LedgerEntry
	err = models.DB.First(&entry, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&entry).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
