package v4

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zakaah-management/backend/internal/httputil"
	"github.com/zakaah-management/backend/internal/importer"
	"github.com/zakaah-management/backend/internal/models"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterPaymentRoutes registers the routes for payments with
// the RouterGroup that is passed.
func RegisterPaymentRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsPaymentList)
		r.GET("", GetPayments)
		r.POST("", CreatePayments)
	}

	// Import from the ledger
	{
		r.OPTIONS("/import", OptionsPaymentImport)
		r.POST("/import", ImportPayments)
	}

	// Payment with ID
	{
		r.OPTIONS("/:id", OptionsPaymentDetail)
		r.GET("/:id", GetPayment)
		r.PATCH("/:id", UpdatePayment)
		r.DELETE("/:id", DeletePayment)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Payments
// @Success		204
// @Router			/v4/payments [options]
func OptionsPaymentList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Payments
// @Success		204
// @Router			/v4/payments/import [options]
func OptionsPaymentImport(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Payments
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v4/payments/{id} [options]
func OptionsPaymentDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Payment{})
}

// @Summary		Create payments
// @Description	Creates new payments. Use this for payments recorded outside of the ledger, ledger postings are imported with the import endpoint.
// @Tags			Payments
// @Produce		json
// @Success		201			{object}	PaymentCreateResponse
// @Failure		400			{object}	PaymentCreateResponse
// @Failure		404			{object}	PaymentCreateResponse
// @Failure		500			{object}	PaymentCreateResponse
// @Param			payments	body		[]PaymentEditable	true	"Payments"
// @Router			/v4/payments [post]
func CreatePayments(c *gin.Context) {
	var editables []PaymentEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := PaymentCreateResponse{}

	for _, editable := range editables {
		payment := editable.model()

		err = models.DB.Create(&payment).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newPayment(c, payment)
		r.Data = append(r.Data, PaymentResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Import payments
// @Description	Imports payments from the ledger. All debit postings to the selected accounts in the date range become payments, one per journal reference. References that were already imported are skipped, so the import can be repeated safely.
// @Tags			Payments
// @Produce		json
// @Success		201			{object}	PaymentImportResponse
// @Failure		400			{object}	PaymentImportResponse
// @Failure		404			{object}	PaymentImportResponse
// @Failure		500			{object}	PaymentImportResponse
// @Param			company		query		string	true	"ID of the company to import payments for"
// @Param			from		query		string	true	"First posting date to consider (YYYY-MM-DD)"
// @Param			until		query		string	true	"Last posting date to consider (YYYY-MM-DD)"
// @Param			accounts	query		string	false	"Comma separated list of account glob patterns. Defaults to the payment accounts of the company's configurations."
// @Router			/v4/payments/import [post]
func ImportPayments(c *gin.Context) {
	var query PaymentImportQuery
	err := c.BindQuery(&query)
	if err != nil {
		s := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, PaymentImportResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.First(&models.Company{}, query.CompanyID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PaymentImportResponse{
			Error: &s,
		})
		return
	}

	patterns, err := paymentAccountPatterns(query)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PaymentImportResponse{
			Error: &s,
		})
		return
	}

	result, err := importer.FromLedger(models.DB, query.CompanyID.UUID, query.From, query.Until, patterns)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PaymentImportResponse{
			Error: &s,
		})
		return
	}

	data := PaymentImportData{
		Payments: make([]Payment, 0, len(result.Payments)),
		Skipped:  result.Skipped,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		for i := range result.Payments {
			err := tx.Create(&result.Payments[i]).Error
			if err != nil {
				return err
			}

			data.Payments = append(data.Payments, newPayment(c, result.Payments[i]))
		}

		return nil
	})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PaymentImportResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusCreated, PaymentImportResponse{Data: &data})
}

// paymentAccountPatterns resolves the account glob patterns for an
// import. When the request does not specify accounts, the payment
// accounts of the company's assets configurations are used.
func paymentAccountPatterns(query PaymentImportQuery) ([]string, error) {
	if query.Accounts != "" {
		var patterns []string
		for _, pattern := range strings.Split(query.Accounts, ",") {
			pattern = strings.TrimSpace(pattern)
			if pattern != "" {
				patterns = append(patterns, pattern)
			}
		}

		return patterns, nil
	}

	var patterns []string
	err := models.DB.
		Model(&models.ConfigurationAccount{}).
		Joins("JOIN configurations ON configurations.id = configuration_accounts.configuration_id").
		Where("configurations.company_id = ?", query.CompanyID).
		Where("configuration_accounts.class = ?", models.AccountClassPayment).
		Distinct().
		Pluck("configuration_accounts.account", &patterns).Error
	if err != nil {
		return nil, err
	}

	if len(patterns) == 0 {
		return nil, errNoPaymentAccounts
	}

	return patterns, nil
}

// @Summary		Get payments
// @Description	Returns a list of payments
// @Tags			Payments
// @Produce		json
// @Success		200	{object}	PaymentListResponse
// @Failure		400	{object}	PaymentListResponse
// @Failure		500	{object}	PaymentListResponse
// @Router			/v4/payments [get]
// @Param			company		query	string	false	"Filter by company ID"
// @Param			reference	query	string	false	"Filter by journal reference"
// @Param			note		query	string	false	"Filter by note"
// @Param			search		query	string	false	"Search for this text in note and journal reference"
// @Param			offset		query	uint	false	"The offset of the first Payment returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Payments to return. Defaults to 50."
func GetPayments(c *gin.Context) {
	var filter PaymentQueryFilter
	err := c.Bind(&filter)
	if err != nil {
		s := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, PaymentListResponse{
			Error: &s,
		})
		return
	}

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	// Payments are returned in the order they are consumed by allocation runs
	q := models.DB.
		Order("posting_date ASC, id ASC").
		Where(filter.model(), queryFields...)

	q = noteFilter(q, setFields, filter.Note)

	if filter.Search != "" {
		q = q.Where(
			models.DB.Where("note LIKE ?", fmt.Sprintf("%%%s%%", filter.Search)).Or(
				models.DB.Where("journal_reference LIKE ?", fmt.Sprintf("%%%s%%", filter.Search)),
			),
		)
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 Payments and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var payments []models.Payment
	err = q.Find(&payments).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PaymentListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Payment, 0)
	for _, payment := range payments {
		data = append(data, newPayment(c, payment))
	}

	c.JSON(http.StatusOK, PaymentListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get payment
// @Description	Returns a specific payment
// @Tags			Payments
// @Produce		json
// @Success		200	{object}	PaymentResponse
// @Failure		400	{object}	PaymentResponse
// @Failure		404	{object}	PaymentResponse
// @Failure		500	{object}	PaymentResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v4/payments/{id} [get]
func GetPayment(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PaymentResponse{
			Error: &s,
		})
		return
	}

	var payment models.Payment
	err = models.DB.First(&payment, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PaymentResponse{
			Error: &s,
		})
		return
	}

	data := newPayment(c, payment)
	c.JSON(http.StatusOK, PaymentResponse{Data: &data})
}

// @Summary		Update payment
// @Description	Update an existing payment. Only values to be updated need to be specified. The allocated amount cannot be set directly, it only moves through allocations.
// @Tags			Payments
// @Accept			json
// @Produce		json
// @Success		200		{object}	PaymentResponse
// @Failure		400		{object}	PaymentResponse
// @Failure		404		{object}	PaymentResponse
// @Failure		500		{object}	PaymentResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			payment	body		PaymentEditable	true	"Payment"
// @Router			/v4/payments/{id} [patch]
func UpdatePayment(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PaymentResponse{
			Error: &s,
		})
		return
	}

	var payment models.Payment
	err = models.DB.First(&payment, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PaymentResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, PaymentEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PaymentResponse{
			Error: &s,
		})
		return
	}

	var data PaymentEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PaymentResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&payment).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PaymentResponse{
			Error: &s,
		})
		return
	}

	r := newPayment(c, payment)
	c.JSON(http.StatusOK, PaymentResponse{Data: &r})
}

// @Summary		Delete payment
// @Description	Deletes a payment. Payments that appear in allocation records cannot be deleted.
// @Tags			Payments
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v4/payments/{id} [delete]
func DeletePayment(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var payment models.Payment
	err = models.DB.First(&payment, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&payment).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
