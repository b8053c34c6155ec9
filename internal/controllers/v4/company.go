package v4

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zakaah-management/backend/internal/httputil"
	"github.com/zakaah-management/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterCompanyRoutes registers the routes for companies with
// the RouterGroup that is passed.
func RegisterCompanyRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsCompanyList)
		r.GET("", GetCompanies)
		r.POST("", CreateCompanies)
	}

	// Company with ID
	{
		r.OPTIONS("/:id", OptionsCompanyDetail)
		r.GET("/:id", GetCompany)
		r.PATCH("/:id", UpdateCompany)
		r.DELETE("/:id", DeleteCompany)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Companies
// @Success		204
// @Router			/v4/companies [options]
func OptionsCompanyList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Companies
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v4/companies/{id} [options]
func OptionsCompanyDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Company{})
}

// @Summary		Create companies
// @Description	Creates new companies
// @Tags			Companies
// @Produce		json
// @Success		201			{object}	CompanyCreateResponse
// @Failure		400			{object}	CompanyCreateResponse
// @Failure		500			{object}	CompanyCreateResponse
// @Param			companies	body		[]CompanyEditable	true	"Companies"
// @Router			/v4/companies [post]
func CreateCompanies(c *gin.Context) {
	var editables []CompanyEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CompanyCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := CompanyCreateResponse{}

	for _, editable := range editables {
		company := editable.model()

		err = models.DB.Create(&company).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newCompany(c, company)
		r.Data = append(r.Data, CompanyResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get companies
// @Description	Returns a list of companies
// @Tags			Companies
// @Produce		json
// @Success		200	{object}	CompanyListResponse
// @Failure		400	{object}	CompanyListResponse
// @Failure		500	{object}	CompanyListResponse
// @Router			/v4/companies [get]
// @Param			name		query	string	false	"Filter by name"
// @Param			note		query	string	false	"Filter by note"
// @Param			currency	query	string	false	"Filter by currency"
// @Param			search		query	string	false	"Search for this text in name and note"
// @Param			offset		query	uint	false	"The offset of the first Company returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Companies to return. Defaults to 50."
func GetCompanies(c *gin.Context) {
	var filter CompanyQueryFilter
	err := c.Bind(&filter)
	if err != nil {
		s := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, CompanyListResponse{
			Error: &s,
		})
		return
	}

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Order("name ASC").
		Where(filter.model(), queryFields...)

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 Companies and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var companies []models.Company
	err = q.Find(&companies).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CompanyListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CompanyListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Company, 0)
	for _, company := range companies {
		data = append(data, newCompany(c, company))
	}

	c.JSON(http.StatusOK, CompanyListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get company
// @Description	Returns a specific company
// @Tags			Companies
// @Produce		json
// @Success		200	{object}	CompanyResponse
// @Failure		400	{object}	CompanyResponse
// @Failure		404	{object}	CompanyResponse
// @Failure		500	{object}	CompanyResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v4/companies/{id} [get]
func GetCompany(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CompanyResponse{
			Error: &s,
		})
		return
	}

	var company models.Company
	err = models.DB.First(&company, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CompanyResponse{
			Error: &s,
		})
		return
	}

	data := newCompany(c, company)
	c.JSON(http.StatusOK, CompanyResponse{Data: &data})
}

// @Summary		Update company
// @Description	Update an existing company. Only values to be updated need to be specified.
// @Tags			Companies
// @Accept			json
// @Produce		json
// @Success		200		{object}	CompanyResponse
// @Failure		400		{object}	CompanyResponse
// @Failure		404		{object}	CompanyResponse
// @Failure		500		{object}	CompanyResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			company	body		CompanyEditable	true	"Company"
// @Router			/v4/companies/{id} [patch]
func UpdateCompany(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CompanyResponse{
			Error: &s,
		})
		return
	}

	var company models.Company
	err = models.DB.First(&company, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CompanyResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, CompanyEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CompanyResponse{
			Error: &s,
		})
		return
	}

	var data CompanyEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CompanyResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&company).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CompanyResponse{
			Error: &s,
		})
		return
	}

	r := newCompany(c, company)
	c.JSON(http.StatusOK, CompanyResponse{Data: &r})
}

// @Summary		Delete company
// @Description	Deletes a company. Companies that still have obligations, payments, configurations or ledger entries cannot be deleted.
// @Tags			Companies
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v4/companies/{id} [delete]
func DeleteCompany(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var company models.Company
	err = models.DB.First(&company, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&company).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
