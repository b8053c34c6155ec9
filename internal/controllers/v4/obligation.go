package v4

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zakaah-management/backend/internal/httputil"
	"github.com/zakaah-management/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterObligationRoutes registers the routes for obligations with
// the RouterGroup that is passed.
func RegisterObligationRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsObligationList)
		r.GET("", GetObligations)
		r.POST("", CreateObligations)
	}

	// Obligation with ID
	{
		r.OPTIONS("/:id", OptionsObligationDetail)
		r.GET("/:id", GetObligation)
		r.PATCH("/:id", UpdateObligation)
		r.DELETE("/:id", DeleteObligation)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Obligations
// @Success		204
// @Router			/v4/obligations [options]
func OptionsObligationList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Obligations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v4/obligations/{id} [options]
func OptionsObligationDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Obligation{})
}

// @Summary		Create obligations
// @Description	Creates new obligations. Use this for obligations assessed outside of the backend, obligations for configured periods are created with the calculate endpoint of the assets configuration.
// @Tags			Obligations
// @Produce		json
// @Success		201			{object}	ObligationCreateResponse
// @Failure		400			{object}	ObligationCreateResponse
// @Failure		404			{object}	ObligationCreateResponse
// @Failure		500			{object}	ObligationCreateResponse
// @Param			obligations	body		[]ObligationEditable	true	"Obligations"
// @Router			/v4/obligations [post]
func CreateObligations(c *gin.Context) {
	var editables []ObligationEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ObligationCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := ObligationCreateResponse{}

	for _, editable := range editables {
		obligation := editable.model()

		err = models.DB.Create(&obligation).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newObligation(c, obligation)
		r.Data = append(r.Data, ObligationResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get obligations
// @Description	Returns a list of obligations
// @Tags			Obligations
// @Produce		json
// @Success		200	{object}	ObligationListResponse
// @Failure		400	{object}	ObligationListResponse
// @Failure		500	{object}	ObligationListResponse
// @Router			/v4/obligations [get]
// @Param			company	query	string	false	"Filter by company ID"
// @Param			period	query	string	false	"Filter by period label"
// @Param			note	query	string	false	"Filter by note"
// @Param			search	query	string	false	"Search for this text in note and period label"
// @Param			offset	query	uint	false	"The offset of the first Obligation returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Obligations to return. Defaults to 50."
func GetObligations(c *gin.Context) {
	var filter ObligationQueryFilter
	err := c.Bind(&filter)
	if err != nil {
		s := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, ObligationListResponse{
			Error: &s,
		})
		return
	}

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	// Obligations are returned in their settlement order
	q := models.DB.
		Order("period_start ASC, id ASC").
		Where(filter.model(), queryFields...)

	q = noteFilter(q, setFields, filter.Note)

	if filter.Search != "" {
		q = q.Where(
			models.DB.Where("note LIKE ?", fmt.Sprintf("%%%s%%", filter.Search)).Or(
				models.DB.Where("period_label LIKE ?", fmt.Sprintf("%%%s%%", filter.Search)),
			),
		)
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 Obligations and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var obligations []models.Obligation
	err = q.Find(&obligations).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ObligationListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ObligationListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Obligation, 0)
	for _, obligation := range obligations {
		data = append(data, newObligation(c, obligation))
	}

	c.JSON(http.StatusOK, ObligationListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get obligation
// @Description	Returns a specific obligation
// @Tags			Obligations
// @Produce		json
// @Success		200	{object}	ObligationResponse
// @Failure		400	{object}	ObligationResponse
// @Failure		404	{object}	ObligationResponse
// @Failure		500	{object}	ObligationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v4/obligations/{id} [get]
func GetObligation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ObligationResponse{
			Error: &s,
		})
		return
	}

	var obligation models.Obligation
	err = models.DB.First(&obligation, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ObligationResponse{
			Error: &s,
		})
		return
	}

	data := newObligation(c, obligation)
	c.JSON(http.StatusOK, ObligationResponse{Data: &data})
}

// @Summary		Update obligation
// @Description	Update an existing obligation. Only values to be updated need to be specified. The paid amount cannot be set directly, it only moves through allocations.
// @Tags			Obligations
// @Accept			json
// @Produce		json
// @Success		200			{object}	ObligationResponse
// @Failure		400			{object}	ObligationResponse
// @Failure		404			{object}	ObligationResponse
// @Failure		500			{object}	ObligationResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			obligation	body		ObligationEditable	true	"Obligation"
// @Router			/v4/obligations/{id} [patch]
func UpdateObligation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ObligationResponse{
			Error: &s,
		})
		return
	}

	var obligation models.Obligation
	err = models.DB.First(&obligation, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ObligationResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ObligationEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ObligationResponse{
			Error: &s,
		})
		return
	}

	var data ObligationEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ObligationResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&obligation).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ObligationResponse{
			Error: &s,
		})
		return
	}

	r := newObligation(c, obligation)
	c.JSON(http.StatusOK, ObligationResponse{Data: &r})
}

// @Summary		Delete obligation
// @Description	Deletes an obligation. Obligations that appear in allocation records cannot be deleted.
// @Tags			Obligations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v4/obligations/{id} [delete]
func DeleteObligation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var obligation models.Obligation
	err = models.DB.First(&obligation, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&obligation).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
