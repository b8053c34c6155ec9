package v4

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zakaah-management/backend/internal/calculation"
	"github.com/zakaah-management/backend/internal/httputil"
	"github.com/zakaah-management/backend/internal/ledger"
	"github.com/zakaah-management/backend/internal/models"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterConfigurationRoutes registers the routes for assets
// configurations with the RouterGroup that is passed.
func RegisterConfigurationRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsConfigurationList)
		r.GET("", GetConfigurations)
		r.POST("", CreateConfigurations)
	}

	// Configuration with ID
	{
		r.OPTIONS("/:id", OptionsConfigurationDetail)
		r.GET("/:id", GetConfiguration)
		r.PATCH("/:id", UpdateConfiguration)
		r.DELETE("/:id", DeleteConfiguration)
	}

	// Calculation run
	{
		r.OPTIONS("/:id/calculate", OptionsConfigurationCalculate)
		r.POST("/:id/calculate", CalculateConfiguration)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Configurations
// @Success		204
// @Router			/v4/configurations [options]
func OptionsConfigurationList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Configurations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v4/configurations/{id} [options]
func OptionsConfigurationDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Configuration{})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Configurations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v4/configurations/{id}/calculate [options]
func OptionsConfigurationCalculate(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Configuration{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsPost(c)
}

// @Summary		Create configurations
// @Description	Creates new assets configurations together with their accounts
// @Tags			Configurations
// @Produce		json
// @Success		201				{object}	ConfigurationCreateResponse
// @Failure		400				{object}	ConfigurationCreateResponse
// @Failure		404				{object}	ConfigurationCreateResponse
// @Failure		500				{object}	ConfigurationCreateResponse
// @Param			configurations	body		[]ConfigurationEditable	true	"Configurations"
// @Router			/v4/configurations [post]
func CreateConfigurations(c *gin.Context) {
	var editables []ConfigurationEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ConfigurationCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := ConfigurationCreateResponse{}

	for _, editable := range editables {
		configuration := editable.model()

		// The configuration and its accounts are created together
		err = models.DB.Transaction(func(tx *gorm.DB) error {
			err := tx.Create(&configuration).Error
			if err != nil {
				return err
			}

			for _, account := range editable.Accounts {
				model := account.model(configuration.ID)
				err = tx.Create(&model).Error
				if err != nil {
					return err
				}
			}

			return nil
		})
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data, err := newConfiguration(c, models.DB, configuration)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}
		r.Data = append(r.Data, ConfigurationResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get configurations
// @Description	Returns a list of assets configurations
// @Tags			Configurations
// @Produce		json
// @Success		200	{object}	ConfigurationListResponse
// @Failure		400	{object}	ConfigurationListResponse
// @Failure		500	{object}	ConfigurationListResponse
// @Router			/v4/configurations [get]
// @Param			company	query	string	false	"Filter by company ID"
// @Param			period	query	string	false	"Filter by period label"
// @Param			note	query	string	false	"Filter by note"
// @Param			offset	query	uint	false	"The offset of the first configuration returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of configurations to return. Defaults to 50."
func GetConfigurations(c *gin.Context) {
	var filter ConfigurationQueryFilter
	err := c.Bind(&filter)
	if err != nil {
		s := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, ConfigurationListResponse{
			Error: &s,
		})
		return
	}

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Order("period_start ASC, id ASC").
		Where(filter.model(), queryFields...)

	q = noteFilter(q, setFields, filter.Note)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 configurations and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var configurations []models.Configuration
	err = q.Find(&configurations).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ConfigurationListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ConfigurationListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Configuration, 0)
	for _, configuration := range configurations {
		apiResource, err := newConfiguration(c, models.DB, configuration)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), ConfigurationListResponse{
				Error: &s,
			})
			return
		}
		data = append(data, apiResource)
	}

	c.JSON(http.StatusOK, ConfigurationListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get configuration
// @Description	Returns a specific assets configuration
// @Tags			Configurations
// @Produce		json
// @Success		200	{object}	ConfigurationResponse
// @Failure		400	{object}	ConfigurationResponse
// @Failure		404	{object}	ConfigurationResponse
// @Failure		500	{object}	ConfigurationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v4/configurations/{id} [get]
func GetConfiguration(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ConfigurationResponse{
			Error: &s,
		})
		return
	}

	var configuration models.Configuration
	err = models.DB.First(&configuration, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ConfigurationResponse{
			Error: &s,
		})
		return
	}

	data, err := newConfiguration(c, models.DB, configuration)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ConfigurationResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, ConfigurationResponse{Data: &data})
}

// @Summary		Update configuration
// @Description	Update an existing assets configuration. Only values to be updated need to be specified. When accounts are specified, the whole account list is replaced.
// @Tags			Configurations
// @Accept			json
// @Produce		json
// @Success		200				{object}	ConfigurationResponse
// @Failure		400				{object}	ConfigurationResponse
// @Failure		404				{object}	ConfigurationResponse
// @Failure		500				{object}	ConfigurationResponse
// @Param			id				path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			configuration	body		ConfigurationEditable	true	"Configuration"
// @Router			/v4/configurations/{id} [patch]
func UpdateConfiguration(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ConfigurationResponse{
			Error: &s,
		})
		return
	}

	var configuration models.Configuration
	err = models.DB.First(&configuration, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ConfigurationResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ConfigurationEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ConfigurationResponse{
			Error: &s,
		})
		return
	}

	var data ConfigurationEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ConfigurationResponse{
			Error: &s,
		})
		return
	}

	// The account list is not a column, it is replaced explicitly below
	replaceAccounts := slices.Contains(updateFields, any("Accounts"))
	updateFields = slices.DeleteFunc(updateFields, func(f any) bool {
		return f == any("Accounts")
	})

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if len(updateFields) > 0 {
			err := tx.Model(&configuration).Select("", updateFields...).Updates(data.model()).Error
			if err != nil {
				return err
			}
		}

		if replaceAccounts {
			err := tx.Where("configuration_id = ?", configuration.ID).Delete(&models.ConfigurationAccount{}).Error
			if err != nil {
				return err
			}

			for _, account := range data.Accounts {
				model := account.model(configuration.ID)
				err = tx.Create(&model).Error
				if err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ConfigurationResponse{
			Error: &s,
		})
		return
	}

	r, err := newConfiguration(c, models.DB, configuration)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ConfigurationResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, ConfigurationResponse{Data: &r})
}

// @Summary		Delete configuration
// @Description	Deletes an assets configuration and its accounts
// @Tags			Configurations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v4/configurations/{id} [delete]
func DeleteConfiguration(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var configuration models.Configuration
	err = models.DB.First(&configuration, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("configuration_id = ?", configuration.ID).Delete(&models.ConfigurationAccount{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&configuration).Error
	})
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Calculate obligation
// @Description	Resolves the balances for all accounts of the configuration from the ledger, applies the margins and the zakaah rate of 2.5% and creates the obligation for the period. Fails when an obligation for the period already exists.
// @Tags			Configurations
// @Produce		json
// @Success		201	{object}	CalculationResponse
// @Failure		400	{object}	CalculationResponse
// @Failure		404	{object}	CalculationResponse
// @Failure		500	{object}	CalculationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v4/configurations/{id}/calculate [post]
func CalculateConfiguration(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CalculationResponse{
			Error: &s,
		})
		return
	}

	var configuration models.Configuration
	err = models.DB.First(&configuration, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CalculationResponse{
			Error: &s,
		})
		return
	}

	var accounts []models.ConfigurationAccount
	err = models.DB.
		Where("configuration_id = ?", configuration.ID).
		Order("class ASC, account ASC").
		Find(&accounts).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CalculationResponse{
			Error: &s,
		})
		return
	}

	obligation, updated, err := calculation.Run(ledger.Database{DB: models.DB}, configuration, accounts)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CalculationResponse{
			Error: &s,
		})
		return
	}

	// Persist the obligation and the resolved balances together
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Create(&obligation).Error
		if err != nil {
			return err
		}

		for i := range updated {
			err = tx.Model(&models.ConfigurationAccount{DefaultModel: updated[i].DefaultModel}).
				Select("Balance", "AdjustedValue").
				Updates(models.ConfigurationAccount{
					Balance:       updated[i].Balance,
					AdjustedValue: updated[i].AdjustedValue,
				}).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CalculationResponse{
			Error: &s,
		})
		return
	}

	data := CalculationData{
		Obligation: newObligation(c, obligation),
		Accounts:   make([]ConfigurationAccount, 0, len(updated)),
	}

	for _, account := range updated {
		data.Accounts = append(data.Accounts, newConfigurationAccount(account))
	}

	c.JSON(http.StatusCreated, CalculationResponse{Data: &data})
}
