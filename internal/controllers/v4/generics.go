package v4

import (
	"github.com/gin-gonic/gin"
	"github.com/zakaah-management/backend/internal/httputil"
	"github.com/zakaah-management/backend/internal/models"
)

// resourceOptionsDetail returns the appropriate response for an HTTP OPTIONS request for a specific resource.
//
// Note: This function only works for resources that support PATCH and DELETE. Allocation
// records are immutable and have their own OPTIONS handler.
func resourceOptionsDetail[R models.Company | models.Configuration | models.Obligation | models.Payment](c *gin.Context, resource R) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&resource, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}
