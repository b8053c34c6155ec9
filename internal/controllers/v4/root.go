package v4

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zakaah-management/backend/internal/httputil"
	"github.com/zakaah-management/backend/internal/models"
)

func RegisterRootRoutes(r *gin.RouterGroup) {
	r.GET("", Get)
	r.DELETE("", Cleanup)
	r.OPTIONS("", Options)
}

type Response struct {
	Links Links `json:"links"` // Links for the v4 API
}

type Links struct {
	Allocations    string `json:"allocations" example:"https://example.com/api/v4/allocations"`       // URL of the allocation record collection endpoint
	Companies      string `json:"companies" example:"https://example.com/api/v4/companies"`           // URL of the company collection endpoint
	Configurations string `json:"configurations" example:"https://example.com/api/v4/configurations"` // URL of the assets configuration collection endpoint
	LedgerEntries  string `json:"ledgerEntries" example:"https://example.com/api/v4/ledger-entries"`  // URL of the ledger entry collection endpoint
	Obligations    string `json:"obligations" example:"https://example.com/api/v4/obligations"`       // URL of the obligation collection endpoint
	Payments       string `json:"payments" example:"https://example.com/api/v4/payments"`             // URL of the payment collection endpoint
}

// Get returns the link list for v4
//
//	@Summary		v4 API
//	@Description	Returns general information about the v4 API
//	@Tags			v4
//	@Success		200	{object}	Response
//	@Router			/v4 [get]
func Get(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, Response{
		Links: Links{
			Allocations:    url + "/v4/allocations",
			Companies:      url + "/v4/companies",
			Configurations: url + "/v4/configurations",
			LedgerEntries:  url + "/v4/ledger-entries",
			Obligations:    url + "/v4/obligations",
			Payments:       url + "/v4/payments",
		},
	})
}

// Options returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			v4
//	@Success		204
//	@Router			/v4 [options]
func Options(c *gin.Context) {
	httputil.OptionsGetDelete(c)
}
