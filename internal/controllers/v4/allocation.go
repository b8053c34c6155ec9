package v4

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zakaah-management/backend/internal/allocation"
	"github.com/zakaah-management/backend/internal/httputil"
	"github.com/zakaah-management/backend/internal/models"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterAllocationRoutes registers the routes for allocation records
// with the RouterGroup that is passed.
func RegisterAllocationRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsAllocationList)
		r.GET("", GetAllocations)
	}

	// Allocation run
	{
		r.OPTIONS("/run", OptionsAllocationRun)
		r.POST("/run", RunAllocation)
	}

	// Allocation record with ID
	{
		r.OPTIONS("/:id", OptionsAllocationDetail)
		r.GET("/:id", GetAllocation)
	}
}

// runLocks serializes allocation runs per company. Two concurrent runs
// for the same company would read the same balances and allocate the
// same money twice.
var runLocks sync.Map

func companyRunLock(id uuid.UUID) *sync.Mutex {
	lock, _ := runLocks.LoadOrStore(id, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Router			/v4/allocations [options]
func OptionsAllocationList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Router			/v4/allocations/run [options]
func OptionsAllocationRun(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs. Allocation records are immutable, only GET is allowed.
// @Tags			Allocations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v4/allocations/{id} [options]
func OptionsAllocationDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Allocation{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Get allocation records
// @Description	Returns a list of allocation records
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationListResponse
// @Failure		400	{object}	AllocationListResponse
// @Failure		500	{object}	AllocationListResponse
// @Router			/v4/allocations [get]
// @Param			obligation	query	string	false	"Filter by obligation ID"
// @Param			payment		query	string	false	"Filter by payment ID"
// @Param			offset		query	uint	false	"The offset of the first record returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of records to return. Defaults to 50."
func GetAllocations(c *gin.Context) {
	var filter AllocationQueryFilter
	err := c.Bind(&filter)
	if err != nil {
		s := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, AllocationListResponse{
			Error: &s,
		})
		return
	}

	// Get the fields that we are filtering for
	queryFields, _ := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Order("allocation_date ASC, id ASC").
		Where(filter.model(), queryFields...)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 records and set the limit
	limit := 50
	if c.Request.URL.Query().Has("limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var records []models.Allocation
	err = q.Find(&records).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Allocation, 0)
	for _, record := range records {
		data = append(data, newAllocation(c, record))
	}

	c.JSON(http.StatusOK, AllocationListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get allocation record
// @Description	Returns a specific allocation record
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationResponse
// @Failure		400	{object}	AllocationResponse
// @Failure		404	{object}	AllocationResponse
// @Failure		500	{object}	AllocationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v4/allocations/{id} [get]
func GetAllocation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &s,
		})
		return
	}

	var record models.Allocation
	err = models.DB.First(&record, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &s,
		})
		return
	}

	data := newAllocation(c, record)
	c.JSON(http.StatusOK, AllocationResponse{Data: &data})
}

// @Summary		Run allocation
// @Description	Matches the company's unreconciled payments against its outstanding obligations, oldest period first, and writes the resulting allocation records. Runs for the same company are serialized. Payment amount left over after all obligations are settled stays unallocated and carries forward.
// @Tags			Allocations
// @Accept			json
// @Produce		json
// @Success		201	{object}	AllocationRunResponse
// @Failure		400	{object}	AllocationRunResponse
// @Failure		404	{object}	AllocationRunResponse
// @Failure		500	{object}	AllocationRunResponse
// @Param			run	body		AllocationRunEditable	true	"Allocation run"
// @Router			/v4/allocations/run [post]
func RunAllocation(c *gin.Context) {
	var editable AllocationRunEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationRunResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.First(&models.Company{}, editable.CompanyID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationRunResponse{
			Error: &s,
		})
		return
	}

	// One run per company at a time
	lock := companyRunLock(editable.CompanyID)
	lock.Lock()
	defer lock.Unlock()

	obligations, err := selectObligations(editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationRunResponse{
			Error: &s,
		})
		return
	}

	payments, err := selectPayments(editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationRunResponse{
			Error: &s,
		})
		return
	}

	err = companyMismatch(editable.CompanyID, obligations, payments)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, AllocationRunResponse{
			Error: &s,
		})
		return
	}

	result, err := allocation.Allocate(obligations, payments, time.Now())
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationRunResponse{
			Error: &s,
		})
		return
	}

	// The records and the updated balances are committed together. If
	// anything fails, the run leaves no trace.
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		for i := range result.Records {
			err := tx.Create(&result.Records[i]).Error
			if err != nil {
				return err
			}
		}

		// The full structs are passed so that the balance invariants in
		// the model hooks see the real amounts, Select limits the
		// updated column.
		for i := range result.Obligations {
			err := tx.Model(&result.Obligations[i]).
				Select("PaidToDate").
				Updates(result.Obligations[i]).Error
			if err != nil {
				return err
			}
		}

		for i := range result.Payments {
			err := tx.Model(&result.Payments[i]).
				Select("AllocatedToDate").
				Updates(result.Payments[i]).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationRunResponse{
			Error: &s,
		})
		return
	}

	data := AllocationRunData{
		Records:     make([]Allocation, 0, len(result.Records)),
		Obligations: make([]Obligation, 0, len(result.Obligations)),
		Payments:    make([]Payment, 0, len(result.Payments)),
		Summary:     result.Summary,
	}

	for _, record := range result.Records {
		data.Records = append(data.Records, newAllocation(c, record))
	}
	for _, obligation := range result.Obligations {
		data.Obligations = append(data.Obligations, newObligation(c, obligation))
	}
	for _, payment := range result.Payments {
		data.Payments = append(data.Payments, newPayment(c, payment))
	}

	c.JSON(http.StatusCreated, AllocationRunResponse{Data: &data})
}

// selectObligations loads the obligations for an allocation run.
//
// Without an explicit selection, all obligations of the company with an
// outstanding balance take part.
func selectObligations(editable AllocationRunEditable) ([]models.Obligation, error) {
	var obligations []models.Obligation

	if len(editable.ObligationIDs) > 0 {
		for _, id := range editable.ObligationIDs {
			var obligation models.Obligation
			err := models.DB.First(&obligation, id).Error
			if err != nil {
				return nil, err
			}

			obligations = append(obligations, obligation)
		}

		return obligations, nil
	}

	err := models.DB.
		Where("company_id = ?", editable.CompanyID).
		Where("paid_to_date < total_due").
		Order("period_start ASC, id ASC").
		Find(&obligations).Error
	if err != nil {
		return nil, err
	}

	return obligations, nil
}

// selectPayments loads the payments for an allocation run.
//
// An explicit selection is loaded in the order the IDs are listed, the
// default selection is consumed in posting date order.
func selectPayments(editable AllocationRunEditable) ([]models.Payment, error) {
	var payments []models.Payment

	if len(editable.PaymentIDs) > 0 {
		for _, id := range editable.PaymentIDs {
			var payment models.Payment
			err := models.DB.First(&payment, id).Error
			if err != nil {
				return nil, err
			}

			payments = append(payments, payment)
		}

		return payments, nil
	}

	err := models.DB.
		Where("company_id = ?", editable.CompanyID).
		Where("allocated_to_date < gross_amount").
		Order("posting_date ASC, id ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	return payments, nil
}

// companyMismatch reports resources selected across companies. The
// check lives here and not in the engine: the engine does not know
// about companies at all.
func companyMismatch(companyID uuid.UUID, obligations []models.Obligation, payments []models.Payment) error {
	idx := slices.IndexFunc(obligations, func(o models.Obligation) bool {
		return o.CompanyID != companyID
	})
	if idx >= 0 {
		return fmt.Errorf("obligation %s does not belong to the company of this run", obligations[idx].ID)
	}

	idx = slices.IndexFunc(payments, func(p models.Payment) bool {
		return p.CompanyID != companyID
	})
	if idx >= 0 {
		return fmt.Errorf("payment %s does not belong to the company of this run", payments[idx].ID)
	}

	return nil
}
