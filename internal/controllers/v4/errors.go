package v4

import (
	"errors"
	"net/http"

	"github.com/zakaah-management/backend/internal/allocation"
	"github.com/zakaah-management/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"An ID specified in the query string was not a valid UUID"`
}

// status returns the appropriate status for a database error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, allocation.ErrInternal) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

// Cleanup errors
var (
	errCleanupConfirmation = errors.New("the confirmation for the cleanup API call was incorrect")
)

// Import errors
var (
	errNoFilePost        = errors.New("you must send a file to this endpoint")
	errWrongFileSuffix   = errors.New("this endpoint only supports files of the following types")
	errNoPaymentAccounts = errors.New("no payment accounts are configured for this company. Configure accounts with the payment class or set the accounts parameter")
)
