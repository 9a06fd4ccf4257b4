package queue

import (
	"context"
	"errors"
	"net"

	"github.com/linktraq/linktraq/internal/models"
	"github.com/linktraq/linktraq/internal/transfer"
)

// ClassifyError maps a publish error to the failure ledger's error
// taxonomy. Classification feeds diagnostics only; every class goes
// through the same retry schedule.
func ClassifyError(err error) string {
	var apiErr *transfer.XAPIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401, 403:
			return models.ErrorTypeAuth
		case 400:
			return models.ErrorTypeValidation
		default:
			return models.ErrorTypeAPI
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return models.ErrorTypeNetwork
	}

	return models.ErrorTypeAPI
}
