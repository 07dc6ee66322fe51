package v1alpha1

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/talentpool/pipeline/internal/service"
	"github.com/talentpool/pipeline/pkg/requestid"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Message   string  `json:"message"`
	RequestId *string `json:"request_id,omitempty"`
}

// renderServiceError maps the workflow error taxonomy onto HTTP status
// codes. Unknown errors are treated as transient store failures: the
// transaction has been rolled back and the caller may retry.
func renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch err.(type) {
	case *service.ErrResourceNotFound:
		status = http.StatusNotFound
	case *service.ErrForbidden:
		status = http.StatusForbidden
	case *service.ErrInvalidTransition, *service.ErrInvalidState, *service.ErrConflictingOffer:
		status = http.StatusConflict
	case *service.ErrTransitionConflict:
		status = http.StatusServiceUnavailable
	default:
		zap.S().Named("handlers").Errorw("request failed", "error", err, "request_id", requestid.FromRequest(r))
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Message: err.Error(), RequestId: requestid.FromContextPtr(r.Context())})
}

func renderBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse{Message: err.Error(), RequestId: requestid.FromContextPtr(r.Context())})
}
