package handling

import (
	"ashtray_server/lib"
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// HandleError maps err onto the API error taxonomy and writes the response.
// msg is the generic message used for unexpected errors; internal detail is only logged.
func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) {
	var (
		validationErr *lib.ValidationError
		notFoundErr   *lib.NotFoundError
		permissionErr *lib.PermissionDeniedError
		conflictErr   *lib.ConflictError
		signatureErr  *lib.SignatureError
		externalErr   *lib.ExternalServiceError
	)

	switch {
	case errors.As(err, &validationErr):
		logger.Debug("Request rejected", gecho.Field("error", err))
		if len(validationErr.Errors) > 0 {
			gecho.BadRequest(w,
				gecho.WithMessage(validationErr.Error()),
				gecho.WithData(validationErr.Errors),
				gecho.Send(),
			)
			return
		}
		gecho.BadRequest(w, gecho.WithMessage(validationErr.Error()), gecho.Send())
		return

	case errors.As(err, &notFoundErr):
		logger.Debug("Resource not found", gecho.Field("error", err))
		gecho.NotFound(w, gecho.WithMessage(notFoundErr.Error()), gecho.Send())
		return

	case errors.As(err, &permissionErr):
		logger.Warn("Permission denied", gecho.Field("error", err))
		gecho.Forbidden(w, gecho.WithMessage("Admin access required"), gecho.Send())
		return

	case errors.As(err, &conflictErr):
		logger.Warn("Conflicting write", gecho.Field("error", err))
		gecho.Conflict(w, gecho.WithMessage(conflictErr.Error()), gecho.Send())
		return

	case errors.As(err, &signatureErr):
		logger.Warn("Rejected webhook payload", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("Invalid signature"), gecho.Send())
		return

	case errors.As(err, &externalErr):
		logger.Error("External service failure",
			gecho.Field("service", externalErr.Service),
			gecho.Field("retryable", externalErr.Retryable),
			gecho.Field("error", externalErr.Err),
			gecho.WithCallerSkip(3),
		)
		if externalErr.Retryable {
			w.Header().Set("Retry-After", "5")
			gecho.ServiceUnavailable(w, gecho.WithMessage("Payment provider timed out, please retry"), gecho.Send())
			return
		}
		gecho.InternalServerError(w, gecho.WithMessage("Payment provider error"), gecho.Send())
		return
	}

	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))
	gecho.InternalServerError(w, gecho.WithMessage(msg), gecho.Send())
}
