package handlers

import (
	"errors"
	"net/http"

	"github.com/psf-initiatives/admin-api/services"
	"github.com/psf-initiatives/admin-api/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to HTTP responses
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	if utils.IsValidationError(err) {
		HandleValidationError(w, err, logger)
		return
	}
	if errors.Is(err, errInvalidBody) {
		writeOrLog(utils.WriteBadRequest(w, "Invalid request body", nil), logger)
		return
	}

	var domainErr *services.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error("unhandled error type", zap.Error(err))
		writeOrLog(utils.WriteInternalServerError(w, ""), logger)
		return
	}

	switch domainErr.Type {
	case services.ErrorTypeNotFound:
		writeOrLog(utils.WriteNotFound(w, domainErr.Message), logger)

	case services.ErrorTypeValidation, services.ErrorTypeConflict:
		writeOrLog(utils.WriteBadRequest(w, domainErr.Message, nil), logger)

	case services.ErrorTypeUnauthorized:
		writeOrLog(utils.WriteUnauthorized(w, domainErr.Message), logger)

	case services.ErrorTypeForbidden:
		writeOrLog(utils.WriteForbidden(w, domainErr.Message), logger)

	case services.ErrorTypeInternal, services.ErrorTypeExternal:
		logger.Error("service error",
			zap.String("type", string(domainErr.Type)),
			zap.String("message", domainErr.Message),
			zap.Error(domainErr.Err))
		writeOrLog(utils.WriteError(w, http.StatusInternalServerError, domainErr.Message), logger)

	default:
		logger.Error("unhandled error type",
			zap.Error(err),
			zap.String("error_type", string(domainErr.Type)))
		writeOrLog(utils.WriteInternalServerError(w, ""), logger)
	}
}

// HandleValidationError handles validation errors from request parsing
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if utils.IsValidationError(err) {
		writeOrLog(utils.WriteBadRequest(w, err.Error(), utils.GetValidationFields(err)), logger)
		return
	}
	writeOrLog(utils.WriteBadRequest(w, err.Error(), nil), logger)
}

func writeOrLog(err error, logger *zap.Logger) {
	if err != nil {
		logger.Error("failed to write error response", zap.Error(err))
	}
}
