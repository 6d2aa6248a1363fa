package handlers

import (
	"net/http"

	"port-billing/internal/apperror"
	"port-billing/internal/logger"
)

// writeServiceError переводит типизированную ошибку сервиса в HTTP статус.
// Имя проблемного поля (если есть) возвращается клиенту вместе с сообщением.
func writeServiceError(w http.ResponseWriter, log *logger.Logger, err error, internalMessage string) {
	switch {
	case apperror.Is(err, apperror.KindNotFound):
		writeTypedError(w, http.StatusNotFound, err)
	case apperror.Is(err, apperror.KindValidation):
		writeTypedError(w, http.StatusBadRequest, err)
	case apperror.Is(err, apperror.KindInvalidParameter):
		writeTypedError(w, http.StatusUnprocessableEntity, err)
	case apperror.Is(err, apperror.KindConflict):
		writeTypedError(w, http.StatusConflict, err)
	default:
		if log != nil {
			log.WithError(err).Error(internalMessage)
		}
		writeErrorResponse(w, http.StatusInternalServerError, internalMessage)
	}
}

func writeTypedError(w http.ResponseWriter, statusCode int, err error) {
	writeJSONResponse(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: err.Error(),
		Field:   apperror.FieldOf(err),
	})
}
