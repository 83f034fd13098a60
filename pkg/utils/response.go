package utils

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/AnimeshnikLeon/climate-app/pkg/errors"
)

type HttpResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
	Total   *uint64     `json:"total,omitempty"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	}
	if len(total) > 0 {
		response.Total = &total[0]
	}
	return ctx.JSON(code, response)
}

// httpStatusFor переводит доменную ошибку в HTTP-статус.
// Ошибки политики не ретраятся: повтор того же запроса даст тот же ответ.
func httpStatusFor(err error) int {
	var permErr *apperrors.PermissionDeniedError
	var validationErr *apperrors.ValidationError
	var transitionErr *apperrors.InvalidTransitionError
	var integrityErr *apperrors.IntegrityViolationError
	var fieldErrs validator.ValidationErrors

	switch {
	case errors.As(err, &fieldErrs):
		return http.StatusUnprocessableEntity
	case errors.As(err, &permErr):
		return http.StatusForbidden
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &transitionErr):
		return http.StatusConflict
	case errors.As(err, &integrityErr):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized),
		errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrEmptyAuthHeader),
		errors.Is(err, apperrors.ErrInvalidAuthHeader),
		errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenIsNotAccess),
		errors.Is(err, apperrors.ErrUserIDNotFoundInContext):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return ctx.JSON(httpErr.Code, &HttpResponse{
			Status:  false,
			Body:    struct{}{},
			Message: httpErr.Error(),
		})
	}

	code := httpStatusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		logger.Error("внутренняя ошибка", zap.Error(err))
		message = "внутренняя ошибка сервера"
	}

	return ctx.JSON(code, &HttpResponse{
		Status:  false,
		Body:    struct{}{},
		Message: message,
	})
}
