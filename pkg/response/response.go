package response

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "communityhub/pkg/errors"
	"communityhub/pkg/logger"
)

// ErrorBody is the only error shape the API emits.
type ErrorBody struct {
	Error string `json:"error"`
}

type SuccessBody struct {
	Success bool `json:"success"`
}

// Success writes data as the bare JSON body. The browser client reads
// records and sequences directly, so there is no envelope.
func Success(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// Deleted writes the {success:true} acknowledgement.
func Deleted(c echo.Context) error {
	return c.JSON(http.StatusOK, SuccessBody{Success: true})
}

func Error(c echo.Context, err error) error {
	status, message := Resolve(err)
	if status >= http.StatusInternalServerError {
		logger.Error("%s %s failed: %v", c.Request().Method, c.Path(), err)
	}
	return c.JSON(status, ErrorBody{Error: message})
}

// Resolve maps any error to the status and client-facing message.
func Resolve(err error) (int, string) {
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationMessage(validationErr)
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Status, appErr.Message
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if msg, ok := httpErr.Message.(string); ok {
			return httpErr.Code, msg
		}
		return httpErr.Code, http.StatusText(httpErr.Code)
	}

	return http.StatusInternalServerError, "An unexpected error occurred"
}

// HTTPErrorHandler makes framework errors (routing, binding, recover)
// share the {error} body.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if writeErr := Error(c, err); writeErr != nil {
		logger.Error("writing error response: %v", writeErr)
	}
}

func validationMessage(validationErr validator.ValidationErrors) string {
	for _, err := range validationErr {
		field := err.Field()
		param := err.Param()

		switch err.Tag() {
		case "required":
			return field + " is required"
		case "oneof":
			return field + " must be one of: " + param
		case "email":
			return field + " must be a valid email address"
		case "max":
			return field + " must be at most " + param
		default:
			return field + " is invalid"
		}
	}
	return "Invalid input data"
}
