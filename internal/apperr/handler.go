package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/realtyconnect/community-api/internal/logging"
)

// HTTPErrorHandler translates every error escaping a handler into the
// {success:false, message} body the clients expect. Persistence internals
// are logged server-side and never leak into the response. When exposeDetail
// is set (non-production) the raw error string is attached to 500 bodies.
func HTTPErrorHandler(exposeDetail bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		l := logging.FromContext(c.Request().Context())

		status := http.StatusInternalServerError
		message := "internal server error"

		var appErr *Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = appErr.Status
			message = appErr.Message
		case errors.As(err, &httpErr):
			status = httpErr.Code
			message = fmt.Sprintf("%v", httpErr.Message)
		case errors.Is(err, gorm.ErrRecordNotFound):
			status = http.StatusNotFound
			message = "resource not found"
		case errors.Is(err, gorm.ErrDuplicatedKey):
			status = http.StatusBadRequest
			message = "duplicate value"
		case errors.Is(err, gorm.ErrInvalidData):
			status = http.StatusBadRequest
			message = "invalid request data"
		}

		if status >= 500 {
			l.Error("request failed", "status", status, "error", err)
		} else {
			l.Warn("request rejected", "status", status, "reason", message)
		}

		body := echo.Map{"success": false, "message": message}
		if exposeDetail && status >= 500 {
			body["error"] = err.Error()
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			l.Error("error response write failed", "error", writeErr)
		}
	}
}
