package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/middleware/auth"
	"github.com/Skotchmaster/catalog/internal/service"
)

const (
	msgNotFound        = "Not Found"
	msgUnauthenticated = "You Are Unauthenticated"
	msgTokenAbsent     = "Token could not be parsed from the request"
	msgInvalidBody     = "invalid body"
)

var errInvalidBody = echo.NewHTTPError(http.StatusUnprocessableEntity, msgInvalidBody)

// failure is the body of a 500 raised by a write endpoint.
func failure(message string, err error, status int) echo.Map {
	return echo.Map{"message": message, "error": err.Error(), "status": status}
}

// HTTPErrorHandler renders every error returned by a handler or middleware.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, body := renderError(err)
	if code >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", code, "error", err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, body)
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error("write_error_response", "error", werr)
	}
}

func renderError(err error) (int, any) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, echo.Map{"message": ve.Message(), "errors": ve.Fields}
	}

	switch {
	case errors.Is(err, auth.ErrTokenAbsent):
		return http.StatusUnauthorized, echo.Map{"message": msgTokenAbsent, "status": http.StatusUnauthorized}
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, echo.Map{"message": msgUnauthenticated}
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, echo.Map{"message": msgNotFound}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusNotFound {
			return he.Code, echo.Map{"message": msgNotFound}
		}
		switch m := he.Message.(type) {
		case echo.Map:
			return he.Code, m
		case string:
			return he.Code, echo.Map{"message": m}
		case error:
			return he.Code, echo.Map{"message": m.Error()}
		default:
			return he.Code, echo.Map{"message": fmt.Sprint(m)}
		}
	}

	return http.StatusInternalServerError, echo.Map{"message": http.StatusText(http.StatusInternalServerError)}
}
