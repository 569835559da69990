package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/filmorate/internal/service"
)

// writeError maps a service error onto a JSON error response.  Validation
// failures become 400, missing entities 404, anything else 500 with a generic
// message so internal details never leak to clients.
func writeError(c echo.Context, err error) error {
    var verr *service.ValidationError
    if errors.As(err, &verr) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Message})
    }
    var nf *service.NotFoundError
    if errors.As(err, &nf) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": nf.Message})
    }
    c.Logger().Errorf("unhandled service error: %v", err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// badRequest writes a 400 with the given message.
func badRequest(c echo.Context, msg string) error {
    return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
