package routes

import (
	"errors"
	"net/http"

	"github.com/MMMikeM/DND-Campaign-sub000/internal/server/middleware"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/apperror"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Message  string            `json:"message"`
	Code     apperror.Code     `json:"code"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// writeError answers with the status of err's code. Internal errors are
// logged and their message withheld.
func writeError(c echo.Context, err error) error {
	code := apperror.CodeOf(err)
	res := errorResponse{Message: err.Error(), Code: code}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		res.Metadata = appErr.Metadata
	}
	if code == apperror.CodeInternal {
		c.(*middleware.AppContext).App.Log.Error("Request failed", "path", c.Path(), "err", err)
		res.Message = "Internal server error"
	}
	return c.JSON(code.HTTPStatus(), res)
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Message: message, Code: apperror.CodeValidation})
}
