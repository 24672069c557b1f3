package routes

import (
	"net/http"

	"github.com/MMMikeM/DND-Campaign-sub000/internal/server/middleware"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/gaps"

	"github.com/labstack/echo/v4"
)

// GetGapsHandler returns the gap report of one domain.
func GetGapsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	report, err := app.Campaign.Gaps(c.Request().Context(), c.Param("domain"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

// GetAllGapsHandler returns the gap reports of every domain over one world
// snapshot.
func GetAllGapsHandler(c echo.Context) error {
	type allGapsResponse struct {
		Reports []gaps.Report `json:"reports"`
	}

	app := c.(*middleware.AppContext).App
	reports, err := app.Campaign.AllGaps(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, allGapsResponse{Reports: reports})
}
