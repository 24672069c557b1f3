package routes

import (
	"net/http"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/ai"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/suggest"

	"github.com/labstack/echo/v4"
)

var factionHintsSchema = ai.Schema(&suggest.Hints{})

// GetFactionHintsSchemaHandler serves the argument schema of the faction
// suggestion tool.
func GetFactionHintsSchemaHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, factionHintsSchema)
}
