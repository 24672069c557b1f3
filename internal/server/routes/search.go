package routes

import (
	"net/http"

	"github.com/MMMikeM/DND-Campaign-sub000/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// SearchHandler resolves a free-text name to entities of one type.
func SearchHandler(c echo.Context) error {
	type searchParams struct {
		Query string `query:"q" validate:"required,max=200"`
		Type  string `query:"type" validate:"required,oneof=npcs factions quests"`
		Limit int    `query:"limit" validate:"min=0,max=50"`
	}

	params := new(searchParams)
	if err := c.Bind(params); err != nil {
		return badRequest(c, "Invalid request params")
	}
	if err := c.Validate(params); err != nil {
		return badRequest(c, "Invalid request params")
	}

	app := c.(*middleware.AppContext).App
	res, err := app.Campaign.Search(c.Request().Context(), params.Query, params.Type, params.Limit)
	if err != nil {
		return writeError(c, err)
	}
	if res.Err() != nil {
		app.Log.Debug("No match", "query", res.Query, "type", params.Type)
	}
	return c.JSON(http.StatusOK, res)
}
