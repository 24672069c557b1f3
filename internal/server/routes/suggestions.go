package routes

import (
	"io"
	"net/http"

	"github.com/MMMikeM/DND-Campaign-sub000/internal/server/middleware"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/ai"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/suggest"

	"github.com/labstack/echo/v4"
)

// maxHintsBody bounds the faction hints payload.
const maxHintsBody = 64 << 10

// PostFactionSuggestionsHandler derives suggestions for a faction about to
// be created. The body is usually written by a model, so malformed JSON
// is repaired before validation.
func PostFactionSuggestionsHandler(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxHintsBody))
	if err != nil {
		return badRequest(c, "Invalid request body")
	}

	hints := new(suggest.Hints)
	if err := ai.DecodeToolArguments(string(body), hints); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(hints); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	app := c.(*middleware.AppContext).App
	out, err := app.Campaign.SuggestFaction(c.Request().Context(), *hints)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
