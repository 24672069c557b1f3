package server

import (
	"net/http"

	"github.com/MMMikeM/DND-Campaign-sub000/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	api := e.Group("/api")

	// Entity resolution
	api.GET("/search", routes.SearchHandler)

	// Gap analysis
	api.GET("/gaps", routes.GetAllGapsHandler)
	api.GET("/gaps/:domain", routes.GetGapsHandler)

	// Faction creation
	api.POST("/suggestions/faction", routes.PostFactionSuggestionsHandler)
	api.GET("/schema/faction-hints", routes.GetFactionHintsSchemaHandler)
}
