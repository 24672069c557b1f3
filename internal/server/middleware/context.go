package middleware

import (
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/campaign"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/logger"

	"github.com/labstack/echo/v4"
)

type App struct {
	Campaign *campaign.Service
	Log      *logger.Logger
}

type AppContext struct {
	echo.Context
	App *App
}

// AppContextMiddleware hands app to every handler through an AppContext.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{c, app})
		}
	}
}
