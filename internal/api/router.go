package api

import (
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/sharelgx/JDVideo/internal/api/controllers"
	"github.com/sharelgx/JDVideo/internal/app"
)

// ServerName is sent in the Server header of every response.
const ServerName = "JDVideoLocalDownloader/0.2"

// NewServer returns the HTTP handler for the helper.
func NewServer(app *app.Context) *echo.Echo {
	e := echo.New()
	RegisterRoutes(e, app)
	return e
}

func RegisterRoutes(e *echo.Echo, app *app.Context) {

	// Middleware: Request Logger
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c *echo.Context, v middleware.RequestLoggerValues) error {
			app.Logger.Info("%s %s | %d | %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			c.Response().Header().Set(echo.HeaderServer, ServerName)
			return next(c)
		}
	})

	health := &controllers.HealthController{}
	download := &controllers.DownloadController{App: app}
	events := &controllers.EventsController{App: app}
	history := &controllers.HistoryController{App: app}

	// Extension endpoints
	e.POST("/download", download.Handle)
	e.POST("/log", events.Handle)

	// Batch history
	e.GET("/batches", history.HandleList)
	e.GET("/batches/:id", history.HandleGet)

	// Everything else: health on GET, not_found on POST
	e.GET("/", health.Handle)
	e.GET("/*", health.Handle)
	e.POST("/*", health.HandleUnknown)
}
