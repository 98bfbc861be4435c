package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/employee-portal/internal/config"
	"github.com/iliyamo/employee-portal/internal/handler"
)

// Options configures New.
type Options struct {
	Handlers     Handlers
	Session      echo.MiddlewareFunc
	RateLimit    config.RateLimitConfig
	Redis        *redis.Client // nil disables rate limiting
	CookieSecure bool
}

// New builds the portal's echo server: renderer, error page, the global
// middleware chain and every route.
func New(o Options) (*echo.Echo, error) {
	r, err := handler.NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = r
	e.HTTPErrorHandler = handler.ErrorHandler

	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CSRFWithConfig(echomw.CSRFConfig{
		Skipper:        func(c echo.Context) bool { return c.Path() == "/healthz" },
		TokenLookup:    "form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   o.CookieSecure,
		CookieSameSite: http.SameSiteLaxMode,
	}))

	RegisterRoutes(e, o.Handlers)
	RegisterPages(e, o.Handlers, o.Session, o.RateLimit, o.Redis)
	return e, nil
}
