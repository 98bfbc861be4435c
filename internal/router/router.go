package router // package router defines how the portal's pages are registered

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/employee-portal/internal/config"
	"github.com/iliyamo/employee-portal/internal/handler"
	"github.com/iliyamo/employee-portal/internal/middleware"
	"github.com/iliyamo/employee-portal/internal/model"
)

// Handlers bundles everything the routes dispatch to.
type Handlers struct {
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
	Employees *handler.EmployeesHandler
	Health    echo.HandlerFunc
}

// RegisterRoutes registers the health check, which needs no session.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/healthz", h.Health)
}

// RegisterPages registers every browser-facing page.  All of them run
// behind the Session middleware; sign-in and registration posts are also
// rate limited.  Middleware is attached per route: groups without a prefix
// would install their catch-all 404 routes on top of each other.
func RegisterPages(e *echo.Echo, h Handlers, sess echo.MiddlewareFunc, rl config.RateLimitConfig, rdb *redis.Client) {
	limit := middleware.NewTokenBucket(rl, rdb)
	signedIn := middleware.RequireRole()
	admin := middleware.RequireRole(model.RoleAdmin)

	e.GET("/", h.Auth.Home, sess)
	e.GET("/login", h.Auth.ShowLogin, sess)
	e.POST("/login", h.Auth.Login, sess, limit)
	e.POST("/logout", h.Auth.Logout, sess)

	e.GET("/employee/dashboard", h.Dashboard.Employee, sess, signedIn)

	e.GET("/admin/dashboard", h.Dashboard.Admin, sess, admin)
	e.GET("/register", h.Auth.ShowRegister, sess, admin)
	e.POST("/register", h.Auth.Register, sess, admin, limit)
	e.GET("/employees", h.Employees.List, sess, admin)
	e.GET("/employees/export", h.Employees.Export, sess, admin)
	e.GET("/employees/:id/edit", h.Employees.EditForm, sess, admin)
	e.POST("/employees/:id/edit", h.Employees.Update, sess, admin)
	e.GET("/employees/:id/delete", h.Employees.ConfirmDelete, sess, admin)
	e.POST("/employees/:id/delete", h.Employees.Delete, sess, admin)
}
