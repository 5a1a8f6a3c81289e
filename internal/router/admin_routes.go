package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tour-reservation/internal/handler"
	"github.com/iliyamo/tour-reservation/internal/middleware"
)

// RegisterAdmin registers the staff-only scheduling endpoints under
// /v1.  All routes require a valid JWT with the ADMIN role.
func RegisterAdmin(e *echo.Echo, g *handler.GuideHandler, jwtSecret string) {
	grp := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	grp.PUT("/schedules/:id/guide", g.Assign)
	grp.GET("/guides/available", g.Available)
}
