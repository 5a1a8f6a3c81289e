package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tour-reservation/internal/handler"
	"github.com/iliyamo/tour-reservation/internal/middleware"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All
// routes require a valid JWT with the CUSTOMER role.  Customers can
// place a hold on a departure, confirm it with a payment, cancel it
// while pending, and view their own reservations.
func RegisterCustomer(e *echo.Echo, r *handler.ReservationHandler, p *handler.PaymentHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)
	g.POST("/reservations", r.Create)
	g.POST("/reservations/:id/confirm", p.Confirm)
	g.DELETE("/reservations/:id", r.Cancel)
	g.GET("/reservations/:id", r.Get)
	g.GET("/my-reservations", r.List)
}
