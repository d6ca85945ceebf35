// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/sanbong/field-booking/internal/handler"
	"github.com/sanbong/field-booking/internal/middleware"
	"github.com/sanbong/field-booking/internal/model"
)

// Handlers collects every handler the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Users        *handler.UserHandler
	Fields       *handler.FieldHandler
	Bookings     *handler.BookingHandler
	FieldStatus  *handler.FieldStatusHandler
	Payments     *handler.PaymentHandler
	Applications *handler.ClubApplicationHandler
}

// Register mounts the whole HTTP surface under /api.  rateLimit guards
// the entire group; cache accelerates the public field and field-status
// reads.  Role gating per route group:
//   - fields and field-status reads are public
//   - booking confirmation and slot edits need admin or manager
//   - user administration and application review need admin
func Register(e *echo.Echo, h Handlers, jwtSecret string, rateLimit, cache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	api := e.Group("/api")
	if rateLimit != nil {
		api.Use(rateLimit)
	}

	auth := api.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	jwt := middleware.JWTAuth(jwtSecret)
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleManager)
	admin := middleware.RequireRole(model.RoleAdmin)

	// Public catalogue reads, cached.
	fields := api.Group("/fields")
	if cache != nil {
		fields.GET("", h.Fields.List, cache)
		fields.GET("/:fieldId", h.Fields.Get, cache)
	} else {
		fields.GET("", h.Fields.List)
		fields.GET("/:fieldId", h.Fields.Get)
	}
	fields.POST("", h.Fields.Create, jwt, admin)
	fields.PUT("/:fieldId", h.Fields.Update, jwt, admin)
	fields.DELETE("/:fieldId", h.Fields.Delete, jwt, admin)

	status := api.Group("/field-status")
	if cache != nil {
		status.GET("/date/:date", h.FieldStatus.ListByDate, cache)
		status.GET("/:fieldId/date/:date", h.FieldStatus.Get, cache)
	} else {
		status.GET("/date/:date", h.FieldStatus.ListByDate)
		status.GET("/:fieldId/date/:date", h.FieldStatus.Get)
	}
	status.PUT("/:fieldId/date/:date", h.FieldStatus.Put, jwt, staff)
	status.PUT("/:fieldId/date/:date/slot/:slotId", h.FieldStatus.PutSlot, jwt, staff)

	users := api.Group("/users", jwt)
	users.GET("/me", h.Users.Me)
	users.GET("", h.Users.List, admin)
	users.GET("/:userId", h.Users.Get, admin)
	users.PUT("/:userId", h.Users.Update, admin)
	users.DELETE("/:userId", h.Users.Delete, admin)

	bookings := api.Group("/bookings", jwt)
	bookings.GET("", h.Bookings.List, staff)
	bookings.GET("/:bookingId", h.Bookings.Get)
	bookings.GET("/user/:userId", h.Bookings.ListByUser)
	bookings.POST("", h.Bookings.Create)
	bookings.PUT("/:bookingId", h.Bookings.Update)
	bookings.PUT("/:bookingId/confirm", h.Bookings.Confirm, staff)
	bookings.PUT("/:bookingId/cancel", h.Bookings.Cancel)
	bookings.DELETE("/:bookingId", h.Bookings.Delete, admin)

	payments := api.Group("/payments", jwt)
	payments.GET("", h.Payments.List, staff)
	payments.GET("/:paymentId", h.Payments.Get)
	payments.GET("/booking/:bookingId", h.Payments.ListByBooking)
	payments.POST("/deposit", h.Payments.Deposit)
	payments.PUT("/:paymentId/status", h.Payments.UpdateStatus, staff)

	apps := api.Group("/club-applications", jwt)
	apps.GET("", h.Applications.List, admin)
	apps.GET("/:applicationId", h.Applications.Get)
	apps.GET("/user/:userId", h.Applications.ListByUser)
	apps.POST("", h.Applications.Create)
	apps.PUT("/:applicationId/approve", h.Applications.Approve, admin)
	apps.PUT("/:applicationId/reject", h.Applications.Reject, admin)
	apps.DELETE("/:applicationId", h.Applications.Delete, admin)
}
