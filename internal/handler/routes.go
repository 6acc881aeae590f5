package handler

import (
	"github.com/gofiber/fiber/v2"

	"donor-finder/internal/middleware"
)

func SetupRoutes(app *fiber.App, h *Handlers) {
	app.Get("/", h.Page.View("index"))
	app.Get("/register", h.Page.RegisterForm)
	app.Post("/register", h.Page.Register)
	app.Get("/login", h.Page.View("login"))
	app.Get("/eligibility", h.Page.View("eligibility"))
	app.Get("/accept", h.Page.View("accept"))
	app.Get("/donate", h.Page.View("donate"))
	app.Get("/help", h.Page.View("help"))
	app.Get("/find_donour", h.Page.View("find_donour"))

	api := app.Group("/api")
	api.Get("/predict", h.Donor.Predict)
	api.Post("/notify", h.Notify.Notify)
	api.Get("/notifications", h.Notify.History)

	app.Use(func(c *fiber.Ctx) error {
		return middleware.NotFound("route " + c.Path() + " not found")
	})
}
