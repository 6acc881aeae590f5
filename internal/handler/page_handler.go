package handler

import (
	"github.com/gofiber/fiber/v2"

	"donor-finder/internal/domain"
	"donor-finder/internal/service/donor"
)

type PageHandler struct {
	donorService donor.Service
}

func NewPageHandler(donorService donor.Service) *PageHandler {
	return &PageHandler{donorService: donorService}
}

// View renders a static page.
func (h *PageHandler) View(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Render(name, fiber.Map{})
	}
}

func (h *PageHandler) RegisterForm(c *fiber.Ctx) error {
	return c.Render("register", fiber.Map{"Success": false})
}

func (h *PageHandler) Register(c *fiber.Ctx) error {
	var input domain.RegisterDonorInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{
			"Success": false,
			"Error":   "Invalid form submission",
		})
	}

	if _, err := h.donorService.Register(c.UserContext(), input); err != nil {
		return c.Status(errorStatus(err)).Render("register", fiber.Map{
			"Success": false,
			"Error":   err.Error(),
		})
	}

	return c.Render("register", fiber.Map{"Success": true})
}
