package handler

import (
	"github.com/gofiber/fiber/v2"

	"donor-finder/internal/domain"
	"donor-finder/internal/service/donor"
)

type DonorHandler struct {
	donorService donor.Service
}

func NewDonorHandler(donorService donor.Service) *DonorHandler {
	return &DonorHandler{donorService: donorService}
}

type donorWithEmail struct {
	domain.Donor
	Email *string `json:"email"`
}

type predictResponse struct {
	OK         bool   `json:"ok"`
	Count      int    `json:"count"`
	BloodGroup string `json:"blood_group"`
	Records    any    `json:"records"`
}

func (h *DonorHandler) Predict(c *fiber.Ctx) error {
	result, err := h.donorService.FindByBloodGroup(c.UserContext(), c.Query("blood_group"))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(predictResponse{
		OK:         true,
		Count:      result.Count,
		BloodGroup: result.BloodGroup,
		Records:    records(result),
	})
}

// records adds the email key only when the loaded sheet has an email column.
func records(result *domain.QueryResult) any {
	if !result.HasEmail {
		return result.Records
	}
	out := make([]donorWithEmail, len(result.Records))
	for i, d := range result.Records {
		out[i] = donorWithEmail{Donor: d, Email: d.Email}
	}
	return out
}
