package handler

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/gofiber/fiber/v2"

	"donor-finder/internal/domain"
	"donor-finder/internal/service/notify"
)

type NotifyHandler struct {
	notifyService notify.Service
}

func NewNotifyHandler(notifyService notify.Service) *NotifyHandler {
	return &NotifyHandler{notifyService: notifyService}
}

// unmatchedID selects no donor; ids are never negative.
const unmatchedID = -1

type notifyRequest struct {
	IDs     json.RawMessage `json:"ids"`
	Subject json.RawMessage `json:"subject"`
	Message json.RawMessage `json:"message"`
}

// decodeNotifyInput reads the body regardless of Content-Type. A body that
// is not a JSON object counts as an empty request. Fields are decoded one by
// one so a bad subject does not discard the ids.
func decodeNotifyInput(body []byte) domain.NotifyInput {
	var req notifyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return domain.NotifyInput{}
	}
	return domain.NotifyInput{
		IDs:     decodeIDs(req.IDs),
		Subject: decodeText(req.Subject),
		Message: decodeText(req.Message),
	}
}

// decodeIDs accepts any JSON number with a whole value, so 1.0 selects row 1.
// Other elements keep their place in the request but match no donor.
func decodeIDs(raw json.RawMessage) []int {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var values []any
	if err := dec.Decode(&values); err != nil {
		return nil
	}

	ids := make([]int, 0, len(values))
	for _, v := range values {
		id := unmatchedID
		if n, ok := v.(json.Number); ok {
			if f, err := n.Float64(); err == nil && f >= 0 && f <= math.MaxInt32 && f == math.Trunc(f) {
				id = int(f)
			}
		}
		ids = append(ids, id)
	}
	return ids
}

// decodeText returns the string value, or "" so the default applies.
func decodeText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func (h *NotifyHandler) Notify(c *fiber.Ctx) error {
	result, err := h.notifyService.Notify(c.UserContext(), decodeNotifyInput(c.Body()))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":   true,
		"sent": result.Sent,
	})
}

func (h *NotifyHandler) History(c *fiber.Ctx) error {
	dispatches, err := h.notifyService.History(c.UserContext(), c.QueryInt("limit", 20))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":         true,
		"count":      len(dispatches),
		"dispatches": dispatches,
	})
}
