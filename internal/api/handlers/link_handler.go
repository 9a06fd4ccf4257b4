package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/linktraq/linktraq/internal/service"
	"github.com/linktraq/linktraq/internal/transfer"
)

type LinkHandler struct {
	s service.LinkService
}

func NewLinkHandler(service service.LinkService) *LinkHandler {
	return &LinkHandler{s: service}
}

func (h *LinkHandler) CreateLink(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var creation transfer.LinkCreation
	if err := c.BodyParser(&creation); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	link, err := h.s.Create(c.Context(), userID, &creation)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(link)
}

func (h *LinkHandler) ListLinks(c *fiber.Ctx) error {
	userID := GetUserID(c)

	links, err := h.s.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list links",
		})
	}

	return c.Status(fiber.StatusOK).JSON(links)
}

// Redirect is the public short-link endpoint: record the click, then
// send the visitor to the original URL.
func (h *LinkHandler) Redirect(c *fiber.Ctx) error {
	code := c.Params("code")

	originalURL, err := h.s.TrackClick(c.Context(), code, c.Get("Referer"), c.Get("User-Agent"), c.IP())
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to resolve link",
		})
	}

	return c.Redirect(originalURL, fiber.StatusFound)
}
