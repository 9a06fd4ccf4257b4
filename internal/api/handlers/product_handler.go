package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/linktraq/linktraq/internal/service"
	"github.com/linktraq/linktraq/internal/transfer"
)

type ProductHandler struct {
	s service.ProductService
}

func NewProductHandler(service service.ProductService) *ProductHandler {
	return &ProductHandler{s: service}
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var creation transfer.ProductCreation
	if err := c.BodyParser(&creation); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	productID, err := h.s.Create(c.Context(), userID, &creation)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":    "Product created successfully",
		"product_id": productID,
	})
}

func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	products, err := h.s.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list products",
		})
	}

	return c.Status(fiber.StatusOK).JSON(products)
}
