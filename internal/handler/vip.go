package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/domengo404/GoldEarn-Backend/internal/middleware"
	"github.com/domengo404/GoldEarn-Backend/internal/model"
	"github.com/domengo404/GoldEarn-Backend/internal/service"
)

func (h *Handler) GetVIPPackages(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"packages": h.vipSvc.Packages(),
	})
}

func (h *Handler) GetVIPPackage(c *fiber.Ctx) error {
	def, err := h.vipSvc.Package(model.Tier(c.Params("tier")))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "tier package not found",
		})
	}

	return c.JSON(def)
}

func (h *Handler) GetVIPStatus(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	status, err := h.vipSvc.ResolveStatus(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get tier status",
		})
	}

	return c.JSON(status)
}

type SubscribeRequest struct {
	Tier            string `json:"tier"`
	PaymentPassword string `json:"payment_password"`
}

func (h *Handler) Subscribe(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	var req SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	purchase, err := h.vipSvc.Subscribe(c.Context(), userID, model.Tier(req.Tier), req.PaymentPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownTier):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "tier package not found",
			})
		case errors.Is(err, service.ErrTierNotHigher):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "account already holds this tier or higher",
			})
		case errors.Is(err, service.ErrBadCredential):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "wrong payment password",
			})
		case errors.Is(err, service.ErrInsufficientBalance):
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"error": "insufficient balance",
			})
		case errors.Is(err, service.ErrAccountFrozen):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "account is frozen",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to purchase tier",
		})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"user":        purchase.User,
		"transaction": purchase.Entry,
	})
}
