package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/domengo404/GoldEarn-Backend/internal/middleware"
	"github.com/domengo404/GoldEarn-Backend/internal/model"
)

func (h *Handler) GetReferralStats(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	stats, err := h.commissionSvc.GetReferralStats(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get referral stats",
		})
	}

	return c.JSON(stats)
}

func (h *Handler) GetReferredUsers(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	level := c.QueryInt("level", 1)
	if level < 1 || level > model.ReferralMaxLevel {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "level must be between 1 and 3",
		})
	}

	users, err := h.commissionSvc.GetReferredUsers(c.Context(), userID, level)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get referred users",
		})
	}

	return c.JSON(fiber.Map{
		"level": level,
		"users": users,
	})
}
