package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/domengo404/GoldEarn-Backend/internal/middleware"
	"github.com/domengo404/GoldEarn-Backend/internal/service"
)

func (h *Handler) CanDoTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	eligibility, err := h.taskService.CanPerformTask(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to check task eligibility",
		})
	}

	return c.JSON(eligibility)
}

type CompleteTaskRequest struct {
	TaskKind string `json:"task_kind"`
}

func (h *Handler) CompleteTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	var req CompleteTaskRequest
	// Body is optional; a bare POST completes the default task kind.
	_ = c.BodyParser(&req)

	result, err := h.taskService.CompleteTask(c.Context(), userID, req.TaskKind)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLimitExceeded):
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "daily task limit reached",
			})
		case errors.Is(err, service.ErrAccountFrozen):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "account is frozen",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to complete task",
		})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"task":        result.Record,
		"reward":      result.Entry.Amount,
		"new_balance": result.NewBalance,
	})
}

func (h *Handler) GetTaskHistory(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	records, total, err := h.taskService.GetTaskHistory(c.Context(), userID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get task history",
		})
	}

	return c.JSON(fiber.Map{
		"tasks": records,
		"total": total,
	})
}

func (h *Handler) GetTaskStats(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	stats, err := h.taskService.GetTaskStats(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get task stats",
		})
	}

	return c.JSON(stats)
}
