package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/domengo404/GoldEarn-Backend/internal/middleware"
	"github.com/domengo404/GoldEarn-Backend/internal/service"
)

func (h *Handler) AdminListUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	search := c.Query("search")

	users, total, err := h.adminSvc.ListUsers(c.Context(), limit, offset, search)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list users",
		})
	}

	return c.JSON(fiber.Map{
		"users": users,
		"total": total,
	})
}

func (h *Handler) AdminGetUser(c *fiber.Ctx) error {
	targetID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	detail, err := h.adminSvc.GetUserDetail(c.Context(), targetID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "user not found",
		})
	}

	return c.JSON(detail)
}

type SetUserActiveRequest struct {
	Active bool `json:"active"`
}

func (h *Handler) AdminSetUserActive(c *fiber.Ctx) error {
	adminID := middleware.GetAdminID(c)

	targetID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	var req SetUserActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := h.adminSvc.SetUserActive(c.Context(), adminID, targetID, req.Active); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update user status",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"active":  req.Active,
	})
}

func (h *Handler) AdminListPendingEntries(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	entries, err := h.adminSvc.ListPendingEntries(c.Context(), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list pending transactions",
		})
	}

	return c.JSON(fiber.Map{
		"transactions": entries,
	})
}

func (h *Handler) AdminApproveEntry(c *fiber.Ctx) error {
	adminID := middleware.GetAdminID(c)

	entryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid transaction id",
		})
	}

	entry, err := h.adminSvc.ApproveEntry(c.Context(), adminID, entryID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEntryNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "transaction not found",
			})
		case errors.Is(err, service.ErrInvalidState):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "transaction is not pending",
			})
		case errors.Is(err, service.ErrInsufficientBalance):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "user balance no longer covers this withdrawal",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to approve transaction",
		})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"transaction": entry,
	})
}

type RejectEntryRequest struct {
	Notes *string `json:"notes"`
}

func (h *Handler) AdminRejectEntry(c *fiber.Ctx) error {
	adminID := middleware.GetAdminID(c)

	entryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid transaction id",
		})
	}

	var req RejectEntryRequest
	_ = c.BodyParser(&req)

	entry, err := h.adminSvc.RejectEntry(c.Context(), adminID, entryID, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEntryNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "transaction not found",
			})
		case errors.Is(err, service.ErrInvalidState):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "transaction is not pending",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to reject transaction",
		})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"transaction": entry,
	})
}

func (h *Handler) AdminGetReport(c *fiber.Ctx) error {
	report, err := h.adminSvc.GetReport(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to build report",
		})
	}

	return c.JSON(report)
}
