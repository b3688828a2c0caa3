package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/domengo404/GoldEarn-Backend/internal/middleware"
	"github.com/domengo404/GoldEarn-Backend/internal/model"
	"github.com/domengo404/GoldEarn-Backend/internal/service"
)

type DepositRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
}

func (h *Handler) RequestDeposit(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	var req DepositRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	entry, err := h.transactionSvc.RequestDeposit(c.Context(), userID, req.Amount, model.PaymentMethod(req.Method))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "amount must be greater than zero",
			})
		case errors.Is(err, service.ErrInvalidMethod):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "unrecognized payment method",
			})
		case errors.Is(err, service.ErrAccountFrozen):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "account is frozen",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create deposit request",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"transaction": entry,
	})
}

type AttachReceiptRequest struct {
	ReceiptRef string `json:"receipt_ref"`
}

func (h *Handler) AttachReceipt(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	entryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid transaction id",
		})
	}

	var req AttachReceiptRequest
	if err := c.BodyParser(&req); err != nil || req.ReceiptRef == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "receipt_ref is required",
		})
	}

	if err := h.transactionSvc.AttachReceipt(c.Context(), entryID, userID, req.ReceiptRef); err != nil {
		if errors.Is(err, service.ErrEntryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "pending deposit not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to attach receipt",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

type WithdrawRequest struct {
	Amount          float64 `json:"amount"`
	PaymentPassword string  `json:"payment_password"`
}

func (h *Handler) RequestWithdrawal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	var req WithdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	entry, err := h.transactionSvc.RequestWithdrawal(c.Context(), userID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "amount must be greater than zero",
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
			"error": "failed to create withdrawal request",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"transaction": entry,
	})
}

func (h *Handler) GetTransactionHistory(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	kind := model.EntryKind(c.Query("kind"))
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	entries, total, err := h.transactionSvc.GetHistory(c.Context(), userID, kind, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get transactions",
		})
	}

	return c.JSON(fiber.Map{
		"transactions": entries,
		"total":        total,
	})
}

func (h *Handler) GetTransactionSummary(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	summary, err := h.transactionSvc.GetSummary(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get summary",
		})
	}

	return c.JSON(summary)
}

func (h *Handler) GetBalance(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	balance, err := h.transactionSvc.GetBalance(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get balance",
		})
	}

	return c.JSON(fiber.Map{
		"balance": balance,
	})
}
