package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/domengo404/GoldEarn-Backend/internal/config"
	"github.com/domengo404/GoldEarn-Backend/internal/service"
)

type Handler struct {
	cfg            *config.Config
	userService    *service.UserService
	taskService    *service.TaskService
	transactionSvc *service.TransactionService
	vipSvc         *service.VIPService
	commissionSvc  *service.CommissionService
	adminSvc       *service.AdminService
}

func New(
	cfg *config.Config,
	userService *service.UserService,
	taskService *service.TaskService,
	transactionSvc *service.TransactionService,
	vipSvc *service.VIPService,
	commissionSvc *service.CommissionService,
	adminSvc *service.AdminService,
) *Handler {
	return &Handler{
		cfg:            cfg,
		userService:    userService,
		taskService:    taskService,
		transactionSvc: transactionSvc,
		vipSvc:         vipSvc,
		commissionSvc:  commissionSvc,
		adminSvc:       adminSvc,
	}
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
