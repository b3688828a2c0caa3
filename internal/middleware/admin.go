package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/domengo404/GoldEarn-Backend/internal/service"
)

const AdminIDKey = "admin_id"

// AdminAuth gates a route group to accounts registered in the admins
// table. It runs after Auth and reuses the id it resolved.
func AdminAuth(adminSvc *service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication required",
			})
		}

		isAdmin, err := adminSvc.IsAdmin(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to verify admin access",
			})
		}
		if !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin access required",
			})
		}

		c.Locals(AdminIDKey, userID)
		return c.Next()
	}
}

func GetAdminID(c *fiber.Ctx) int64 {
	adminID, ok := c.Locals(AdminIDKey).(int64)
	if !ok {
		return 0
	}
	return adminID
}
