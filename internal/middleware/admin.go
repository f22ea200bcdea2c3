package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/saintedlittle/hgn-reports/internal/config"
	"github.com/saintedlittle/hgn-reports/internal/dto"
	"github.com/saintedlittle/hgn-reports/internal/services"
	"golang.org/x/crypto/bcrypt"
)

// AdminRequired admits requests that carry one of:
// 1. the operator bypass token (checked against a bcrypt hash in config),
// 2. the admin capability in their JWT perms claim,
// 3. a name on the persisted report-admin roster.
func AdminRequired(reports *services.ReportService, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.AdminTokenHash != "" {
			if token := c.Get("X-Admin-Token"); token != "" {
				if bcrypt.CompareHashAndPassword([]byte(cfg.AdminTokenHash), []byte(token)) == nil {
					return c.Next()
				}
			}
		}

		if HasPerm(c, PermAdmin) {
			return c.Next()
		}

		if name := ActorName(c); name != "" {
			ok, err := reports.IsReportAdmin(name)
			if err == nil && ok {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

// HeadRequired gates the statistics surface behind the head capability.
// Admin-level access counts.
func HeadRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if HasPerm(c, PermHead) || HasPerm(c, PermAdmin) {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Head access required",
		})
	}
}
