package handlers

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saintedlittle/hgn-reports/internal/i18n"
	"github.com/saintedlittle/hgn-reports/internal/services"
)

// AdminHandler covers the roster and service-management surface. reloadFn is
// wired in main: it re-reads configuration, re-opens the store, and restarts
// the bridge.
type AdminHandler struct {
	reports  *services.ReportService
	msg      *i18n.Messages
	reloadFn func() error
}

func NewAdminHandler(reports *services.ReportService, msg *i18n.Messages, reloadFn func() error) *AdminHandler {
	return &AdminHandler{reports: reports, msg: msg, reloadFn: reloadFn}
}

func (h *AdminHandler) AddAdmin(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Params("name"))
	if name == "" {
		return badRequest(c, "name is required")
	}

	if _, err := h.reports.AddReportAdmin(name); err != nil {
		slog.Error("add report admin failed", "name", name, "error", err)
		return internalError(c, "Failed to add report admin")
	}
	return c.JSON(fiber.Map{
		"message": h.msg.Render("admin_added", map[string]string{"player": name}),
	})
}

func (h *AdminHandler) RemoveAdmin(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Params("name"))
	if name == "" {
		return badRequest(c, "name is required")
	}

	removed, err := h.reports.RemoveReportAdmin(name)
	if err != nil {
		slog.Error("remove report admin failed", "name", name, "error", err)
		return internalError(c, "Failed to remove report admin")
	}
	if !removed {
		return notFound(c, "No such report admin")
	}
	return c.JSON(fiber.Map{
		"message": h.msg.Render("admin_removed", map[string]string{"player": name}),
	})
}

func (h *AdminHandler) ListAdmins(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return badRequest(c, "name query parameter is required")
	}
	ok, err := h.reports.IsReportAdmin(name)
	if err != nil {
		return internalError(c, "Failed to query roster")
	}
	return c.JSON(fiber.Map{"name": name, "report_admin": ok})
}

func (h *AdminHandler) Reload(c *fiber.Ctx) error {
	if err := h.reloadFn(); err != nil {
		slog.Error("reload failed", "error", err)
		return internalError(c, "Reload failed")
	}
	return c.JSON(fiber.Map{"message": h.msg.Get("reloaded")})
}
