package handlers

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saintedlittle/hgn-reports/internal/i18n"
	"github.com/saintedlittle/hgn-reports/internal/services"
)

type StatsHandler struct {
	reports *services.ReportService
	msg     *i18n.Messages
}

func NewStatsHandler(reports *services.ReportService, msg *i18n.Messages) *StatsHandler {
	return &StatsHandler{reports: reports, msg: msg}
}

func (h *StatsHandler) Overall(c *fiber.Ctx) error {
	stats, err := h.reports.StatsOverall()
	if err != nil {
		slog.Error("overall stats failed", "error", err)
		return internalError(c, "Failed to compute statistics")
	}
	return c.JSON(stats)
}

func (h *StatsHandler) ForAdmin(c *fiber.Ctx) error {
	name := c.Params("name")
	stats, err := h.reports.StatsForAdmin(name)
	if err != nil {
		slog.Error("admin stats failed", "admin", name, "error", err)
		return internalError(c, "Failed to compute statistics")
	}
	return c.JSON(fiber.Map{
		"admin":             stats.Admin,
		"answers":           stats.Answers,
		"unique_reports":    stats.UniqueReports,
		"closes":            stats.Closes,
		"processed_percent": strconv.FormatFloat(stats.ProcessedPercent, 'f', 1, 64),
	})
}

// Placeholder resolves a stats placeholder key to a plain string value, the
// way external text expansions consume them. Overall keys:
// total|open|answered|closed|today|last24h|last7d|month. Per-admin keys:
// answers_<name>|unique_<name>|closes_<name>|percent_<name>.
func (h *StatsHandler) Placeholder(c *fiber.Ctx) error {
	key := c.Params("key")
	parts := strings.SplitN(key, "_", 2)

	if len(parts) == 1 {
		s, err := h.reports.StatsOverall()
		if err != nil {
			return internalError(c, "Failed to compute statistics")
		}
		var v int64
		switch strings.ToLower(parts[0]) {
		case "total":
			v = s.Total
		case "open":
			v = s.Open
		case "answered":
			v = s.Answered
		case "closed":
			v = s.Closed
		case "today":
			v = s.Today
		case "last24h":
			v = s.Last24h
		case "last7d":
			v = s.Last7d
		case "month":
			v = s.ThisMonth
		default:
			return c.SendString("0")
		}
		return c.SendString(strconv.FormatInt(v, 10))
	}

	stats, err := h.reports.StatsForAdmin(parts[1])
	if err != nil {
		return internalError(c, "Failed to compute statistics")
	}
	switch strings.ToLower(parts[0]) {
	case "answers":
		return c.SendString(strconv.FormatInt(stats.Answers, 10))
	case "unique":
		return c.SendString(strconv.FormatInt(stats.UniqueReports, 10))
	case "closes":
		return c.SendString(strconv.FormatInt(stats.Closes, 10))
	case "percent":
		return c.SendString(strconv.FormatFloat(stats.ProcessedPercent, 'f', 1, 64))
	}
	return c.SendString("0")
}
