package handlers

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saintedlittle/hgn-reports/internal/dto"
	"github.com/saintedlittle/hgn-reports/internal/middleware"
	"github.com/saintedlittle/hgn-reports/internal/sessions"
)

// QuickReplyStart binds the caller to a report for sessions.TTL; their next
// quick-reply message lands on it as an answer.
func (h *ReportHandler) QuickReplyStart(c *fiber.Ctx) error {
	actor := middleware.ActorName(c)
	if actor == "" {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	report, err := h.reports.FindReport(id)
	if err != nil {
		return internalError(c, "Failed to fetch report")
	}
	if report == nil {
		return notFound(c, h.msg.Get("report_not_found"))
	}

	sessionID := h.sessions.Start(actor, id)
	return c.JSON(fiber.Map{
		"session_id": sessionID,
		"report_id":  id,
		"expires_in": int(sessions.TTL.Seconds()),
	})
}

// QuickReplyPost posts the caller's pending quick reply. The literal text
// "cancel" aborts the session instead.
func (h *ReportHandler) QuickReplyPost(c *fiber.Ctx) error {
	actor := middleware.ActorName(c)
	if actor == "" {
		return unauthorized(c)
	}

	var req dto.QuickReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return badRequest(c, "text is required")
	}

	if strings.EqualFold(req.Text, "cancel") {
		h.sessions.Stop(actor)
		return c.JSON(fiber.Map{"message": h.msg.Get("quick_reply_cancelled")})
	}

	reportID, ok := h.sessions.Target(actor)
	if !ok {
		return notFound(c, h.msg.Get("quick_reply_none"))
	}
	h.sessions.Stop(actor)

	added, err := h.reports.AddAnswer(reportID, actor, req.Text)
	if err != nil {
		slog.Error("quick reply failed", "actor", actor, "report_id", reportID, "error", err)
		return internalError(c, "Failed to add answer")
	}
	if !added {
		return notFound(c, h.msg.Get("report_not_found"))
	}

	h.dispatcher.StaffAnswer(reportID, actor, req.Text)
	h.dispatcher.PlayerAnswer(reportID, actor, req.Text)

	return c.JSON(fiber.Map{
		"message": h.msg.Render("quick_reply_done", map[string]string{"id": strconv.FormatInt(reportID, 10)}),
	})
}
