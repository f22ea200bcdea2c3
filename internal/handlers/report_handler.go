package handlers

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saintedlittle/hgn-reports/internal/config"
	"github.com/saintedlittle/hgn-reports/internal/dto"
	"github.com/saintedlittle/hgn-reports/internal/i18n"
	"github.com/saintedlittle/hgn-reports/internal/middleware"
	"github.com/saintedlittle/hgn-reports/internal/models"
	"github.com/saintedlittle/hgn-reports/internal/notify"
	"github.com/saintedlittle/hgn-reports/internal/services"
	"github.com/saintedlittle/hgn-reports/internal/sessions"
)

type ReportHandler struct {
	reports    *services.ReportService
	dispatcher *notify.Dispatcher
	msg        *i18n.Messages
	sessions   *sessions.QuickReply
	cfg        *config.Holder
}

func NewReportHandler(reports *services.ReportService, dispatcher *notify.Dispatcher, msg *i18n.Messages, qr *sessions.QuickReply, cfg *config.Holder) *ReportHandler {
	return &ReportHandler{reports: reports, dispatcher: dispatcher, msg: msg, sessions: qr, cfg: cfg}
}

// Create files a new report authored by the caller.
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	actor := middleware.ActorName(c)
	if actor == "" {
		return unauthorized(c)
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.Target = strings.TrimSpace(req.Target)
	req.Text = strings.TrimSpace(req.Text)
	if req.Target == "" || req.Text == "" {
		return badRequest(c, "target and text are required")
	}

	id, err := h.reports.CreateReport(req.Target, req.Text, actor)
	if err != nil {
		slog.Error("create report failed", "actor", actor, "error", err)
		return internalError(c, "Failed to create report")
	}

	h.dispatcher.StaffNew(id, req.Target, req.Text, actor)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      id,
		"message": h.msg.Render("created", map[string]string{"id": strconv.FormatInt(id, 10)}),
	})
}

// Reply is the author-scoped answer: with an id it must be the caller's own
// report, without one it targets their latest active report. Replying to a
// CLOSED report is rejected.
func (h *ReportHandler) Reply(c *fiber.Ctx) error {
	actor := middleware.ActorName(c)
	if actor == "" {
		return unauthorized(c)
	}

	var req dto.ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return badRequest(c, "text is required")
	}

	var (
		report     *models.Report
		missingKey string
		err        error
	)
	if req.ID != 0 {
		report, err = h.reports.FindReportOwnedBy(req.ID, actor)
		missingKey = "myreport_not_owner"
	} else {
		report, err = h.reports.FindLatestActiveByAuthor(actor)
		missingKey = "myreport_none"
	}
	if err != nil {
		slog.Error("reply lookup failed", "actor", actor, "error", err)
		return internalError(c, "Failed to look up report")
	}
	if report == nil {
		return notFound(c, h.msg.Get(missingKey))
	}
	if report.Status == models.StatusClosed {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: h.msg.Get("reply_closed"),
		})
	}

	ok, err := h.reports.AddAnswer(report.ID, actor, req.Text)
	if err != nil {
		slog.Error("reply failed", "actor", actor, "report_id", report.ID, "error", err)
		return internalError(c, "Failed to add answer")
	}
	if !ok {
		return notFound(c, h.msg.Get("report_not_found"))
	}

	h.dispatcher.StaffAnswer(report.ID, actor, req.Text)

	return c.JSON(fiber.Map{
		"message": h.msg.Render("quick_reply_done", map[string]string{"id": strconv.FormatInt(report.ID, 10)}),
	})
}

// Answer records a staff answer on any report.
func (h *ReportHandler) Answer(c *fiber.Ctx) error {
	actor := middleware.ActorName(c)
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	var req dto.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return badRequest(c, "text is required")
	}

	ok, err := h.reports.AddAnswer(id, actor, req.Text)
	if err != nil {
		slog.Error("answer failed", "actor", actor, "report_id", id, "error", err)
		return internalError(c, "Failed to add answer")
	}
	if !ok {
		return notFound(c, h.msg.Get("report_not_found"))
	}

	h.dispatcher.StaffAnswer(id, actor, req.Text)
	h.dispatcher.PlayerAnswer(id, actor, req.Text)
	h.dispatcher.Refresh()

	return c.JSON(fiber.Map{
		"message": h.msg.Render("answered_ok", map[string]string{"id": strconv.FormatInt(id, 10)}),
	})
}

// Close transitions a report to CLOSED with a reason.
func (h *ReportHandler) Close(c *fiber.Ctx) error {
	actor := middleware.ActorName(c)
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	var req dto.CloseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Reason == "" {
		return badRequest(c, "reason is required")
	}

	ok, err := h.reports.CloseReportBy(id, req.Reason, actor)
	if err != nil {
		slog.Error("close failed", "actor", actor, "report_id", id, "error", err)
		return internalError(c, "Failed to close report")
	}
	if !ok {
		return notFound(c, h.msg.Get("report_not_found"))
	}

	h.dispatcher.StaffClose(id, req.Reason)
	h.dispatcher.PlayerClose(id, actor, req.Reason)
	h.dispatcher.Refresh()

	return c.JSON(fiber.Map{
		"message": h.msg.Render("closed_ok", map[string]string{
			"id":     strconv.FormatInt(id, 10),
			"reason": req.Reason,
		}),
	})
}

// Delete hard-deletes a report and its answers.
func (h *ReportHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	ok, err := h.reports.DeleteReport(id)
	if err != nil {
		slog.Error("delete failed", "report_id", id, "error", err)
		return internalError(c, "Failed to delete report")
	}
	if !ok {
		return notFound(c, h.msg.Get("report_not_found"))
	}

	h.dispatcher.Refresh()

	return c.JSON(fiber.Map{
		"message": h.msg.Render("deleted_ok", map[string]string{"id": strconv.FormatInt(id, 10)}),
	})
}

// Get returns one report with its answers.
func (h *ReportHandler) Get(c *fiber.Ctx) error {
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
	answers, err := h.reports.ListAnswers(id)
	if err != nil {
		return internalError(c, "Failed to fetch answers")
	}

	return c.JSON(fiber.Map{"report": report, "answers": answers})
}

// List is the GUI listing: newest first, optionally restricted to active
// reports, capped by limit. Defaults come from configuration.
func (h *ReportHandler) List(c *fiber.Ctx) error {
	cfg := h.cfg.Current()

	onlyOpen := cfg.GUIShowOnlyOpen
	if v := c.Query("only_open"); v != "" {
		onlyOpen = v == "true" || v == "1"
	}
	limit := cfg.GUIMaxVisible
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}

	reports, err := h.reports.ListForGui(onlyOpen, limit)
	if err != nil {
		slog.Error("list reports failed", "error", err)
		return internalError(c, "Failed to fetch reports")
	}

	return c.JSON(fiber.Map{
		"title":     cfg.GUITitle,
		"only_open": onlyOpen,
		"reports":   reports,
	})
}

// MyReport shows the caller their own report: a specific one when ?id= is
// given (ownership enforced), otherwise their latest active one.
func (h *ReportHandler) MyReport(c *fiber.Ctx) error {
	actor := middleware.ActorName(c)
	if actor == "" {
		return unauthorized(c)
	}

	var (
		report *models.Report
		err    error
	)
	if raw := c.Query("id"); raw != "" {
		id, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil {
			return badRequest(c, "Invalid report ID")
		}
		report, err = h.reports.FindReportOwnedBy(id, actor)
		if err == nil && report == nil {
			return notFound(c, h.msg.Get("myreport_not_owner"))
		}
	} else {
		report, err = h.reports.FindLatestActiveByAuthor(actor)
		if err == nil && report == nil {
			return notFound(c, h.msg.Get("myreport_none"))
		}
	}
	if err != nil {
		slog.Error("myreport lookup failed", "actor", actor, "error", err)
		return internalError(c, "Failed to fetch report")
	}

	answers, err := h.reports.ListAnswers(report.ID)
	if err != nil {
		return internalError(c, "Failed to fetch answers")
	}

	return c.JSON(fiber.Map{"report": report, "answers": answers})
}

func parseID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
}

func internalError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: message})
}
