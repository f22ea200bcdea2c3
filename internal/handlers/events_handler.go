package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/saintedlittle/hgn-reports/internal/i18n"
	"github.com/saintedlittle/hgn-reports/internal/middleware"
	"github.com/saintedlittle/hgn-reports/internal/notify"
)

// EventsHandler streams notification events over SSE. Staff connections
// receive staff events; every connection receives the player events addressed
// to its own name. The routed payload carries both the raw event and the
// message rendered from the locale templates.
type EventsHandler struct {
	hub *notify.Hub
	msg *i18n.Messages
}

func NewEventsHandler(hub *notify.Hub, msg *i18n.Messages) *EventsHandler {
	return &EventsHandler{hub: hub, msg: msg}
}

func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	name := middleware.ActorName(c)
	if name == "" {
		return unauthorized(c)
	}
	staff := middleware.HasPerm(c, middleware.PermAdmin)

	sub := h.hub.Subscribe(name, staff)

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer h.hub.Unsubscribe(sub.ID)
		for ev := range sub.C {
			payload := struct {
				notify.Event
				Message string `json:"message,omitempty"`
			}{Event: ev, Message: h.render(ev)}

			data, err := json.Marshal(payload)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	})
	return nil
}

func (h *EventsHandler) render(ev notify.Event) string {
	id := strconv.FormatInt(ev.ReportID, 10)
	switch ev.Kind {
	case notify.KindStaffNew:
		return h.msg.Prefix() + h.msg.Render("notify_staff_new", map[string]string{
			"id": id, "target": ev.Target, "text": ev.Text,
		})
	case notify.KindStaffAnswer:
		return h.msg.Prefix() + h.msg.Render("notify_staff_answer", map[string]string{
			"id": id, "admin": ev.Actor, "text": ev.Text,
		})
	case notify.KindStaffClose:
		return h.msg.Prefix() + h.msg.Render("notify_staff_close", map[string]string{
			"id": id, "reason": ev.Reason,
		})
	case notify.KindPlayerAnswer:
		return h.msg.Prefix() + h.msg.Render("notify_player_answer", map[string]string{
			"id": id, "admin": ev.Actor, "text": ev.Text,
		})
	case notify.KindPlayerClose:
		return h.msg.Prefix() + h.msg.Render("notify_player_close", map[string]string{
			"id": id, "admin": ev.Actor, "reason": ev.Reason,
		})
	}
	return ""
}
