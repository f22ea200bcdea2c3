// Package telegram is the external-bridge front-end: a long-polling bot that
// files Anonymous reports, lets configured admins act on them, and echoes
// report activity into the configured notify chats.
package telegram

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/saintedlittle/hgn-reports/internal/config"
	"github.com/saintedlittle/hgn-reports/internal/models"
	"github.com/saintedlittle/hgn-reports/internal/notify"
	"github.com/saintedlittle/hgn-reports/internal/services"
)

type Bridge struct {
	bot        *tgbotapi.BotAPI
	cfg        *config.Config
	reports    *services.ReportService
	dispatcher *notify.Dispatcher
	done       chan struct{}
}

func New(cfg *config.Config, reports *services.ReportService, dispatcher *notify.Dispatcher) (*Bridge, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Bridge{
		bot:        bot,
		cfg:        cfg,
		reports:    reports,
		dispatcher: dispatcher,
		done:       make(chan struct{}),
	}, nil
}

// Start begins long polling on its own goroutine.
func (b *Bridge) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.bot.GetUpdatesChan(u)

	go func() {
		slog.Info("telegram bridge started", "bot", b.bot.Self.UserName)
		for {
			select {
			case <-b.done:
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				b.handle(update)
			}
		}
	}()
}

func (b *Bridge) Stop() {
	close(b.done)
	b.bot.StopReceivingUpdates()
}

func (b *Bridge) handle(update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		return
	}
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	// Admin identity is trusted from the message payload; spoof resistance
	// is the transport's problem.
	var isAdmin bool
	who := "TG-unknown"
	if msg.From != nil {
		isAdmin = b.cfg.TelegramAdminIDs[msg.From.ID]
		if msg.From.UserName != "" {
			who = "TG-" + msg.From.UserName
		} else {
			who = "TG-" + strconv.FormatInt(msg.From.ID, 10)
		}
	}

	switch {
	case hasCommand(text, "/report"):
		b.handleReport(chatID, text)
	case hasCommand(text, "/answer") && isAdmin:
		b.handleAnswer(chatID, who, text)
	case hasCommand(text, "/close") && isAdmin:
		b.handleClose(chatID, who, text)
	case hasCommand(text, "/delete") && isAdmin:
		b.handleDelete(chatID, text)
	case strings.EqualFold(text, "/start") || strings.EqualFold(text, "/help"):
		b.handleHelp(chatID, isAdmin)
	}
}

func hasCommand(text, cmd string) bool {
	return len(text) > len(cmd) && strings.EqualFold(text[:len(cmd)+1], cmd+" ")
}

func (b *Bridge) handleReport(chatID int64, text string) {
	parts := strings.SplitN(text, " ", 3)
	if len(parts) < 3 {
		b.reply(chatID, "Usage: /report <username> <text>")
		return
	}
	target, body := parts[1], parts[2]

	id, err := b.reports.CreateReport(target, body, models.AuthorAnonymous)
	if err != nil {
		slog.Error("bridge create report failed", "error", err)
		b.reply(chatID, "Failed to create report.")
		return
	}
	b.dispatcher.StaffNew(id, target, body, models.AuthorAnonymous)
	b.reply(chatID, fmt.Sprintf("Report #%d created (Anonymous).", id))
}

func (b *Bridge) handleAnswer(chatID int64, who, text string) {
	parts := strings.SplitN(text, " ", 3)
	if len(parts) < 3 {
		b.reply(chatID, "Usage: /answer <id> <text>")
		return
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		b.reply(chatID, "Invalid id.")
		return
	}
	body := parts[2]

	ok, err := b.reports.AddAnswer(id, who, body)
	if err != nil {
		slog.Error("bridge answer failed", "report_id", id, "error", err)
		b.reply(chatID, "Failed to answer.")
		return
	}
	if !ok {
		b.reply(chatID, "Report not found.")
		return
	}
	b.dispatcher.StaffAnswer(id, who, body)
	b.dispatcher.PlayerAnswer(id, who, body)
	b.dispatcher.Refresh()
	b.reply(chatID, fmt.Sprintf("Answered report #%d.", id))
}

func (b *Bridge) handleClose(chatID int64, who, text string) {
	fields := strings.Fields(text)
	withIdx := -1
	for i, f := range fields {
		if f == "with" {
			withIdx = i
			break
		}
	}
	if len(fields) < 4 || withIdx < 2 || withIdx == len(fields)-1 {
		b.reply(chatID, "Usage: /close <id> with <reason>")
		return
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		b.reply(chatID, "Invalid id.")
		return
	}
	reason := strings.Join(fields[withIdx+1:], " ")

	ok, err := b.reports.CloseReportBy(id, reason, who)
	if err != nil {
		slog.Error("bridge close failed", "report_id", id, "error", err)
		b.reply(chatID, "Failed to close.")
		return
	}
	if !ok {
		b.reply(chatID, "Report not found.")
		return
	}
	b.dispatcher.StaffClose(id, reason)
	b.dispatcher.PlayerClose(id, who, reason)
	b.dispatcher.Refresh()
	b.reply(chatID, fmt.Sprintf("Closed report #%d.", id))
}

func (b *Bridge) handleDelete(chatID int64, text string) {
	raw := strings.TrimSpace(strings.TrimPrefix(text, "/delete"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		b.reply(chatID, "Usage: /delete <id>")
		return
	}

	ok, err := b.reports.DeleteReport(id)
	if err != nil {
		slog.Error("bridge delete failed", "report_id", id, "error", err)
		b.reply(chatID, "Failed to delete.")
		return
	}
	if !ok {
		b.reply(chatID, "Report not found.")
		return
	}
	b.dispatcher.Refresh()
	b.reply(chatID, fmt.Sprintf("Deleted report #%d.", id))
}

func (b *Bridge) handleHelp(chatID int64, isAdmin bool) {
	help := "Reports bot:\n- /report <username> <text>\n"
	if isAdmin {
		help += "- /answer <id> <text>\n- /close <id> with <reason>\n- /delete <id>\n"
	}
	b.reply(chatID, help)
}

// Deliver is the echo sink: new reports are forwarded to the notify chats,
// answers and closes are echoed there keyed by report id.
func (b *Bridge) Deliver(ev notify.Event) {
	if len(b.cfg.TelegramNotifyChats) == 0 {
		return
	}
	var text string
	switch ev.Kind {
	case notify.KindStaffNew:
		text = fmt.Sprintf("New report #%d on %s\nFrom: %s\nText: %s", ev.ReportID, ev.Target, ev.Author, ev.Text)
	case notify.KindStaffAnswer:
		text = fmt.Sprintf("Report #%d: %s: %s", ev.ReportID, ev.Actor, ev.Text)
	case notify.KindStaffClose:
		text = fmt.Sprintf("Report #%d: %s%s", ev.ReportID, models.ClosePrefix, ev.Reason)
	default:
		return
	}
	for _, chatID := range b.cfg.TelegramNotifyChats {
		b.reply(chatID, text)
	}
}

// Refresh is a no-op; chats have no listing to re-render.
func (b *Bridge) Refresh() {}

// reply swallows transport failures: a flaky chat must not take the bridge
// or its caller down.
func (b *Bridge) reply(chatID int64, text string) {
	if _, err := b.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		slog.Debug("telegram send failed", "chat_id", chatID, "error", err)
	}
}
