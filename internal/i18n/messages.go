// Package i18n holds the message-template packs user-visible strings are
// rendered from. The engine itself never formats user strings; handlers and
// sinks resolve keys here and substitute %placeholders%.
package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Pack maps template keys to localized templates.
type Pack map[string]string

type Messages struct {
	mu     sync.RWMutex
	locale string
	packs  map[string]Pack
}

func New(locale string) *Messages {
	m := &Messages{
		locale: locale,
		packs: map[string]Pack{
			"en": defaultsEN(),
			"ru": defaultsRU(),
		},
	}
	if _, ok := m.packs[locale]; !ok {
		m.locale = "en"
	}
	return m
}

// LoadFile merges a JSON file of the form {"en": {"key": "template"}, ...}
// over the embedded defaults. Unknown locales create new packs.
func (m *Messages) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read messages file: %w", err)
	}
	var file map[string]Pack
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse messages file: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for locale, pack := range file {
		existing, ok := m.packs[locale]
		if !ok {
			existing = Pack{}
			m.packs[locale] = existing
		}
		for k, v := range pack {
			existing[k] = v
		}
	}
	return nil
}

func (m *Messages) SetLocale(locale string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.packs[locale]; ok {
		m.locale = locale
	}
}

// Get returns the template for key in the active locale. Missing keys come
// back as the key itself so broken packs stay diagnosable.
func (m *Messages) Get(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.packs[m.locale][key]; ok {
		return s
	}
	if s, ok := m.packs["en"][key]; ok {
		return s
	}
	return key
}

// Render resolves key and substitutes every %name% with repl["name"].
func (m *Messages) Render(key string, repl map[string]string) string {
	s := m.Get(key)
	for k, v := range repl {
		s = strings.ReplaceAll(s, "%"+k+"%", v)
	}
	return s
}

func (m *Messages) Prefix() string {
	return m.Get("prefix")
}

func defaultsEN() Pack {
	return Pack{
		"prefix":                "[Reports] ",
		"auto_close_reason":     "no staff reply within %seconds% seconds",
		"notify_staff_new":      "New report #%id% on %target%: %text%",
		"notify_staff_answer":   "Report #%id% answered by %admin%: %text%",
		"notify_staff_close":    "Report #%id% closed: %reason%",
		"notify_player_answer":  "Your report #%id% got an answer from %admin%: %text%",
		"notify_player_close":   "Your report #%id% was closed by %admin%: %reason%",
		"created":               "Report #%id% created.",
		"answered_ok":           "Answered report #%id%.",
		"closed_ok":             "Closed report #%id% (%reason%).",
		"deleted_ok":            "Deleted report #%id%.",
		"admin_added":           "%player% added to report admins.",
		"admin_removed":         "%player% removed from report admins.",
		"reloaded":              "Configuration reloaded.",
		"report_not_found":      "Report not found.",
		"reply_closed":          "This report is closed, you cannot reply to it.",
		"myreport_none":         "You have no active reports.",
		"myreport_not_owner":    "That report is not yours.",
		"quick_reply_done":      "Reply added to report #%id%.",
		"quick_reply_cancelled": "Quick reply cancelled.",
		"quick_reply_none":      "No active quick-reply session.",
		"report_cooldown":       "Please wait %sec%s before creating another report.",
		"no_permission":         "You do not have permission to do that.",
		"chat_no_answers":       "No answers yet.",
	}
}

func defaultsRU() Pack {
	return Pack{
		"prefix":                "[Репорты] ",
		"auto_close_reason":     "нет ответа персонала в течение %seconds% секунд",
		"notify_staff_new":      "Новый репорт #%id% на %target%: %text%",
		"notify_staff_answer":   "Репорт #%id%, ответ от %admin%: %text%",
		"notify_staff_close":    "Репорт #%id% закрыт: %reason%",
		"notify_player_answer":  "На ваш репорт #%id% ответил %admin%: %text%",
		"notify_player_close":   "Ваш репорт #%id% закрыт (%admin%): %reason%",
		"created":               "Репорт #%id% создан.",
		"answered_ok":           "Ответ на репорт #%id% отправлен.",
		"closed_ok":             "Репорт #%id% закрыт (%reason%).",
		"deleted_ok":            "Репорт #%id% удалён.",
		"admin_added":           "%player% добавлен в админы репортов.",
		"admin_removed":         "%player% убран из админов репортов.",
		"reloaded":              "Конфигурация перезагружена.",
		"report_not_found":      "Репорт не найден.",
		"reply_closed":          "Этот репорт закрыт, ответить нельзя.",
		"myreport_none":         "У вас нет активных репортов.",
		"myreport_not_owner":    "Это не ваш репорт.",
		"quick_reply_done":      "Ответ добавлен к репорту #%id%.",
		"quick_reply_cancelled": "Быстрый ответ отменён.",
		"quick_reply_none":      "Нет активной сессии быстрого ответа.",
		"report_cooldown":       "Подождите %sec% с перед созданием нового репорта.",
		"no_permission":         "У вас нет прав на это действие.",
		"chat_no_answers":       "Ответов пока нет.",
	}
}
