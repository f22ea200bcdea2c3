package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Storage
	SQLiteFile string

	// Telegram bridge
	TelegramEnabled     bool
	TelegramBotToken    string
	TelegramAdminIDs    map[int64]bool
	TelegramNotifyChats []int64

	// GUI listing defaults
	GUITitle        string
	GUIShowOnlyOpen bool
	GUIMaxVisible   int

	// Behavior
	AutoHideSeconds int64

	Locale string
	Debug  bool

	// Server
	Port        string
	CORSOrigins string

	// Auth
	JWTSecret      string
	AdminTokenHash string // bcrypt hash of the X-Admin-Token bypass; empty disables it

	// Optional message-pack override file
	MessagesFile string
}

func Load() *Config {
	return &Config{
		SQLiteFile: getEnv("SQLITE_FILE", "data/reports.db"),

		TelegramEnabled:     parseBool(getEnv("TELEGRAM_ENABLED", "false")),
		TelegramBotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAdminIDs:    parseIDSet(getEnv("TELEGRAM_ADMIN_IDS", "")),
		TelegramNotifyChats: parseIDList(getEnv("TELEGRAM_NOTIFY_CHATS", "")),

		GUITitle:        getEnv("GUI_TITLE", "Reports"),
		GUIShowOnlyOpen: parseBool(getEnv("GUI_SHOW_ONLY_OPEN", "true")),
		GUIMaxVisible:   parseInt(getEnv("GUI_MAX_VISIBLE", "40"), 40),

		AutoHideSeconds: parseInt64(getEnv("AUTO_HIDE_SECONDS", "300"), 300),

		Locale: getEnv("LOCALE", "en"),
		Debug:  parseBool(getEnv("DEBUG", "false")),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		AdminTokenHash: getEnv("ADMIN_TOKEN_HASH", ""),

		MessagesFile: getEnv("MESSAGES_FILE", ""),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseInt64(s string, fallback int64) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func parseIDList(s string) []int64 {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err == nil {
			result = append(result, id)
		}
	}
	return result
}

func parseIDSet(s string) map[int64]bool {
	set := make(map[int64]bool, 4)
	for _, id := range parseIDList(s) {
		set[id] = true
	}
	return set
}
