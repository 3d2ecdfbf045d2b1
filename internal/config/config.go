package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"ManuscriptTracker/internal/parser"
)

const (
	defaultTimezone   = "UTC"
	configPathEnv     = "MANUSCRIPT_TRACKER_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	reportDirEnv      = "REPORT_DIR"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database      DatabaseConfig     `yaml:"database"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Reports       ReportConfig       `yaml:"reports"`
	Notifications NotificationConfig `yaml:"notifications"`
	Logging       LoggingConfig      `yaml:"logging"`
	Journals      []JournalConfig    `yaml:"journals"`
}

// DatabaseConfig describes Postgres connection details.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SchedulerConfig defines when scrape runs execute.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// ReportConfig describes where JSON scrape reports are written.
type ReportConfig struct {
	Directory string `yaml:"directory"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// LoggingConfig controls the slog setup.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// JournalConfig describes one journal dashboard to scrape. Platform and
// IDPattern are only required for journals missing from the built-in
// descriptor table; SessionCookieEnv names the environment variable holding
// the logged-in session cookie value.
type JournalConfig struct {
	Code             string        `yaml:"code"`
	Platform         string        `yaml:"platform"`
	URL              string        `yaml:"url"`
	SessionCookieEnv string        `yaml:"sessionCookieEnv"`
	IDPattern        string        `yaml:"idPattern"`
	Layout           *LayoutConfig `yaml:"layout"`
}

// LayoutConfig overrides individual column indices of a journal's table
// layout. Pointers distinguish "not set" from index 0; -1 marks a column
// the platform does not render.
type LayoutConfig struct {
	ManuscriptID        *int `yaml:"manuscriptId"`
	Title               *int `yaml:"title"`
	CorrespondingEditor *int `yaml:"correspondingEditor"`
	AssociateEditor     *int `yaml:"associateEditor"`
	Submitted           *int `yaml:"submitted"`
	DaysInSystem        *int `yaml:"daysInSystem"`
	RefereeNames        *int `yaml:"refereeNames"`
	RefereeStatus       *int `yaml:"refereeStatus"`
	DueDates            *int `yaml:"dueDates"`
}

// Apply returns the base layout with every set override applied.
func (l *LayoutConfig) Apply(base parser.ColumnLayout) parser.ColumnLayout {
	if l == nil {
		return base
	}
	override := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	override(&base.ManuscriptID, l.ManuscriptID)
	override(&base.Title, l.Title)
	override(&base.CorrespondingEditor, l.CorrespondingEditor)
	override(&base.AssociateEditor, l.AssociateEditor)
	override(&base.Submitted, l.Submitted)
	override(&base.DaysInSystem, l.DaysInSystem)
	override(&base.RefereeNames, l.RefereeNames)
	override(&base.RefereeStatus, l.RefereeStatus)
	override(&base.DueDates, l.DueDates)
	return base
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(reportDirEnv); v != "" {
		c.Reports.Directory = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Reports.Directory != "" {
		base.Reports = override.Reports
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.File != "" {
		base.Logging.File = override.Logging.File
	}

	if len(override.Journals) > 0 {
		base.Journals = override.Journals
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Database:  DatabaseConfig{DSN: ""},
		Scheduler: SchedulerConfig{CronExpression: "0 6 * * *", Timezone: defaultTimezone, location: tz},
		Reports:   ReportConfig{Directory: "reports"},
		Logging:   LoggingConfig{Level: "info"},
		Journals:  nil,
	}
}
