package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Connection security modes for a mail server.
const (
	SecurityTLS              = "tls"
	SecurityStartTLS         = "starttls"
	SecurityStartTLSInsecure = "starttls-insecure"
)

// Service kinds with built-in server profiles.
const (
	ServiceGmail  = "gmail"
	ServiceProton = "proton"
	ServiceICloud = "icloud"
)

// ServerConfig is the fixed endpoint for one service kind.
type ServerConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Security string `mapstructure:"security" yaml:"security"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ProfileConfig names a mailbox account. The secret lives in the
// system keyring, never in the config file.
type ProfileConfig struct {
	Name    string `mapstructure:"name" yaml:"name"`
	Email   string `mapstructure:"email" yaml:"email"`
	Service string `mapstructure:"service" yaml:"service"`
}

// SearchIntent is a declarative mailbox query. Since uses the
// "after:YYYY/MM/DD" form.
type SearchIntent struct {
	Senders  []string `mapstructure:"senders" yaml:"senders"`
	Subjects []string `mapstructure:"subjects" yaml:"subjects"`
	Since    string   `mapstructure:"since" yaml:"since"`
}

// SearchConfig holds one intent per email category.
type SearchConfig struct {
	Confirmation SearchIntent `mapstructure:"confirmation" yaml:"confirmation"`
	Cancellation SearchIntent `mapstructure:"cancellation" yaml:"cancellation"`
	Shipment     SearchIntent `mapstructure:"shipment" yaml:"shipment"`
	Xbox         SearchIntent `mapstructure:"xbox" yaml:"xbox"`
}

// WithSince returns a copy of the config with since applied to every
// intent.
func (c SearchConfig) WithSince(since string) SearchConfig {
	c.Confirmation.Since = since
	c.Cancellation.Since = since
	c.Shipment.Since = since
	c.Xbox.Since = since
	return c
}

// RetryConfig bounds the reconnect-and-retry loop of the mail channel.
type RetryConfig struct {
	MaxAttempts int   `mapstructure:"max_attempts" yaml:"max_attempts"`
	DelaysMS    []int `mapstructure:"delays_ms" yaml:"delays_ms"`
}

// Delays converts DelaysMS into durations.
func (r RetryConfig) Delays() []time.Duration {
	out := make([]time.Duration, 0, len(r.DelaysMS))
	for _, ms := range r.DelaysMS {
		out = append(out, time.Duration(ms)*time.Millisecond)
	}
	return out
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type ExportConfig struct {
	OrdersCSV  string `mapstructure:"orders_csv" yaml:"orders_csv"`
	CodesCSV   string `mapstructure:"codes_csv" yaml:"codes_csv"`
	OrdersXLSX string `mapstructure:"orders_xlsx" yaml:"orders_xlsx"`
}

type ExtractConfig struct {
	// RulesFile optionally points at a YAML selector table that
	// replaces the built-in one.
	RulesFile string `mapstructure:"rules_file" yaml:"rules_file"`
}

type ScheduleConfig struct {
	Cron string `mapstructure:"cron" yaml:"cron"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Servers  map[string]ServerConfig `mapstructure:"servers" yaml:"servers"`
	Profiles []ProfileConfig         `mapstructure:"profiles" yaml:"profiles"`
	Search   SearchConfig            `mapstructure:"search" yaml:"search"`
	Retry    RetryConfig             `mapstructure:"retry" yaml:"retry"`
	Database DatabaseConfig          `mapstructure:"database" yaml:"database"`
	Export   ExportConfig            `mapstructure:"export" yaml:"export"`
	Extract  ExtractConfig           `mapstructure:"extract" yaml:"extract"`
	Schedule ScheduleConfig          `mapstructure:"schedule" yaml:"schedule"`
	Log      LogConfig               `mapstructure:"log" yaml:"log"`
}

// Server returns the server profile for a service kind, falling back to
// gmail for unknown kinds.
func (c *AppConfig) Server(service string) (ServerConfig, string) {
	kind := strings.ToLower(strings.TrimSpace(service))
	if srv, ok := c.Servers[kind]; ok {
		return srv, kind
	}
	return c.Servers[ServiceGmail], ServiceGmail
}

// Profile looks up a profile by name.
func (c *AppConfig) Profile(name string) (ProfileConfig, bool) {
	for _, p := range c.Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return ProfileConfig{}, false
}

// DefaultConfigDir returns ~/.config/order-tracker.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "order-tracker")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/order-tracker/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

var bestBuySenders = []string{"BestBuyInfo@emailinfo.bestbuy.com", "BestBuyInfo"}

// DefaultAppConfig returns the built-in configuration: the three known
// IMAP services and the Best Buy search templates.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Servers: map[string]ServerConfig{
			ServiceGmail:  {Host: "imap.gmail.com", Port: 993, Security: SecurityTLS},
			ServiceProton: {Host: "127.0.0.1", Port: 1143, Security: SecurityStartTLSInsecure},
			ServiceICloud: {Host: "imap.mail.me.com", Port: 993, Security: SecurityTLS},
		},
		Profiles: []ProfileConfig{},
		Search: SearchConfig{
			Confirmation: SearchIntent{
				Senders:  bestBuySenders,
				Subjects: []string{"Thanks for your order"},
			},
			Cancellation: SearchIntent{
				Subjects: []string{
					"Your Best Buy order has been canceled",
					"Your order has been canceled",
				},
			},
			Shipment: SearchIntent{
				Subjects: []string{
					"Your order will be shipped soon!",
					"We have your tracking number.",
				},
			},
			Xbox: SearchIntent{
				Senders: bestBuySenders,
				Subjects: []string{
					"Enjoy 1 month free of Game Pass Ultimate with your Best Buy purchase.",
				},
			},
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			DelaysMS:    []int{2000, 5000},
		},
		Database: DatabaseConfig{Path: "bestbuy_orders.sqlite3"},
		Export: ExportConfig{
			OrdersCSV: "bestbuy_orders.csv",
			CodesCSV:  "xbox_codes.csv",
		},
		Schedule: ScheduleConfig{Cron: "@every 30m"},
		Log:      LogConfig{Level: "info"},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("ORDER_TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.delays_ms", []int{2000, 5000})
	v.SetDefault("database.path", "bestbuy_orders.sqlite3")
	v.SetDefault("export.orders_csv", "bestbuy_orders.csv")
	v.SetDefault("export.codes_csv", "xbox_codes.csv")
	v.SetDefault("schedule.cron", "@every 30m")
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return DefaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	// Servers listed in the file extend the built-in ones; a partial entry
	// inherits the missing fields from the default of the same kind.
	defaults := DefaultAppConfig().Servers
	for kind, srv := range cfg.Servers {
		def, ok := defaults[kind]
		if !ok {
			continue
		}
		if srv.Host == "" {
			srv.Host = def.Host
		}
		if srv.Port == 0 {
			srv.Port = def.Port
		}
		if srv.Security == "" {
			srv.Security = def.Security
		}
		cfg.Servers[kind] = srv
	}

	if cfg.Retry.MaxAttempts < 1 {
		cfg.Retry.MaxAttempts = 1
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("servers", cfg.Servers)
	v.Set("profiles", cfg.Profiles)
	v.Set("search", cfg.Search)
	v.Set("retry", cfg.Retry)
	v.Set("database", cfg.Database)
	v.Set("export", cfg.Export)
	v.Set("extract", cfg.Extract)
	v.Set("schedule", cfg.Schedule)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
