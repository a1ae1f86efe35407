package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	Auth     AuthConfig     `koanf:"auth"`
	Cache    CacheConfig    `koanf:"cache"`
	Seed     SeedConfig     `koanf:"seed"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string     `koanf:"host"`
	Port            int        `koanf:"port"`
	Mode            string     `koanf:"mode"`
	ShutdownTimeout string     `koanf:"shutdown_timeout"`
	CORS            CORSConfig `koanf:"cors"`
}

// CORSConfig holds CORS middleware settings.
type CORSConfig struct {
	AllowOrigins     []string `koanf:"allow_origins"`
	AllowMethods     []string `koanf:"allow_methods"`
	AllowHeaders     []string `koanf:"allow_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           string   `koanf:"max_age"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver      string         `koanf:"driver"`
	AutoMigrate bool           `koanf:"auto_migrate"`
	SQLite      SQLiteConfig   `koanf:"sqlite"`
	Postgres    PostgresConfig `koanf:"postgres"`
	Pool        PoolConfig     `koanf:"pool"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"dbname"`
	SSLMode  string `koanf:"sslmode"`
}

// PoolConfig holds database connection pool settings.
type PoolConfig struct {
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	ConnMaxLifetime string `koanf:"conn_max_lifetime"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level           string `koanf:"level"`
	Format          string `koanf:"format"`
	Color           *bool  `koanf:"color"`
	FilePath        string `koanf:"file_path"`
	MaxSizeMB       int    `koanf:"max_size_mb"`
	RetentionDays   int    `koanf:"retention_days"`
	MaxBackups      int    `koanf:"max_backups"`
	CompressRotated *bool  `koanf:"compress_rotated"`
}

// AuthConfig holds token signing settings and the bootstrap admin account.
type AuthConfig struct {
	JWTSecret  string      `koanf:"jwt_secret"`
	AccessTTL  string      `koanf:"access_ttl"`
	RefreshTTL string      `koanf:"refresh_ttl"`
	Admin      AdminConfig `koanf:"admin"`
}

// AdminConfig describes the account created at startup when absent.
// An empty Username disables the bootstrap.
type AdminConfig struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	Email    string `koanf:"email"`
}

// CacheConfig holds the cache-aside settings. Redis maps an alias to a
// redis:// URL; the "default" alias is required when caching is enabled.
type CacheConfig struct {
	Enabled bool              `koanf:"enabled"`
	TTL     string            `koanf:"ttl"`
	Redis   map[string]string `koanf:"redis"`
}

// SeedConfig lists rows inserted at startup when missing.
type SeedConfig struct {
	Departments []string `koanf:"departments"`
}

// Defaults returns the values applied before the YAML file and environment.
func Defaults() map[string]any {
	return map[string]any{
		"server.host":                     "0.0.0.0",
		"server.port":                     8080,
		"server.mode":                     gin.ReleaseMode,
		"server.shutdown_timeout":         "5s",
		"server.cors.allow_origins":       []string{"*"},
		"server.cors.allow_methods":       []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		"server.cors.allow_headers":       []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		"server.cors.max_age":             "12h",
		"database.driver":                 "sqlite",
		"database.auto_migrate":           true,
		"database.sqlite.path":            "data/staffdesk.db",
		"database.postgres.port":          5432,
		"database.postgres.sslmode":       "disable",
		"database.pool.max_idle_conns":    10,
		"database.pool.max_open_conns":    100,
		"database.pool.conn_max_lifetime": "1h",
		"log.level":                       "info",
		"log.format":                      "text",
		"auth.access_ttl":                 "5m",
		"auth.refresh_ttl":                "24h",
		"cache.enabled":                   false,
		"cache.ttl":                       "10m",
	}
}

// Load layers Defaults, the YAML file at configPath and environment variables.
// Environment variables use the prefix "APP__" and double-underscore as the
// hierarchy separator. Single underscores are preserved as part of the key name.
// For example, APP__SERVER__PORT=9090 overrides server.port and
// APP__AUTH__ACCESS_TTL=15m overrides auth.access_ttl.
// An empty configPath skips the file.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// APP__CACHE__REDIS__DEFAULT -> cache.redis.default
	if err := k.Load(env.Provider("APP__", ".", func(s string) string {
		key := strings.TrimPrefix(s, "APP__")
		key = strings.ToLower(key)
		key = strings.ReplaceAll(key, "__", ".")
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints and supported values.
func (c *Config) Validate() error {
	mode := strings.TrimSpace(c.Server.Mode)
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		c.Server.Mode = mode
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", c.Server.Mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", c.Server.Port)
	}

	host := strings.TrimSpace(c.Server.Host)
	if host == "" {
		return fmt.Errorf("server.host is required")
	}
	c.Server.Host = host

	if err := c.Database.validate(c.Server.Mode); err != nil {
		return err
	}

	// Whitespace-only durations mean unset.
	c.Server.ShutdownTimeout = strings.TrimSpace(c.Server.ShutdownTimeout)
	c.Server.CORS.MaxAge = strings.TrimSpace(c.Server.CORS.MaxAge)
	c.Database.Pool.ConnMaxLifetime = strings.TrimSpace(c.Database.Pool.ConnMaxLifetime)

	optional := []struct {
		name  string
		value string
	}{
		{"server.shutdown_timeout", c.Server.ShutdownTimeout},
		{"server.cors.max_age", c.Server.CORS.MaxAge},
		{"database.pool.conn_max_lifetime", c.Database.Pool.ConnMaxLifetime},
	}
	for _, f := range optional {
		if f.value == "" {
			continue
		}
		if _, err := positiveDuration(f.name, f.value); err != nil {
			return err
		}
	}

	if err := c.Auth.validate(c.Server.Mode); err != nil {
		return err
	}
	if err := c.Cache.validate(); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(c.Seed.Departments))
	titles := make([]string, 0, len(c.Seed.Departments))
	for idx, title := range c.Seed.Departments {
		title = strings.TrimSpace(title)
		if title == "" {
			return fmt.Errorf("seed.departments[%d] cannot be empty", idx)
		}
		if len(title) > 100 {
			return fmt.Errorf("invalid seed.departments[%d] %q: must be at most 100 characters", idx, title)
		}
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		titles = append(titles, title)
	}
	c.Seed.Departments = titles

	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch level {
	case "debug", "info", "warn", "error":
		c.Log.Level = level
	default:
		return fmt.Errorf("invalid log.level %q: must be one of %q, %q, %q, %q", c.Log.Level, "debug", "info", "warn", "error")
	}

	format := strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch format {
	case "text", "json":
		c.Log.Format = format
	default:
		return fmt.Errorf("invalid log.format %q: must be one of %q, %q", c.Log.Format, "text", "json")
	}

	return nil
}

func (d *DatabaseConfig) validate(mode string) error {
	switch d.Driver {
	case "sqlite":
		path := strings.TrimSpace(d.SQLite.Path)
		if path == "" {
			return fmt.Errorf("database.sqlite.path is required when driver is sqlite")
		}
		d.SQLite.Path = path
		return nil
	case "postgres":
	default:
		return fmt.Errorf("invalid database.driver %q: must be one of %q, %q", d.Driver, "sqlite", "postgres")
	}

	pg := &d.Postgres
	pg.Host = strings.TrimSpace(pg.Host)
	pg.User = strings.TrimSpace(pg.User)
	pg.DBName = strings.TrimSpace(pg.DBName)
	pg.SSLMode = strings.TrimSpace(pg.SSLMode)

	if pg.Host == "" {
		return fmt.Errorf("database.postgres.host is required when driver is postgres")
	}
	if pg.Port < 1 || pg.Port > 65535 {
		return fmt.Errorf("invalid database.postgres.port %d: must be between 1 and 65535", pg.Port)
	}
	if pg.User == "" {
		return fmt.Errorf("database.postgres.user is required when driver is postgres")
	}
	if pg.DBName == "" {
		return fmt.Errorf("database.postgres.dbname is required when driver is postgres")
	}
	switch pg.SSLMode {
	case "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
	default:
		return fmt.Errorf("invalid database.postgres.sslmode %q: must be one of %q, %q, %q, %q, %q, %q", pg.SSLMode, "disable", "allow", "prefer", "require", "verify-ca", "verify-full")
	}
	if mode == gin.ReleaseMode {
		switch pg.SSLMode {
		case "require", "verify-ca", "verify-full":
		default:
			return fmt.Errorf("invalid database.postgres.sslmode %q for server.mode %q: must be one of %q, %q, %q", pg.SSLMode, gin.ReleaseMode, "require", "verify-ca", "verify-full")
		}
	}
	return nil
}

func (a *AuthConfig) validate(mode string) error {
	secret := strings.TrimSpace(a.JWTSecret)
	if secret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if len(secret) < 32 {
		return fmt.Errorf("invalid auth.jwt_secret: must be at least 32 characters")
	}
	if mode == gin.ReleaseMode && CountSecretClasses(secret) < 3 {
		return fmt.Errorf("auth.jwt_secret must include at least 3 character classes (lowercase, uppercase, digit, symbol) in release mode")
	}
	a.JWTSecret = secret

	a.AccessTTL = strings.TrimSpace(a.AccessTTL)
	access, err := positiveDuration("auth.access_ttl", a.AccessTTL)
	if err != nil {
		return err
	}
	a.RefreshTTL = strings.TrimSpace(a.RefreshTTL)
	refresh, err := positiveDuration("auth.refresh_ttl", a.RefreshTTL)
	if err != nil {
		return err
	}
	if refresh < access {
		return fmt.Errorf("invalid auth.refresh_ttl %q: must not be shorter than auth.access_ttl %q", a.RefreshTTL, a.AccessTTL)
	}

	a.Admin.Username = strings.TrimSpace(a.Admin.Username)
	if a.Admin.Username != "" {
		if len(a.Admin.Password) < 8 || len(a.Admin.Password) > 72 {
			return fmt.Errorf("invalid auth.admin.password: must be between 8 and 72 bytes")
		}
	}
	return nil
}

func (c *CacheConfig) validate() error {
	c.TTL = strings.TrimSpace(c.TTL)
	if !c.Enabled {
		return nil
	}
	if _, err := positiveDuration("cache.ttl", c.TTL); err != nil {
		return err
	}
	if strings.TrimSpace(c.Redis["default"]) == "" {
		return fmt.Errorf("cache.redis.default is required when caching is enabled")
	}
	for alias, raw := range c.Redis {
		raw = strings.TrimSpace(raw)
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid cache.redis.%s: %w", alias, err)
		}
		if u.Scheme != "redis" && u.Scheme != "rediss" {
			return fmt.Errorf("invalid cache.redis.%s %q: scheme must be redis or rediss", alias, raw)
		}
		c.Redis[alias] = raw
	}
	return nil
}

func positiveDuration(name, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be greater than 0", name, value)
	}
	return d, nil
}

// Duration parses a value already checked by Validate. Invalid or empty
// input yields fallback.
func Duration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// CountSecretClasses counts how many character classes (lowercase, uppercase,
// digit, symbol) are present in the given secret string.
func CountSecretClasses(secret string) int {
	var lower, upper, digit, symbol bool
	for _, r := range secret {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}

	classes := 0
	for _, has := range []bool{lower, upper, digit, symbol} {
		if has {
			classes++
		}
	}
	return classes
}
