package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ErrInvalidConfig возвращается, если значения конфигурации недопустимы
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Logs        LogsConfig        `toml:"logs"`
	Metrics     MetricsConfig     `toml:"metrics"`
	UserService UserServiceConfig `toml:"user_service"`
	Schedule    ScheduleConfig    `toml:"schedule"`
	Scheduler   SchedulerConfig   `toml:"scheduler"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	// AutoMigrate применять встроенные миграции при старте
	AutoMigrate bool `toml:"auto_migrate"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type UserServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
	// MaxParallel ограничение параллельных запросов профилей
	MaxParallel int `toml:"max_parallel"`
	// RateLimit запросов в секунду к UserService
	RateLimit float64 `toml:"rate_limit"`
}

// ScheduleConfig параметры генерации слотов
type ScheduleConfig struct {
	UTCOffsetMinutes    int `toml:"utc_offset_minutes"`
	SlotDurationMinutes int `toml:"slot_duration_minutes"`
	HorizonDays         int `toml:"horizon_days"`
}

// Location часовой пояс расписания (фиксированное смещение)
func (s ScheduleConfig) Location() *time.Location {
	offset := s.UTCOffsetMinutes
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	name := fmt.Sprintf("UTC%s%02d:%02d", sign, offset/60, offset%60)
	return time.FixedZone(name, s.UTCOffsetMinutes*60)
}

// SchedulerConfig фоновые задачи
type SchedulerConfig struct {
	Enabled bool `toml:"enabled"`
	// HorizonCron cron-выражение задачи продления горизонта
	HorizonCron string `toml:"horizon_cron"`
}

// Load читает TOML файл, применяет значения по умолчанию и переменные окружения.
// Переменные окружения могут быть заданы в файле .env рядом с процессом.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	// .env опционален
	_ = godotenv.Load()

	cfg.applyEnv()
	cfg.applyDefaults()
	// Смещение 0 (UTC) допустимо, поэтому умолчание только для отсутствующего ключа
	if !meta.IsDefined("schedule", "utc_offset_minutes") {
		cfg.Schedule.UTCOffsetMinutes = domain.DefaultUTCOffsetMinutes
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("DB_HOST")); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "appointmentservice"
	}

	if c.UserService.Timeout == 0 {
		c.UserService.Timeout = 5
	}
	if c.UserService.MaxParallel == 0 {
		c.UserService.MaxParallel = 8
	}
	if c.UserService.RateLimit == 0 {
		c.UserService.RateLimit = 50
	}

	if c.Schedule.SlotDurationMinutes == 0 {
		c.Schedule.SlotDurationMinutes = domain.DefaultSlotDurationMinutes
	}
	if c.Schedule.HorizonDays == 0 {
		c.Schedule.HorizonDays = domain.DefaultHorizonDays
	}

	if c.Scheduler.HorizonCron == "" {
		c.Scheduler.HorizonCron = "5 0 * * *"
	}
}

// Validate проверяет допустимость значений
func (c *Config) Validate() error {
	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port out of range: %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.UserService.URL == "" {
		return fmt.Errorf("%w: user_service.url is required", ErrInvalidConfig)
	}
	if c.Schedule.SlotDurationMinutes <= 0 || c.Schedule.SlotDurationMinutes > 24*60 {
		return fmt.Errorf("%w: schedule.slot_duration_minutes must be in (0, 1440]", ErrInvalidConfig)
	}
	if c.Schedule.HorizonDays <= 0 {
		return fmt.Errorf("%w: schedule.horizon_days must be positive", ErrInvalidConfig)
	}
	if c.Schedule.UTCOffsetMinutes < -12*60 || c.Schedule.UTCOffsetMinutes > 14*60 {
		return fmt.Errorf("%w: schedule.utc_offset_minutes out of range", ErrInvalidConfig)
	}
	return nil
}
