package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config reúne as configurações da aplicação, lidas de variáveis de ambiente
// (opcionalmente carregadas de um .env antes)
type Config struct {
	HTTPPort    string `mapstructure:"HTTP_PORT"`
	APIBasePath string `mapstructure:"API_BASE_PATH"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	DBHost           string        `mapstructure:"DB_HOST"`
	DBPort           int           `mapstructure:"DB_PORT"`
	DBUser           string        `mapstructure:"DB_USER"`
	DBPassword       string        `mapstructure:"DB_PASSWORD"`
	DBName           string        `mapstructure:"DB_NAME"`
	DBSSLMode        string        `mapstructure:"DB_SSL_MODE"`
	DBMaxConnections int32         `mapstructure:"DB_MAX_CONNECTIONS"`
	DBMinConnections int32         `mapstructure:"DB_MIN_CONNECTIONS"`
	DBMaxLifetime    time.Duration `mapstructure:"DB_MAX_LIFETIME"`
	MigrationsPath   string        `mapstructure:"MIGRATIONS_PATH"`

	BusinessTimezone    string `mapstructure:"BUSINESS_TIMEZONE"`
	SequenceMaxAttempts int    `mapstructure:"SEQUENCE_MAX_ATTEMPTS"`
	PromotionTieBreak   string `mapstructure:"PROMOTION_TIE_BREAK"`

	JWTSecretKey       string `mapstructure:"JWT_SECRET_KEY"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`

	AMQPURL            string `mapstructure:"AMQP_URL"`
	MonitoringExchange string `mapstructure:"MONITORING_EXCHANGE"`
	MonitoringBuffer   int    `mapstructure:"MONITORING_BUFFER"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	AccountAutoCloseAt string `mapstructure:"ACCOUNT_AUTOCLOSE_AT"`

	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

var defaults = map[string]interface{}{
	"HTTP_PORT":             "8080",
	"API_BASE_PATH":         "/api/v1",
	"LOG_LEVEL":             "INFO",
	"DATABASE_URL":          "",
	"DB_HOST":               "localhost",
	"DB_PORT":               5432,
	"DB_USER":               "postgres",
	"DB_PASSWORD":           "postgres",
	"DB_NAME":               "restaurante",
	"DB_SSL_MODE":           "disable",
	"DB_MAX_CONNECTIONS":    10,
	"DB_MIN_CONNECTIONS":    1,
	"DB_MAX_LIFETIME":       "1h",
	"MIGRATIONS_PATH":       "migrations",
	"BUSINESS_TIMEZONE":     "America/Mexico_City",
	"SEQUENCE_MAX_ATTEMPTS": 100,
	"PROMOTION_TIE_BREAK":   "first_created",
	"JWT_SECRET_KEY":        "",
	"JWT_EXPIRATION_HOURS":  24,
	"AMQP_URL":              "",
	"MONITORING_EXCHANGE":   "restaurante.monitoring",
	"MONITORING_BUFFER":     256,
	"REDIS_ADDR":            "",
	"REDIS_PASSWORD":        "",
	"ACCOUNT_AUTOCLOSE_AT":  "04:00",
	"CORS_ALLOWED_ORIGINS":  "*",
}

// Load lê a configuração do ambiente aplicando os valores padrão
func Load() (*Config, error) {
	cfg, err := load(viper.New())
	if err != nil {
		return nil, err
	}
	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY não configurada")
	}
	return cfg, nil
}

// LoadDatabase lê a configuração sem exigir as chaves da API; usada pelo
// comando de migração
func LoadDatabase() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("erro ao ler configuração: %w", err)
	}

	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	if cfg.SequenceMaxAttempts <= 0 {
		return nil, fmt.Errorf("SEQUENCE_MAX_ATTEMPTS deve ser positivo")
	}
	if cfg.MonitoringBuffer <= 0 {
		return nil, fmt.Errorf("MONITORING_BUFFER deve ser positivo")
	}

	return &cfg, nil
}

// ConnectionString retorna DATABASE_URL ou a monta a partir das variáveis DB_*
func (c *Config) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// AutoCloseTime interpreta ACCOUNT_AUTOCLOSE_AT; ok é false quando desligado
func (c *Config) AutoCloseTime() (hour, minute int, ok bool, err error) {
	if c.AccountAutoCloseAt == "" {
		return 0, 0, false, nil
	}
	t, err := time.Parse("15:04", c.AccountAutoCloseAt)
	if err != nil {
		return 0, 0, false, fmt.Errorf("ACCOUNT_AUTOCLOSE_AT inválido: %w", err)
	}
	return t.Hour(), t.Minute(), true, nil
}

func splitList(value string) []string {
	var items []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
