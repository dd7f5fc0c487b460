package infra

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config — корневая структура конфигурации шлюза.
type Config struct {
	Environment string        `mapstructure:"environment"` // development, production
	Server      ServerConfig  `mapstructure:"server"`
	Metrics     MetricsConfig `mapstructure:"metrics"`
	Auth        AuthConfig    `mapstructure:"auth"`
	Session     SessionConfig `mapstructure:"session"`
	Search      SearchConfig  `mapstructure:"search"`
	Client      ClientConfig  `mapstructure:"client"`
	Logger      LoggerConfig  `mapstructure:"logger"`
}

// ServerConfig описывает настройки HTTP-сервера.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// MetricsConfig — отдельный listener для Prometheus.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// AuthConfig описывает интеграцию с внутренним auth-сервисом.
type AuthConfig struct {
	// APIURL — база auth-сервиса, к ней добавляется /api/v1/auth.
	APIURL string `mapstructure:"api_url"`
	// JWTSecret — общий с auth-сервисом секрет для проверки bearer-токена.
	JWTSecret string `mapstructure:"jwt_secret"`
}

// SessionConfig — настройки браузерной cookie-сессии.
// Два ключа подписи нужны для ротации без принудительного релогина:
// подписываем всегда первым, при проверке принимаем оба.
type SessionConfig struct {
	Name      string        `mapstructure:"name"`
	FirstKey  string        `mapstructure:"first_key"`
	SecondKey string        `mapstructure:"second_key"`
	MaxAge    time.Duration `mapstructure:"max_age"`
}

// SearchConfig описывает подключение к Elasticsearch (поисковая зависимость).
type SearchConfig struct {
	ElasticURL string `mapstructure:"elastic_url"`
}

// ClientConfig — фронтенд, которому разрешён CORS.
type ClientConfig struct {
	URL string `mapstructure:"url"`
}

// LoggerConfig настраивает поведение zap логгера.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// Secrets возвращает набор ключей подписи сессии в порядке приоритета.
// Пустой второй ключ не включается — ротация может быть ещё не настроена.
func (s SessionConfig) Secrets() []string {
	secrets := []string{s.FirstKey}
	if s.SecondKey != "" {
		secrets = append(secrets, s.SecondKey)
	}
	return secrets
}

// LoadConfig инициализирует конфигурацию, объединяя значения из файла и ENV.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// 1. Настройка поиска файла
	v.SetConfigName("config")    // имя файла без расширения
	v.SetConfigType("yaml")      // формат
	v.AddConfigPath(".")         // ищем в корне
	v.AddConfigPath("./configs") // и в папке с конфигами

	// 2. Настройка переменных окружения (ENV)
	// Позволяет перекрывать конфиг: SERVER_PORT=9000 перекроет server.port
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 3. Установка дефолтных значений
	setDefaults(v)

	// 4. Чтение файла
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Если файла нет — работаем на ENV и дефолтах
	}

	// 5. Маппинг в структуру
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// 6. Секреты из ENV имеют приоритет над файлом (для Docker/K8s)
	cfg.Auth.JWTSecret = overrideFromEnv(cfg.Auth.JWTSecret, "GATEWAY_JWT_TOKEN")
	cfg.Session.FirstKey = overrideFromEnv(cfg.Session.FirstKey, "SECRET_KEY_ONE")
	cfg.Session.SecondKey = overrideFromEnv(cfg.Session.SecondKey, "SECRET_KEY_TWO")

	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}
	if cfg.Session.FirstKey == "" {
		return nil, errors.New("session.first_key is required")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("server.port", 4000)
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("metrics.addr", ":9090")
	v.SetDefault("auth.api_url", "http://localhost:4002")
	v.SetDefault("session.name", "session")
	v.SetDefault("session.max_age", 7*24*time.Hour)
	v.SetDefault("search.elastic_url", "http://localhost:9200")
	v.SetDefault("client.url", "http://localhost:3000")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
}

// overrideFromEnv — хелпер для секретов, которые прилетают напрямую в ENV
func overrideFromEnv(current, envKey string) string {
	if data := os.Getenv(envKey); data != "" {
		return data
	}
	return current
}
