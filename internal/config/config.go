package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"

	"github.com/buynlarge/console/internal/storage"
)

// DefaultAPIBaseURL is the chatbot and catalog API the console talks to.
const DefaultAPIBaseURL = "https://api.whispererlab.com"

// Config aggregates every setting of the console binaries.
type Config struct {
	Server  ServerConfig
	API     APIConfig
	Storage StorageConfig
	Console ConsoleConfig
	AI      AIConfig
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	api, err := loadAPIConfig()
	if err != nil {
		return nil, err
	}

	store, err := loadStorageConfig()
	if err != nil {
		return nil, err
	}

	console, err := loadConsoleConfig(store)
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, API: api, Storage: store, Console: console, AI: ai}, nil
}

// ServerConfig describes the HTTP listener of the web console and demo backend.
type ServerConfig struct {
	Addr string
}

// loadServerConfig resolves the listen address from PORT.
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		return ServerConfig{}, nil
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AddrOr returns the configured address or fallback when PORT was unset.
func (c ServerConfig) AddrOr(fallback string) string {
	if c.Addr == "" {
		return fallback
	}
	return c.Addr
}

// APIConfig locates the remote chatbot/products API.
type APIConfig struct {
	BaseURL string
}

func loadAPIConfig() (APIConfig, error) {
	base := strings.TrimRight(getEnvOrDefault("CONSOLE_API_BASE_URL", DefaultAPIBaseURL), "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return APIConfig{}, fmt.Errorf("invalid CONSOLE_API_BASE_URL value %q: scheme must be http or https", base)
	}
	return APIConfig{BaseURL: base}, nil
}

// StorageConfig selects the client-local persistence backend.
type StorageConfig struct {
	Driver        string
	Path          string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Options converts the configuration into storage.Open arguments.
func (c StorageConfig) Options() storage.Options {
	return storage.Options{
		Driver:     c.Driver,
		FilePath:   c.Path,
		SQLitePath: c.SQLitePath,
		Redis: storage.RedisOptions{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			Prefix:   c.RedisPrefix,
		},
	}
}

func loadStorageConfig() (StorageConfig, error) {
	driver := strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", storage.DriverFile))
	switch driver {
	case storage.DriverMemory, storage.DriverFile, storage.DriverSQLite, storage.DriverRedis:
	default:
		return StorageConfig{}, fmt.Errorf("invalid STORAGE_DRIVER value %q", driver)
	}

	redisDB := 0
	if db, err := parseOptionalIntEnv("REDIS_DB"); err != nil {
		return StorageConfig{}, err
	} else if db != nil {
		redisDB = *db
	}

	dir := defaultDataDir()
	return StorageConfig{
		Driver:        driver,
		Path:          getEnvOrDefault("STORAGE_PATH", filepath.Join(dir, "console.json")),
		SQLitePath:    getEnvOrDefault("SQLITE_PATH", filepath.Join(dir, "console.db")),
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		RedisDB:       redisDB,
		RedisPrefix:   getEnvOrDefault("REDIS_PREFIX", "bnl:"),
	}, nil
}

// ConsoleConfig covers the interactive surfaces.
type ConsoleConfig struct {
	LogFile       string
	NotifyTTL     time.Duration
	CookieSecret  string
	SnowflakeNode int64
}

func loadConsoleConfig(store StorageConfig) (ConsoleConfig, error) {
	ttl := 4500 * time.Millisecond
	if ms, err := parseOptionalIntEnv("NOTIFY_TTL_MS"); err != nil {
		return ConsoleConfig{}, err
	} else if ms != nil {
		if *ms <= 0 {
			return ConsoleConfig{}, fmt.Errorf("invalid NOTIFY_TTL_MS value %d: must be positive", *ms)
		}
		ttl = time.Duration(*ms) * time.Millisecond
	}

	node := int64(1)
	if n, err := parseOptionalIntEnv("SNOWFLAKE_NODE"); err != nil {
		return ConsoleConfig{}, err
	} else if n != nil {
		if *n < 0 || *n > 1023 {
			return ConsoleConfig{}, fmt.Errorf("invalid SNOWFLAKE_NODE value %d: must be within 0..1023", *n)
		}
		node = int64(*n)
	}

	return ConsoleConfig{
		LogFile:       getEnvOrDefault("CONSOLE_LOG_FILE", filepath.Join(filepath.Dir(store.Path), "console.log")),
		NotifyTTL:     ttl,
		CookieSecret:  strings.TrimSpace(os.Getenv("CONSOLE_COOKIE_SECRET")),
		SnowflakeNode: node,
	}, nil
}

// AIConfig describes the optional LLM used by the demo backend responder.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled reports whether enough credentials were supplied to build a model.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel creates an ark chat model from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: provide ARK_API_KEY + Model or an AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("Model")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bnl-console"
	}
	return filepath.Join(home, ".bnl-console")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
