package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StoreAirtable = "airtable"
	StoreSupabase = "supabase"
	StoreMemory   = "memory"
)

type Config struct {
	// Record store
	RecordStore string `yaml:"record_store"`
	MockMode    bool   `yaml:"mock_mode"`

	// Airtable
	AirtableAPIKey    string `yaml:"airtable_api_key"`
	AirtableBaseID    string `yaml:"airtable_base_id"`
	AirtableTableName string `yaml:"airtable_table_name"`
	AirtableAPIURL    string `yaml:"airtable_api_url"`

	// Supabase
	SupabaseURL           string `yaml:"supabase_url"`
	SupabaseServiceKey    string `yaml:"supabase_service_key"`
	SupabaseOrdersTable   string `yaml:"supabase_orders_table"`
	SupabaseStorageBucket string `yaml:"supabase_storage_bucket"`

	// Database (migrations only)
	DatabaseURL string `yaml:"database_url"`

	// Relay
	WebhookImageGeneration string `yaml:"webhook_image_generation"`
	WebhookImageEdit       string `yaml:"webhook_image_edit"`
	WebhookPDFGeneration   string `yaml:"webhook_pdf_generation"`
	WebhookSendProposal    string `yaml:"webhook_send_proposal"`
	RelayCallbackToken     string `yaml:"relay_callback_token"`

	// Auth
	AdminJWTSecret string `yaml:"admin_jwt_secret"`

	// Events
	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`

	// Document generator
	ImageFetchTimeout time.Duration `yaml:"image_fetch_timeout"`
	ImageFetchRetries int           `yaml:"image_fetch_retries"`
	ImageFetchBudget  time.Duration `yaml:"image_fetch_budget"`

	// Server
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
}

// Load reads the optional YAML file named by CONFIG_FILE and then applies
// environment variables on top of it.
func Load() (*Config, error) {
	cfg := &Config{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.RecordStore = getEnv("RECORD_STORE", or(cfg.RecordStore, StoreAirtable))
	cfg.MockMode = getEnvBool("MOCK_MODE", cfg.MockMode)

	cfg.AirtableAPIKey = getEnv("AIRTABLE_API_KEY", cfg.AirtableAPIKey)
	cfg.AirtableBaseID = getEnv("AIRTABLE_BASE_ID", cfg.AirtableBaseID)
	cfg.AirtableTableName = getEnv("AIRTABLE_TABLE_NAME", cfg.AirtableTableName)
	cfg.AirtableAPIURL = getEnv("AIRTABLE_API_URL", or(cfg.AirtableAPIURL, "https://api.airtable.com/v0/"))

	cfg.SupabaseURL = getEnv("SUPABASE_URL", cfg.SupabaseURL)
	cfg.SupabaseServiceKey = getEnv("SUPABASE_SERVICE_KEY", cfg.SupabaseServiceKey)
	cfg.SupabaseOrdersTable = getEnv("SUPABASE_ORDERS_TABLE", or(cfg.SupabaseOrdersTable, "orders"))
	cfg.SupabaseStorageBucket = getEnv("SUPABASE_STORAGE_BUCKET", or(cfg.SupabaseStorageBucket, "proposals"))

	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)

	cfg.WebhookImageGeneration = getEnv("WEBHOOK_IMAGE_GENERATION", cfg.WebhookImageGeneration)
	cfg.WebhookImageEdit = getEnv("WEBHOOK_IMAGE_EDIT", cfg.WebhookImageEdit)
	cfg.WebhookPDFGeneration = getEnv("WEBHOOK_PDF_GENERATION", cfg.WebhookPDFGeneration)
	cfg.WebhookSendProposal = getEnv("WEBHOOK_SEND_PROPOSAL", cfg.WebhookSendProposal)
	cfg.RelayCallbackToken = getEnv("RELAY_CALLBACK_TOKEN", cfg.RelayCallbackToken)

	cfg.AdminJWTSecret = getEnv("ADMIN_JWT_SECRET", cfg.AdminJWTSecret)

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = splitList(brokers)
	}
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", or(cfg.KafkaTopic, "order-events"))

	cfg.ImageFetchTimeout = getEnvDuration("IMAGE_FETCH_TIMEOUT", orDuration(cfg.ImageFetchTimeout, 10*time.Second))
	cfg.ImageFetchRetries = getEnvInt("IMAGE_FETCH_RETRIES", orInt(cfg.ImageFetchRetries, 2))
	cfg.ImageFetchBudget = getEnvDuration("IMAGE_FETCH_BUDGET", orDuration(cfg.ImageFetchBudget, 20*time.Second))

	cfg.Port = getEnv("PORT", or(cfg.Port, "8080"))
	cfg.Environment = getEnv("ENVIRONMENT", or(cfg.Environment, "development"))
	cfg.LogLevel = getEnv("LOG_LEVEL", or(cfg.LogLevel, "info"))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MockMode {
		if c.IsProduction() {
			return fmt.Errorf("MOCK_MODE cannot be enabled in production")
		}
		return nil
	}

	switch c.RecordStore {
	case StoreAirtable:
		if c.AirtableAPIKey == "" {
			return fmt.Errorf("AIRTABLE_API_KEY is required")
		}
		if c.AirtableBaseID == "" {
			return fmt.Errorf("AIRTABLE_BASE_ID is required")
		}
		if c.AirtableTableName == "" {
			return fmt.Errorf("AIRTABLE_TABLE_NAME is required")
		}
	case StoreSupabase:
		if c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required")
		}
		if c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
		}
	case StoreMemory:
		if c.IsProduction() {
			return fmt.Errorf("RECORD_STORE=memory cannot be used in production")
		}
	default:
		return fmt.Errorf("unknown RECORD_STORE %q", c.RecordStore)
	}

	if c.ImageFetchRetries < 1 {
		return fmt.Errorf("IMAGE_FETCH_RETRIES must be at least 1")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// StorageConfigured reports whether generated PDFs can be uploaded.
func (c *Config) StorageConfigured() bool {
	return c.SupabaseURL != "" && c.SupabaseServiceKey != ""
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func or(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func orInt(value, fallback int) int {
	if value != 0 {
		return value
	}
	return fallback
}

func orDuration(value, fallback time.Duration) time.Duration {
	if value != 0 {
		return value
	}
	return fallback
}
