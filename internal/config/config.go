package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/toolsascode/revmig/internal/backends"
)

// Lock modes
const (
	LockWait = "wait"
	LockFail = "fail"
)

// Config holds the application configuration
type Config struct {
	Server struct {
		HTTPPort string
		GRPCPort string
		APIToken string
	}
	// Database is the target database: revisions are applied to it and the
	// revision history lives inside it
	Database backends.ConnectionConfig
	History  struct {
		Table string
	}
	Revisions struct {
		Dir   string
		Watch bool
	}
	Runner struct {
		Timeout  time.Duration
		LockMode string // "wait" or "fail"
		LockKey  string
	}
	Monitor struct {
		Interval time.Duration // zero disables the drift monitor
	}
	Queue struct {
		Type               string   // "kafka" or "pulsar"
		KafkaBrokers       []string // Kafka broker addresses
		KafkaTopic         string   // Kafka topic name
		KafkaGroupID       string   // Kafka consumer group ID
		PulsarURL          string   // Pulsar service URL
		PulsarTopic        string   // Pulsar topic name
		PulsarSubscription string   // Pulsar subscription name
		Enabled            bool     // Whether to use queue (false = synchronous execution)
	}
}

// LoadFromEnv loads configuration from REVMIG_* environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	// Server configuration
	config.Server.HTTPPort = getEnvOrDefault("REVMIG_HTTP_PORT", "7070")
	config.Server.GRPCPort = getEnvOrDefault("REVMIG_GRPC_PORT", "9090")
	config.Server.APIToken = os.Getenv("REVMIG_API_TOKEN")

	// Target database
	db := &config.Database
	db.Backend = strings.ToLower(getEnvOrDefault("REVMIG_DB_BACKEND", "postgresql"))
	db.Host = getEnvOrDefault("REVMIG_DB_HOST", "localhost")
	db.Port = getEnvOrDefault("REVMIG_DB_PORT", defaultPort(db.Backend))
	db.Username = getEnvOrDefault("REVMIG_DB_USERNAME", "postgres")
	db.Password = os.Getenv("REVMIG_DB_PASSWORD")
	db.Database = getEnvOrDefault("REVMIG_DB_NAME", defaultDatabase(db.Backend))
	db.Schema = os.Getenv("REVMIG_DB_SCHEMA")
	db.Extra = make(map[string]string)
	if driver := os.Getenv("REVMIG_DB_DRIVER"); driver != "" {
		db.Extra["driver"] = driver
	}
	if sslMode := os.Getenv("REVMIG_DB_SSLMODE"); sslMode != "" {
		db.Extra["sslmode"] = sslMode
	}

	// REVMIG_DB_EXTRA_{KEY} passes backend-specific settings, e.g.
	// REVMIG_DB_EXTRA_ENDPOINTS for etcd
	for _, envVar := range os.Environ() {
		parts := strings.SplitN(envVar, "=", 2)
		if len(parts) != 2 {
			continue
		}
		if key := strings.TrimPrefix(parts[0], "REVMIG_DB_EXTRA_"); key != parts[0] && key != "" {
			db.Extra[strings.ToLower(key)] = parts[1]
		}
	}

	config.History.Table = getEnvOrDefault("REVMIG_HISTORY_TABLE", "revision_history")

	config.Revisions.Dir = getEnvOrDefault("REVMIG_REVISIONS_DIR", "revisions")
	config.Revisions.Watch = getEnvOrDefault("REVMIG_REVISIONS_WATCH", "false") == "true"

	// Runner configuration
	timeout, err := getEnvDuration("REVMIG_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}
	config.Runner.Timeout = timeout
	config.Runner.LockMode = strings.ToLower(getEnvOrDefault("REVMIG_LOCK_MODE", LockWait))
	if config.Runner.LockMode != LockWait && config.Runner.LockMode != LockFail {
		return nil, fmt.Errorf("REVMIG_LOCK_MODE must be %q or %q, got %q", LockWait, LockFail, config.Runner.LockMode)
	}
	config.Runner.LockKey = getEnvOrDefault("REVMIG_LOCK_KEY", "revmig")

	interval, err := getEnvDuration("REVMIG_MONITOR_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}
	config.Monitor.Interval = interval

	// Queue configuration
	config.Queue.Enabled = getEnvOrDefault("REVMIG_QUEUE_ENABLED", "false") == "true"
	config.Queue.Type = getEnvOrDefault("REVMIG_QUEUE_TYPE", "kafka")

	// Kafka configuration
	if kafkaBrokers := os.Getenv("REVMIG_QUEUE_KAFKA_BROKERS"); kafkaBrokers != "" {
		config.Queue.KafkaBrokers = strings.Split(kafkaBrokers, ",")
	} else {
		kafkaHost := getEnvOrDefault("REVMIG_QUEUE_KAFKA_HOST", "localhost")
		kafkaPort := getEnvOrDefault("REVMIG_QUEUE_KAFKA_PORT", "9092")
		config.Queue.KafkaBrokers = []string{fmt.Sprintf("%s:%s", kafkaHost, kafkaPort)}
	}
	config.Queue.KafkaTopic = getEnvOrDefault("REVMIG_QUEUE_KAFKA_TOPIC", "revmig-jobs")
	config.Queue.KafkaGroupID = getEnvOrDefault("REVMIG_QUEUE_KAFKA_GROUP_ID", "revmig-workers")

	// Pulsar configuration
	config.Queue.PulsarURL = getEnvOrDefault("REVMIG_QUEUE_PULSAR_URL", "pulsar://localhost:6650")
	config.Queue.PulsarTopic = getEnvOrDefault("REVMIG_QUEUE_PULSAR_TOPIC", "revmig-jobs")
	config.Queue.PulsarSubscription = getEnvOrDefault("REVMIG_QUEUE_PULSAR_SUBSCRIPTION", "revmig-workers")

	return config, nil
}

// RequireAPIToken fails when the server has no API token configured
func (c *Config) RequireAPIToken() error {
	if c.Server.APIToken == "" {
		return fmt.Errorf("REVMIG_API_TOKEN environment variable is required")
	}
	return nil
}

// FailFast reports whether the runner should fail instead of waiting for the lock
func (c *Config) FailFast() bool {
	return c.Runner.LockMode == LockFail
}

func defaultPort(backend string) string {
	switch backend {
	case "etcd":
		return "2379"
	case "sqlite":
		return ""
	}
	return "5432"
}

func defaultDatabase(backend string) string {
	if backend == "sqlite" {
		return "revmig.db"
	}
	return "postgres"
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration parses a duration ("30s", "5m") or a plain number of seconds
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
