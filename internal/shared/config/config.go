package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	// RecordStore selects where saved resumes live: memory, sqlite or postgres.
	RecordStore string
	SQLitePath  string
	DatabaseURL string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	ChromePath  string
	PDFTimeout  time.Duration
	ExportRate  float64
	ExportBurst int

	// WorkspaceMax bounds the in-memory forms held for guests.
	WorkspaceMax     int
	WorkspaceIdleTTL time.Duration

	// QueueBackend enables asynchronous exports: "", sqs or amqp.
	QueueBackend      string
	ExportQueueURL    string
	AMQPURL           string
	AMQPQueue         string
	WorkerConcurrency int
	VisibilityTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	recordStore := normalizeRecordStore(getEnv("RECORD_STORE", ""), dbURL)

	if env == "production" && recordStore == "postgres" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		RecordStore:     recordStore,
		SQLitePath:      getEnv("SQLITE_PATH", "./data/resume.db"),
		DatabaseURL:     dbURL,
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
		ChromePath:      getEnv("CHROME_PATH", ""),
		PDFTimeout:      getDuration("PDF_TIMEOUT", 30*time.Second),
		ExportRate:      getFloat("EXPORT_RATE", 0.2),
		ExportBurst:     getInt("EXPORT_BURST", 3),

		WorkspaceMax:     getInt("WORKSPACE_MAX", 1024),
		WorkspaceIdleTTL: getDuration("WORKSPACE_IDLE_TTL", 30*time.Minute),

		QueueBackend:      normalizeQueueBackend(getEnv("QUEUE_BACKEND", "")),
		ExportQueueURL:    getEnv("EXPORT_QUEUE_URL", ""),
		AMQPURL:           getEnv("AMQP_URL", ""),
		AMQPQueue:         getEnv("AMQP_QUEUE", "resume-exports"),
		WorkerConcurrency: max(1, getInt("WORKER_CONCURRENCY", 4)),
		VisibilityTimeout: getDuration("QUEUE_VISIBILITY_TIMEOUT", 5*time.Minute),
		ShutdownTimeout:   getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	log.Printf("config: invalid %s=%q, using %s", key, raw, def)
	return def
}

func getFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 {
		return v
	}
	log.Printf("config: invalid %s=%q, using %v", key, raw, def)
	return def
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
		return v
	}
	log.Printf("config: invalid %s=%q, using %d", key, raw, def)
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

// normalizeRecordStore defaults to postgres when a database URL is configured
// and to sqlite otherwise.
func normalizeRecordStore(raw, dbURL string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "memory", "mem":
		return "memory"
	case "sqlite", "sqlite3":
		return "sqlite"
	case "postgres", "postgresql", "pg":
		return "postgres"
	}
	if strings.TrimSpace(dbURL) != "" {
		return "postgres"
	}
	return "sqlite"
}

func normalizeQueueBackend(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sqs":
		return "sqs"
	case "amqp", "rabbitmq":
		return "amqp"
	case "", "none", "off":
		return ""
	}
	log.Printf("config: unknown QUEUE_BACKEND=%q, asynchronous exports disabled", raw)
	return ""
}
