package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// AssemblyAI speech-to-text API
	AssemblyAIKey     string
	AssemblyAIBaseURL string
	PollInterval      time.Duration
	PollTimeout       time.Duration

	// Local scratch storage for uploaded audio
	UploadDir string

	// Extended allow-list adds mp4, wma, aac, opus, 3gp
	ExtendedFormats bool

	// Upload handling: "sync" blocks the request until the transcript is
	// stored, "async" accepts and processes on the worker pool.
	UploadMode string
	Workers    int
	QueueSize  int

	// Document store (Firestore). Empty project falls back to the
	// in-memory store.
	FirestoreProject   string
	FirestoreCredsFile string
	UsersCollection    string
	FilesCollection    string
	StoreTimezone      string

	// Durable job records
	JobsDBPath string

	// Optional transcript polish
	OpenAIKey string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		AssemblyAIKey:      os.Getenv("ASSEMBLYAI_API_KEY"),
		AssemblyAIBaseURL:  getEnv("ASSEMBLYAI_URL", "https://api.assemblyai.com/v2"),
		PollInterval:       getDuration("STT_POLL_INTERVAL", 5*time.Second),
		PollTimeout:        getDuration("STT_POLL_TIMEOUT", 10*time.Minute),
		UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
		ExtendedFormats:    getBool("EXTENDED_AUDIO_FORMATS", false),
		UploadMode:         getEnv("UPLOAD_MODE", "async"),
		Workers:            getInt("UPLOAD_WORKERS", 4),
		QueueSize:          getInt("UPLOAD_QUEUE_SIZE", 64),
		FirestoreProject:   os.Getenv("FIRESTORE_PROJECT_ID"),
		FirestoreCredsFile: getEnv("FIRESTORE_CREDENTIALS_FILE", "serviceAccountKey.json"),
		UsersCollection:    getEnv("STORE_USERS_COLLECTION", "ProcessedDocs"),
		FilesCollection:    getEnv("STORE_FILES_COLLECTION", "UserFiles"),
		StoreTimezone:      getEnv("STORE_TIMEZONE", "Asia/Kolkata"),
		JobsDBPath:         getEnv("JOBS_DB_PATH", "file:./voicedocs.db"),
		OpenAIKey:          os.Getenv("OPENAI_API_KEY"),
	}

	if cfg.AssemblyAIKey == "" {
		return nil, fmt.Errorf("ASSEMBLYAI_API_KEY is required. Please set it as environment variable:\n  Linux/Mac: export ASSEMBLYAI_API_KEY=\"your_key\"\n  Windows PowerShell: $env:ASSEMBLYAI_API_KEY=\"your_key\"")
	}

	if cfg.UploadMode != "sync" && cfg.UploadMode != "async" {
		return nil, fmt.Errorf("UPLOAD_MODE must be \"sync\" or \"async\", got %q", cfg.UploadMode)
	}

	if _, err := time.LoadLocation(cfg.StoreTimezone); err != nil {
		return nil, fmt.Errorf("STORE_TIMEZONE %q is not a valid IANA zone: %w", cfg.StoreTimezone, err)
	}

	// OpenAI key is optional (only needed for transcript polish)

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
