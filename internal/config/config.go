package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultSecretKey is used when SECRET_KEY is unset. It is public and only
// suitable for local development.
const DefaultSecretKey = "mysecretkey"

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DBDriver    string
	DatabaseURL string

	SecretKey []byte
	TokenTTL  time.Duration

	KafkaBrokers    []string
	KafkaNotesTopic string
	KafkaUsersTopic string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	SearchBackend string

	SummarizerURL     string
	SummarizerToken   string
	SummarizerTimeout time.Duration
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}
	return FromEnv()
}

func FromEnv() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "neuronotes"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8000),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DBDriver:    strings.ToLower(EnvDefault("DB_DRIVER", "sqlite")),
		DatabaseURL: EnvDefault("DATABASE_URL", "neuronotes.db"),

		SecretKey: []byte(EnvDefault("SECRET_KEY", DefaultSecretKey)),
		TokenTTL:  time.Duration(EnvIntDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 60)) * time.Minute,

		KafkaBrokers:    CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaNotesTopic: EnvDefault("KAFKA_TOPIC_NOTES", "note_events"),
		KafkaUsersTopic: EnvDefault("KAFKA_TOPIC_USERS", "user_events"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "notes"),

		SearchBackend: strings.ToLower(EnvDefault("SEARCH_BACKEND", "tfidf")),

		SummarizerURL:     os.Getenv("SUMMARIZER_URL"),
		SummarizerToken:   os.Getenv("SUMMARIZER_TOKEN"),
		SummarizerTimeout: time.Duration(EnvIntDefault("SUMMARIZER_TIMEOUT_SECONDS", 30)) * time.Second,
	}
}

func (c Config) UsesDefaultSecret() bool {
	return string(c.SecretKey) == DefaultSecretKey
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.ServerPort)
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
