package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr            string
	DatabaseURL     string
	RedisURL        string
	KafkaBrokers    []string
	KafkaAuditTopic string
	JWTSigningKey   string
	DefaultTimezone string
	JobLockTTL      time.Duration
	RequestTimeout  time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("SHUTTEROPS_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	tz := os.Getenv("SHUTTEROPS_DEFAULT_TIMEZONE")
	if tz == "" {
		tz = "America/Chicago"
	}

	topic := os.Getenv("KAFKA_AUDIT_TOPIC")
	if topic == "" {
		topic = "shutterops.audit"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return Server{
		Addr:            addr,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		KafkaBrokers:    brokers,
		KafkaAuditTopic: topic,
		JWTSigningKey:   jwtSigningKey,
		DefaultTimezone: tz,
		JobLockTTL:      5 * time.Minute,
		RequestTimeout:  30 * time.Second,
	}
}
