package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration for the portal core.
type Server struct {
	Addr          string
	JWTSigningKey string

	// RedirectDelay is how long the registration flow shows its success state
	// before requesting navigation to the dashboard.
	RedirectDelay time.Duration

	// ResumeToken, when set, is a persisted session token the gate tries to
	// re-establish on startup before resolving.
	ResumeToken string

	Redis       RedisConfig
	PostgresDSN string

	// KafkaBrokers is empty when the audit trail should stay in-process.
	KafkaBrokers []string
	AuditTopic   string
}

// RedisConfig holds connection settings for the revocation store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("ADUAN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("ADUAN_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default; must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	delay := 2 * time.Second
	if raw := os.Getenv("ADUAN_REDIRECT_DELAY_MS"); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms >= 0 {
			delay = time.Duration(ms) * time.Millisecond
		}
	}

	var brokers []string
	if raw := os.Getenv("ADUAN_KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	topic := os.Getenv("ADUAN_AUDIT_TOPIC")
	if topic == "" {
		topic = "aduan.audit"
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		RedirectDelay: delay,
		ResumeToken:   os.Getenv("ADUAN_RESUME_TOKEN"),
		Redis:         redisFromEnv(),
		PostgresDSN:   os.Getenv("ADUAN_POSTGRES_DSN"),
		KafkaBrokers:  brokers,
		AuditTopic:    topic,
	}
}

func redisFromEnv() RedisConfig {
	return RedisConfig{
		URL:          os.Getenv("ADUAN_REDIS_URL"),
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}
