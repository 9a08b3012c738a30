// Package config carrega a configuração do BFF a partir de variáveis de
// ambiente, opcionalmente precedidas por um arquivo .env.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EventTransport seleciona o transporte do barramento de eventos.
type EventTransport string

const (
	TransportMemory  EventTransport = "memory"
	TransportChannel EventTransport = "channel"
	TransportKafka   EventTransport = "kafka"
	TransportRedis   EventTransport = "redis"
)

// CheckoutMode define como reserva e pagamento são enviados ao backend.
type CheckoutMode string

const (
	// CheckoutCombined envia reserva e pagamento em uma única chamada transacional.
	CheckoutCombined CheckoutMode = "combined"
	// CheckoutSaga envia reserva e pagamento separadamente, com compensação.
	CheckoutSaga CheckoutMode = "saga"
)

type Config struct {
	AppName string
	Addr    string
	Debug   bool

	BackendBaseURL string
	BackendTimeout time.Duration

	EventTransport     EventTransport
	KafkaBrokers       []string
	KafkaConsumerGroup string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionStore  string
	SessionTTL    time.Duration
	SecureCookies bool

	JournalDSN   string
	CheckoutMode CheckoutMode

	MetricsEnabled bool
}

// Load lê o .env (quando existir) e as variáveis de ambiente.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv monta a configuração apenas a partir do ambiente atual.
func FromEnv() (Config, error) {
	cfg := Config{
		AppName:            envStr("APP_NAME", "bus-booking-bff"),
		Addr:               envStr("BFF_ADDR", ":8080"),
		Debug:              envBool("APP_DEBUG", false),
		BackendBaseURL:     strings.TrimRight(os.Getenv("BACKEND_BASE_URL"), "/"),
		BackendTimeout:     envDur("BACKEND_TIMEOUT", 30*time.Second),
		EventTransport:     EventTransport(strings.ToLower(envStr("EVENT_TRANSPORT", string(TransportMemory)))),
		KafkaBrokers:       envList("KAFKA_BROKERS"),
		KafkaConsumerGroup: envStr("KAFKA_CONSUMER_GROUP", "bus-booking-bff"),
		RedisAddr:          envStr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            envInt("REDIS_DB", 0),
		SessionStore:       strings.ToLower(envStr("SESSION_STORE", "memory")),
		SessionTTL:         envDur("SESSION_TTL", 12*time.Hour),
		SecureCookies:      envBool("SESSION_COOKIE_SECURE", false),
		JournalDSN:         os.Getenv("JOURNAL_DSN"),
		CheckoutMode:       CheckoutMode(strings.ToLower(envStr("CHECKOUT_MODE", string(CheckoutCombined)))),
		MetricsEnabled:     envBool("METRICS_ENABLED", true),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.BackendBaseURL == "" {
		errs = append(errs, errors.New("missing required env var: BACKEND_BASE_URL"))
	}
	switch c.EventTransport {
	case TransportMemory, TransportChannel, TransportRedis:
	case TransportKafka:
		if len(c.KafkaBrokers) == 0 {
			errs = append(errs, errors.New("KAFKA_BROKERS is required when EVENT_TRANSPORT=kafka"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid EVENT_TRANSPORT %q", c.EventTransport))
	}
	switch c.SessionStore {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("invalid SESSION_STORE %q", c.SessionStore))
	}
	switch c.CheckoutMode {
	case CheckoutCombined, CheckoutSaga:
	default:
		errs = append(errs, fmt.Errorf("invalid CHECKOUT_MODE %q", c.CheckoutMode))
	}
	if c.BackendTimeout <= 0 {
		errs = append(errs, errors.New("BACKEND_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// UsesRedis indica se algum componente precisa do cliente Redis.
func (c Config) UsesRedis() bool {
	return c.SessionStore == "redis" || c.EventTransport == TransportRedis
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch strings.ToLower(os.Getenv(k)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	if dur, err := time.ParseDuration(os.Getenv(k)); err == nil {
		return dur
	}
	return d
}

func envList(k string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(k), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
