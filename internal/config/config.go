package config // package config loads application configuration from environment variables

import (
	"log" // log is used to report configuration errors and halt execution
	"os"  // os provides access to environment variables
	"strings"
	"time"

	"github.com/joho/godotenv" // loads a local .env file into the environment
)

// Storage backends for persisted client storage.
const (
	StorageRedis  = "redis"
	StorageMySQL  = "mysql"
	StorageMemory = "memory"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env        string // application environment (e.g. "dev", "prod")
	Port       string // HTTP port to listen on
	AppName    string // shown in the navigation shell
	AppVersion string // shown in the navigation shell

	APIBaseURL   string // REST backend every service talks to
	ClientSecret string // signs the client cookie and seals persisted values

	CookieName   string        // name of the client identity cookie
	CookieSecure bool          // set the Secure flag on the cookie
	CookieTTL    time.Duration // lifetime of the client identity cookie
	SessionIdle  time.Duration // in-memory sessions idle longer than this are dropped

	StorageBackend string        // redis | mysql | memory
	StoragePrefix  string        // redis hash key prefix
	StorageTTL     time.Duration // redis expiry of persisted client storage, 0 keeps forever

	RedisAddr        string // host:port of the Redis server
	RedisPassword    string // optional
	RedisDB          int    // database number
	RedisTLS         bool   // connect over TLS
	RedisTLSInsecure bool   // skip certificate verification (development only)

	DBUser string // database username (mysql backend only)
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	RabbitMQURL  string // broker for session events; empty disables publishing
	AuditLogDir  string // directory the session-audit worker writes to
	OTLPEndpoint string // OTLP gRPC collector; empty disables tracing
	LogLevel     string // debug | info | warn | error
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is loaded first when
// present.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}

	cfg := Config{
		Env:          must("APP_ENV"),      // environment (dev/test/prod)
		Port:         must("APP_PORT"),     // port to bind the HTTP server
		APIBaseURL:   must("API_BASE_URL"), // backend REST API
		ClientSecret: must("CLIENT_SECRET"),

		AppName:    envStr("APP_NAME", "AdSaga Console"),
		AppVersion: envStr("APP_VERSION", "dev"),

		CookieName:   envStr("COOKIE_NAME", "console_client"),
		CookieSecure: envBool("COOKIE_SECURE", false),
		CookieTTL:    envDur("COOKIE_TTL", 30*24*time.Hour),
		SessionIdle:  envDur("SESSION_IDLE_TTL", 2*time.Hour),

		StorageBackend: strings.ToLower(envStr("STORAGE_BACKEND", StorageRedis)),
		StoragePrefix:  envStr("STORAGE_PREFIX", "console:storage"),
		StorageTTL:     envDur("STORAGE_TTL", 0),

		RedisAddr:        redisAddr(),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          envInt("REDIS_DB", 0),
		RedisTLS:         envBool("REDIS_TLS", false),
		RedisTLSInsecure: envBool("REDIS_TLS_INSECURE", false),

		RabbitMQURL:  firstEnv("RABBITMQ_URL", "AMQP_URL"),
		AuditLogDir:  envStr("AUDIT_LOG_DIR", "logs"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		LogLevel:     envStr("LOG_LEVEL", "info"),
	}

	if cfg.StorageBackend == StorageMySQL {
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// redisAddr prefers REDIS_HOST and REDIS_PORT over REDIS_ADDR.
func redisAddr() string {
	host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")
	if host != "" && port != "" {
		return host + ":" + port
	}
	return envStr("REDIS_ADDR", "localhost:6379")
}
