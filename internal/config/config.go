package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"

	SinkLog   = "log"
	SinkKafka = "kafka"
)

type Config struct {
	HTTPPort           string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
	CORSAllowedOrigins []string
	LogLevel           string

	Store   StoreConfig
	Cache   CacheConfig
	Payment PaymentConfig
	Notify  NotifyConfig
}

type StoreConfig struct {
	Driver         string
	Timeout        time.Duration
	SQLitePath     string
	DBHost         string
	DBPort         int
	DBUser         string
	DBPassword     string
	DBName         string
	MigrationsPath string
	MongoURI       string
	MongoDBName    string
}

// CacheConfig configures the recent-orders cache. An empty RedisAddr disables it.
type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	TTL           time.Duration
}

type PaymentConfig struct {
	PayeeID   string
	PayeeName string
	// BaseURL is where customers find payment instructions for an order.
	BaseURL string
}

type NotifyConfig struct {
	Sink         string
	EmailFrom    string
	KafkaBrokers []string
	Topic        string
	GroupID      string
	Workers      int
	QueueSize    int
	Timeout      time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "8000")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("MAX_REQUEST_BODY_SIZE", 1<<20)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("STORE_DRIVER", DriverSQLite)
	v.SetDefault("STORE_TIMEOUT", "5s")
	v.SetDefault("SQLITE_PATH", "stringart.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "stringart")
	v.SetDefault("MIGRATIONS_PATH", "")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB_NAME", "stringart")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("CACHE_TTL", "15m")

	v.SetDefault("UPI_ID", "stringart@upi")
	v.SetDefault("PAYEE_NAME", "StringArt")
	v.SetDefault("PAYMENT_BASE_URL", "https://stringart.in")

	v.SetDefault("NOTIFY_SINK", SinkLog)
	v.SetDefault("EMAIL_FROM", "StringArt <orders@stringart.in>")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("NOTIFY_TOPIC", "order-notifications")
	v.SetDefault("NOTIFY_GROUP_ID", "stringart-notifier")
	v.SetDefault("NOTIFY_WORKERS", 2)
	v.SetDefault("NOTIFY_QUEUE_SIZE", 100)
	v.SetDefault("NOTIFY_TIMEOUT", "10s")
}

// Load reads configuration from the environment, optionally layered over the
// file named by CONFIG_FILE.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	var errs []string
	duration := func(key string) time.Duration {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Sprintf("%s: invalid duration %q", key, v.GetString(key)))
		}
		return d
	}

	cfg := &Config{
		HTTPPort:           v.GetString("HTTP_PORT"),
		RequestTimeout:     duration("REQUEST_TIMEOUT"),
		ShutdownTimeout:    duration("SHUTDOWN_TIMEOUT"),
		MaxRequestBodySize: v.GetInt64("MAX_REQUEST_BODY_SIZE"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		LogLevel:           v.GetString("LOG_LEVEL"),
		Store: StoreConfig{
			Driver:         strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
			Timeout:        duration("STORE_TIMEOUT"),
			SQLitePath:     v.GetString("SQLITE_PATH"),
			DBHost:         v.GetString("DB_HOST"),
			DBPort:         v.GetInt("DB_PORT"),
			DBUser:         v.GetString("DB_USER"),
			DBPassword:     v.GetString("DB_PASSWORD"),
			DBName:         v.GetString("DB_NAME"),
			MigrationsPath: v.GetString("MIGRATIONS_PATH"),
			MongoURI:       v.GetString("MONGO_URI"),
			MongoDBName:    v.GetString("MONGO_DB_NAME"),
		},
		Cache: CacheConfig{
			RedisAddr:     v.GetString("REDIS_ADDR"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			TTL:           duration("CACHE_TTL"),
		},
		Payment: PaymentConfig{
			PayeeID:   v.GetString("UPI_ID"),
			PayeeName: v.GetString("PAYEE_NAME"),
			BaseURL:   strings.TrimRight(v.GetString("PAYMENT_BASE_URL"), "/"),
		},
		Notify: NotifyConfig{
			Sink:         strings.ToLower(strings.TrimSpace(v.GetString("NOTIFY_SINK"))),
			EmailFrom:    v.GetString("EMAIL_FROM"),
			KafkaBrokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:        v.GetString("NOTIFY_TOPIC"),
			GroupID:      v.GetString("NOTIFY_GROUP_ID"),
			Workers:      v.GetInt("NOTIFY_WORKERS"),
			QueueSize:    v.GetInt("NOTIFY_QUEUE_SIZE"),
			Timeout:      duration("NOTIFY_TIMEOUT"),
		},
	}

	switch cfg.Store.Driver {
	case DriverSQLite, DriverPostgres, DriverMongo:
	default:
		errs = append(errs, fmt.Sprintf("STORE_DRIVER: unsupported driver %q", cfg.Store.Driver))
	}
	switch cfg.Notify.Sink {
	case SinkLog, SinkKafka:
	default:
		errs = append(errs, fmt.Sprintf("NOTIFY_SINK: unsupported sink %q", cfg.Notify.Sink))
	}
	if cfg.Notify.Workers <= 0 {
		errs = append(errs, "NOTIFY_WORKERS: must be positive")
	}
	if cfg.Notify.QueueSize <= 0 {
		errs = append(errs, "NOTIFY_QUEUE_SIZE: must be positive")
	}
	if cfg.Store.MigrationsPath == "" {
		cfg.Store.MigrationsPath = "./internal/repository/migrations/" + migrationsDir(cfg.Store.Driver)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func migrationsDir(driver string) string {
	if driver == DriverPostgres {
		return "postgres"
	}
	return "sqlite"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
