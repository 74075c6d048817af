package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/mockshop/internal/payment"
	pkgconfig "github.com/Skotchmaster/mockshop/pkg/config"
	"github.com/Skotchmaster/mockshop/pkg/db"
)

type Config struct {
	ServiceName string
	Port        string
	LogLevel    string

	DBDriver    string
	DatabaseURL string

	JWTSecret []byte

	StripeSecretKey string
	PaymentAmount   int64
	PaymentCurrency string
	PaymentTimeout  time.Duration

	KafkaBrokers []string

	RedisAddr     string
	RedisPassword string
	CartLockTTL   time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		slog.Warn("cannot read .env, using process environment", "error", err)
	}

	secret, err := pkgconfig.Require("JWT_SECRET")
	if err != nil {
		return nil, err
	}

	driver := pkgconfig.EnvDefault("DB_DRIVER", db.DriverSQLite)
	if driver != db.DriverSQLite && driver != db.DriverPostgres {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		if driver == db.DriverPostgres {
			return nil, fmt.Errorf("missing required env DATABASE_URL")
		}
		dsn = "mockshop.db"
	}

	return &Config{
		ServiceName: pkgconfig.EnvDefault("SERVICE_NAME", "mockshop"),
		Port:        pkgconfig.EnvDefault("SERVER_PORT", "3001"),
		LogLevel:    pkgconfig.EnvDefault("LOG_LEVEL", "info"),

		DBDriver:    driver,
		DatabaseURL: dsn,

		JWTSecret: []byte(secret),

		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		PaymentAmount:   int64(pkgconfig.EnvIntDefault("PAYMENT_AMOUNT", int(payment.DefaultAmount))),
		PaymentCurrency: pkgconfig.EnvDefault("PAYMENT_CURRENCY", payment.DefaultCurrency),
		PaymentTimeout:  pkgconfig.EnvDurationDefault("PAYMENT_TIMEOUT", payment.DefaultTimeout),

		KafkaBrokers: pkgconfig.CSV(os.Getenv("KAFKA_BROKERS")),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CartLockTTL:   pkgconfig.EnvDurationDefault("CART_LOCK_TTL", 10*time.Second),
	}, nil
}
