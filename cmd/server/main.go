package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/mockshop/internal/config"
	"github.com/Skotchmaster/mockshop/internal/httpserver"
	"github.com/Skotchmaster/mockshop/internal/middleware"
	"github.com/Skotchmaster/mockshop/internal/payment"
	"github.com/Skotchmaster/mockshop/internal/repo"
	"github.com/Skotchmaster/mockshop/internal/service"
	"github.com/Skotchmaster/mockshop/pkg/db"
	"github.com/Skotchmaster/mockshop/pkg/lock"
	"github.com/Skotchmaster/mockshop/pkg/logging"
	"github.com/Skotchmaster/mockshop/pkg/mykafka"
	"github.com/Skotchmaster/mockshop/pkg/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	conn, err := db.Open(initCtx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db init error: %v", err)
	}
	store := repo.New(conn)
	err = store.Migrate(initCtx)
	cancel()
	if err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	var events mykafka.Publisher = mykafka.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		prod, err := mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		events = prod
	}

	var (
		locker lock.Locker = lock.NewKeyedMutex()
		rdb    *redis.Client
	)
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			log.Fatalf("redis ping: %v", err)
		}
		locker = lock.NewRedisLocker(rdb, cfg.CartLockTTL)
	}

	ts, err := tokens.NewService(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}

	var processor payment.Processor
	if cfg.StripeSecretKey != "" {
		sp, err := payment.NewStripe(cfg.StripeSecretKey)
		if err != nil {
			log.Fatalf("stripe: %v", err)
		}
		processor = sp
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, payment intents will fail")
	}

	e := httpserver.New(logger, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: &service.AuthService{
			Users: store, Tokens: ts, Hasher: service.Bcrypt{}, Events: events,
		}},
		CartHandler: &httpserver.CartHTTP{Svc: &service.CartService{
			Store: store, Locker: locker, Events: events,
		}},
		UsersHandler: &httpserver.UsersHTTP{Svc: &service.UserService{
			Users: store, Carts: store, Locker: locker, Events: events,
		}},
		PaymentHandler: &httpserver.PaymentHTTP{
			Bridge: payment.NewBridge(processor, cfg.PaymentAmount, cfg.PaymentCurrency, cfg.PaymentTimeout),
		},
		Guard: middleware.NewBearerAuth(ts, store),
		Ready: func(ctx context.Context) error { return db.Ping(ctx, conn) },
	})

	go func() {
		logger.Info("starting server", "port", cfg.Port, "db_driver", cfg.DBDriver)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}
	if err := events.Close(); err != nil {
		logger.Error("kafka close", "error", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := db.Close(conn); err != nil {
		logger.Error("db close", "error", err)
	}

	logger.Info("server stopped")
}
