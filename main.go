package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"go-storefront/api"
	"go-storefront/config"
	"go-storefront/controllers"
	"go-storefront/middleware"
	"go-storefront/routes"
	"go-storefront/session"
	"go-storefront/utils"
)

func main() {
	log := logrus.New()
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	log.Out = os.Stdout

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	log.Level = cfg.LogLevel

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, closeBackend := mustBackend(ctx, cfg, log)
	defer closeBackend()

	base := api.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.APITimeout}, log)
	reg := session.NewRegistry(base, backend, log)
	go reg.Run(ctx, time.Minute)

	pages, err := controllers.NewPages()
	if err != nil {
		log.WithError(err).Fatal("could not load templates")
	}
	receipts := utils.NewReceiptService(mailer(cfg))

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, routes.Controllers{
		User:    controllers.NewUserController(pages),
		Product: controllers.NewProductController(pages),
		Cart:    controllers.NewCartController(pages),
		Order:   controllers.NewOrderController(pages, receipts),
		Seller:  controllers.NewSellerController(pages),
	}, middleware.NewRateLimiter(cfg.LoginRatePerMinute, 3))

	var handler http.Handler = middleware.WithShopper(reg)(router)
	handler = &middleware.LogHandler{Log: log, Next: handler}
	handler = middleware.EnsureSessionID(handler)
	handler = middleware.SecurityHeaders(handler)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.ListenAddr, "api": cfg.APIBaseURL, "sessions": cfg.SessionStore}).Info("starting storefront")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("could not start server")
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received; shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	log.Info("server stopped cleanly")
}

// mustBackend opens the configured token store and returns a func that closes it
func mustBackend(ctx context.Context, cfg *config.Config, log *logrus.Logger) (session.Backend, func()) {
	switch cfg.SessionStore {
	case config.StoreMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		backend, client, err := session.ConnectMongo(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			log.WithError(err).Fatal("could not connect to MongoDB")
		}
		log.Info("connected to MongoDB")
		return backend, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.WithError(err).Warn("MongoDB disconnect failed")
			}
		}
	case config.StoreRedis:
		conn := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := conn.Ping(pingCtx).Err(); err != nil {
			log.WithError(err).Fatal("could not connect to Redis")
		}
		log.Info("connected to Redis")
		return session.NewRedisBackend(conn, cfg.SessionTTL), func() {
			if err := conn.Close(); err != nil {
				log.WithError(err).Warn("Redis close failed")
			}
		}
	}
	return session.NewMemoryBackend(), func() {}
}

func mailer(cfg *config.Config) utils.Mailer {
	switch cfg.EmailProvider {
	case config.EmailPostmark:
		return utils.NewPostmarkMailer(cfg.PostmarkAPIToken, cfg.EmailSender)
	case config.EmailSendgrid:
		return utils.NewSendgridMailer(cfg.SendgridAPIKey, cfg.EmailSender)
	}
	return nil
}
