package main

import (
	"context"
	"errors"
	"insta-marketplace/cache"
	"insta-marketplace/config"
	"insta-marketplace/controllers"
	"insta-marketplace/middleware"
	"insta-marketplace/repository"
	"insta-marketplace/routes"
	"insta-marketplace/storage"
	"insta-marketplace/utils"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

type stores struct {
	customers repository.CustomerRepository
	sellers   repository.SellerRepository
	products  repository.ProductRepository
	close     func(context.Context) error
}

func openStores(ctx context.Context, conf *config.Config) (*stores, error) {
	if conf.MongoDBConfig.Driver == "memory" {
		mem := repository.NewMemoryStore()
		return &stores{
			customers: mem.Customers(),
			sellers:   mem.Sellers(),
			products:  mem.Products(),
			close:     func(context.Context) error { return nil },
		}, nil
	}

	client, err := utils.ConnectDB(ctx, conf.MongoDBConfig.URI)
	if err != nil {
		return nil, err
	}
	db := client.Database(conf.MongoDBConfig.Database)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}
	return &stores{
		customers: repository.NewMongoCustomerRepository(db),
		sellers:   repository.NewMongoSellerRepository(db),
		products:  repository.NewMongoProductRepository(db),
		close:     client.Disconnect,
	}, nil
}

func main() {
	conf, err := config.CreateNewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := utils.NewLogger(conf.LogLevel, conf.IsProduction())

	if conf.UsingDefaultSecret {
		logger.Warn().Msg("JWT_SECRET is not set; using the built-in development secret. Never run like this in production.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openStores(ctx, conf)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", conf.MongoDBConfig.Driver).Msg("cannot open store")
	}
	defer func() {
		if err := db.close(context.Background()); err != nil {
			logger.Error().Err(err).Msg("closing store")
		}
	}()

	disk, err := storage.New(ctx, conf)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot open image storage")
	}
	uploadDir := ""
	if local, ok := disk.(*storage.LocalDisk); ok {
		uploadDir = local.Root()
	}

	catalogCache, err := cache.Connect(ctx, conf.RedisConfig)
	if err != nil {
		logger.Warn().Err(err).Msg("catalog cache disabled")
	}

	var mailer utils.Mailer = utils.NopMailer{}
	if conf.EmailConfig.PostmarkToken != "" {
		mailer = utils.NewEmailService(conf.EmailConfig.PostmarkToken, conf.EmailConfig.Sender)
	}

	tokens := utils.NewTokenService(conf.JWTSecret)
	guard := middleware.NewGuard(tokens, db.sellers, conf.TrustSellerHeader)
	if conf.TrustSellerHeader {
		logger.Warn().Msg("TRUST_SELLER_HEADER is on; my-products accepts an unauthenticated x-seller-id header")
	}

	authController := controllers.NewAuthController(db.customers, db.sellers, tokens, mailer)
	productController := controllers.NewProductController(db.products, db.sellers, disk, catalogCache, conf.StorageConfig.MaxUploadBytes)

	handler := routes.NewHandler(routes.Options{
		Logger:      logger,
		CORSOrigins: conf.CORSOrigins,
		UploadDir:   uploadDir,
	}, authController, productController, guard)

	srv := &http.Server{
		Addr:              ":" + conf.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", conf.Port).Str("env", conf.Environment).Msg("Server is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
