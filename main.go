package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"storefront/catalog"
	"storefront/config"
	"storefront/controllers"
	"storefront/logger"
	"storefront/middleware"
	"storefront/notify"
	"storefront/objectstore"
	"storefront/payment"
	"storefront/routes"
	"storefront/store"
	"storefront/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("load config", zap.Error(err))
	}
	log, err := logger.Init(cfg.LogMode, cfg.LogFile)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal("open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.Warn("close store", zap.Error(err))
		}
	}()

	bucket, err := objectstore.NewDiskBucket(cfg.AssetDir, cfg.PublicBaseURL, "/assets")
	if err != nil {
		log.Fatal("open asset bucket", zap.Error(err))
	}

	if cfg.AuthJWTSecret == "" {
		log.Warn("AUTH_JWT_SECRET is empty, admin endpoints will reject every token")
	}
	verifier := utils.NewJWTVerifier(cfg.AuthJWTSecret)

	var notifier notify.TicketNotifier = notify.Nop{Log: log}
	if cfg.SMTPHost != "" {
		notifier = notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SupportFrom, cfg.SupportInbox)
	}

	h := controllers.New(controllers.Deps{
		Products:           catalog.NewReader(st, cfg.ProductListMax, log),
		Tickets:            st,
		Settings:           st,
		Bucket:             bucket,
		Gateway:            payment.NewHostedGateway(cfg.PaymentAPIURL, cfg.PaymentAPIKey),
		Notifier:           notifier,
		Health:             st,
		Verifier:           verifier,
		CheckoutSuccessURL: cfg.CheckoutSuccessURL,
		CheckoutCancelURL:  cfg.CheckoutCancelURL,
		Log:                log,
	})

	json := jsoniter.ConfigCompatibleWithStandardLibrary
	app := fiber.New(fiber.Config{
		AppName:      "storefront",
		BodyLimit:    25 << 20,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Set-Cookie",
		AllowCredentials: true,
	}))

	routes.RegisterRoutes(app, h, verifier, bucket.Handler())

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
	}()

	log.Info("listening", zap.String("port", cfg.Port), zap.String("driver", st.Driver()))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("listen", zap.Error(err))
	}
}
