package config

import (
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"storefront/utils"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverBolt     = "bolt"
)

type Config struct {
	Port         string
	AllowOrigins string

	StoreDriver   string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string
	BoltPath      string

	ProductListMax int

	AuthJWTSecret string

	AssetDir      string
	PublicBaseURL string

	PaymentAPIURL      string
	PaymentAPIKey      string
	CheckoutSuccessURL string
	CheckoutCancelURL  string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SupportInbox string
	SupportFrom  string

	LogMode string
	LogFile string
}

// Load reads an optional .env file and then the process environment.
// A missing .env is fine; an unreadable one is not.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Wrap(err, "load .env")
	}

	cfg := Config{
		Port:         env("PORT", "8080"),
		AllowOrigins: env("ALLOW_ORIGINS", "http://127.0.0.1:5500,http://localhost:5500,http://localhost:3000"),

		StoreDriver:   strings.ToLower(env("STORE_DRIVER", DriverBolt)),
		DatabaseURL:   env("DATABASE_URL", ""),
		MongoURI:      env("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: env("MONGO_DATABASE", "storefront"),
		BoltPath:      env("BOLT_PATH", "storefront.db"),

		ProductListMax: intEnv("PRODUCT_LIST_MAX", 48),

		AuthJWTSecret: env("AUTH_JWT_SECRET", ""),

		AssetDir:      env("ASSET_DIR", "./static/assets"),
		PublicBaseURL: strings.TrimRight(env("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),

		PaymentAPIURL:      strings.TrimRight(env("PAYMENT_API_URL", ""), "/"),
		PaymentAPIKey:      env("PAYMENT_API_KEY", ""),
		CheckoutSuccessURL: env("CHECKOUT_SUCCESS_URL", "http://localhost:3000/checkout/success"),
		CheckoutCancelURL:  env("CHECKOUT_CANCEL_URL", "http://localhost:3000/cart"),

		SMTPHost:     env("SMTP_HOST", ""),
		SMTPPort:     intEnv("SMTP_PORT", 587),
		SMTPUser:     env("SMTP_USER", ""),
		SMTPPassword: env("SMTP_PASSWORD", ""),
		SupportInbox: env("SUPPORT_INBOX", ""),
		SupportFrom:  env("SUPPORT_FROM", "no-reply@localhost"),

		LogMode: env("LOG_MODE", "development"),
		LogFile: env("LOG_FILE", ""),
	}

	switch cfg.StoreDriver {
	case DriverPostgres, DriverMongo, DriverBolt:
	default:
		return Config{}, errors.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.StoreDriver == DriverPostgres && cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required for the postgres driver")
	}
	if cfg.SMTPHost != "" && cfg.SupportInbox == "" {
		return Config{}, errors.New("SUPPORT_INBOX is required when SMTP_HOST is set")
	}
	if cfg.ProductListMax < 1 {
		cfg.ProductListMax = 48
	}
	return cfg, nil
}

func env(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func intEnv(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := utils.DecimalInt(raw)
	if err != nil {
		return def
	}
	return n
}
