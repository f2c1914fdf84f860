package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"       default:"development"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT"      default:"8080"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"5"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"   default:"5"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name        string `envconfig:"NAME"         default:"purohit"`
		Timezone    string `envconfig:"TIMEZONE"     default:"Asia/Kolkata"`
		FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`
		CORS        struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
		APIKey string `envconfig:"API_KEY"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret     string `envconfig:"ACCESS_SECRET"`
		RefreshSecret    string `envconfig:"REFRESH_SECRET"`
		AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"  default:"60"`
		RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN" default:"10080"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int    `envconfig:"MAX_RETRY"`
			RetryWaitTime  int    `envconfig:"RETRY_WAIT_TIME"`
			MigrationTable string `envconfig:"MIGRATION_TABLE"`
			AutoMigrate    bool   `envconfig:"AUTO_MIGRATE"`
			Prefix         string `envconfig:"PREFIX"`
			Read           struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Username string `envconfig:"USER"`
				Password string `envconfig:"PASSWORD"`
				Name     string `envconfig:"NAME"`
				Timezone string `envconfig:"TIMEZONE"`
				SSLMode  string `envconfig:"SSL_MODE"`
			} `envconfig:"READ"`
			Write struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Username string `envconfig:"USER"`
				Password string `envconfig:"PASSWORD"`
				Name     string `envconfig:"NAME"`
				Timezone string `envconfig:"TIMEZONE"`
				SSLMode  string `envconfig:"SSL_MODE"`
			} `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Access struct {
		ConfirmTimeoutSeconds int `envconfig:"CONFIRM_TIMEOUT_SECONDS" default:"5"`
	} `envconfig:"ACCESS"`

	Booking struct {
		ReferencePrefix   string   `envconfig:"REFERENCE_PREFIX"   default:"BK"`
		HorizonDays       int      `envconfig:"HORIZON_DAYS"       default:"365"`
		PageSize          int      `envconfig:"PAGE_SIZE"          default:"10"`
		DisposableDomains []string `envconfig:"DISPOSABLE_DOMAINS" default:"tempmail.com,mailinator.com,10minutemail.com"`
	} `envconfig:"BOOKING"`

	Notification struct {
		Telegram struct {
			BotToken       string `envconfig:"BOT_TOKEN"`
			ChatID         string `envconfig:"CHAT_ID"`
			BaseURL        string `envconfig:"BASE_URL"        default:"https://api.telegram.org"`
			MaxAttempts    int    `envconfig:"MAX_ATTEMPTS"    default:"3"`
			RetryDelayMs   int    `envconfig:"RETRY_DELAY_MS"  default:"1000"`
			TimeoutSeconds int    `envconfig:"TIMEOUT_SECONDS" default:"10"`
		} `envconfig:"TELEGRAM"`
		Email struct {
			APIKey           string `envconfig:"RESEND_API_KEY"`
			FromEmail        string `envconfig:"FROM_EMAIL"`
			ContactRecipient string `envconfig:"CONTACT_RECIPIENT"`
		} `envconfig:"EMAIL"`
	} `envconfig:"NOTIFICATION"`

	OAuth struct {
		Google struct {
			ClientID        string `envconfig:"CLIENT_ID"`
			ClientSecret    string `envconfig:"CLIENT_SECRET"`
			RedirectURL     string `envconfig:"REDIRECT_URL"`
			StateTTLSeconds int    `envconfig:"STATE_TTL_SECONDS" default:"600"`
		} `envconfig:"GOOGLE"`
	} `envconfig:"OAUTH"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
	} `envconfig:"EXTERNAL"`
}

var loaded = sync.OnceValue(load)

// Get loads .env (when present) and the process environment once. A
// malformed variable is fatal.
func Get() *Config {
	return loaded()
}

func load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded, using process environment")
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to process environment variables")
	}

	log.Info().Str("env", cfg.Server.Env).Msg("Service configuration initialized")

	return cfg
}
