package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	DatabaseURL string `env:"DATABASE_URL"`

	Pos  Pos  `envPrefix:"POS_"`
	Sync Sync `envPrefix:"SYNC_"`
}

type Pos struct {
	BaseApiURL  string `env:"BASE_API_URL"`
	AccessToken string `env:"ACCESS_TOKEN"`
	APIVersion  string `env:"API_VERSION" envDefault:"2024-06-04"`

	// Webhook signatures are computed over NotificationURL + raw body,
	// so this must be the exact URL registered with the provider.
	WebhookSecret   string `env:"WEBHOOK_SECRET"`
	NotificationURL string `env:"NOTIFICATION_URL"`
}

type Sync struct {
	PageSize int `env:"PAGE_SIZE" envDefault:"100"`
	// pause between consecutive requests, jitter added on top
	PageDelay           time.Duration `env:"PAGE_DELAY" envDefault:"350ms"`
	BackoffBase         time.Duration `env:"BACKOFF_BASE" envDefault:"1s"`
	MaxRateRetries      int           `env:"MAX_RATE_RETRIES" envDefault:"5"`
	MaxTransportRetries int           `env:"MAX_TRANSPORT_RETRIES" envDefault:"2"`
	WindowDays          int           `env:"WINDOW_DAYS" envDefault:"30"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host        string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port        string `env:"HTTP_PORT" envDefault:"8080"`
	WebhookRate string `env:"WEBHOOK_RATE" envDefault:"120-M"`
}
