package config

import "time"

type HTTP struct {
	BaseURL   string        `env:"BASE_URL,expand" envDefault:"/"`
	Address   string        `env:"ADDRESS,expand" envDefault:":3002"`
	CORS      CORS          `envPrefix:"CORS_"`
	Auth      Auth          `envPrefix:"AUTH_"`
	RateLimit HTTPRateLimit `envPrefix:"RATE_LIMIT_"`
}

type CORS struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,expand" envSeparator:","`
}

// Auth protects the API with basic authentication when a username is set.
type Auth struct {
	Username string `env:"USERNAME,expand"`
	Password string `env:"PASSWORD,expand"`
}

type HTTPRateLimit struct {
	Enabled      bool          `env:"ENABLED,expand" envDefault:"true"`
	Interval     time.Duration `env:"INTERVAL,expand" envDefault:"1s"`
	Burst        int           `env:"BURST,expand" envDefault:"10"`
	TrustHeaders bool          `env:"TRUST_HEADERS,expand" envDefault:"false"`
}
