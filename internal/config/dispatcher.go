package config

import "time"

type Dispatcher struct {
	Webhook Webhook `envPrefix:"WEBHOOK_"`

	// BaseURL is the root of the deep links to the project workspaces
	BaseURL       string        `env:"BASE_URL,expand"`
	Horizon       time.Duration `env:"HORIZON,expand" envDefault:"24h"`
	Timezone      string        `env:"TIMEZONE,expand" envDefault:"Europe/Paris"`
	DateLayout    string        `env:"DATE_LAYOUT,expand" envDefault:"Mon 02 Jan 2006, 15:04 MST"`
	MentionFormat string        `env:"MENTION_FORMAT,expand" envDefault:"<@%s>"`

	// ScheduleInterval enables the in-process scheduler when positive
	ScheduleInterval time.Duration `env:"SCHEDULE_INTERVAL,expand" envDefault:"0"`
	RunTimeout       time.Duration `env:"RUN_TIMEOUT,expand" envDefault:"5m"`

	// MarkTimeout bounds the ledger write following a delivery
	MarkTimeout time.Duration `env:"MARK_TIMEOUT,expand" envDefault:"10s"`

	Lock           Lock           `envPrefix:"LOCK_"`
	RateLimit      RateLimit      `envPrefix:"RATE_LIMIT_"`
	Delivery       Delivery       `envPrefix:"DELIVERY_"`
	RecipientCache RecipientCache `envPrefix:"RECIPIENT_CACHE_"`
}

type Webhook struct {
	// URL is the delivery destination. Dispatching without it is a
	// configuration error.
	URL        string        `env:"URL,expand"`
	Username   string        `env:"USERNAME,expand" envDefault:"Montage"`
	AvatarURL  string        `env:"AVATAR_URL,expand"`
	Footer     string        `env:"FOOTER,expand" envDefault:"Montage deadline reminder"`
	Color      int           `env:"COLOR,expand" envDefault:"15105570"`
	Timeout    time.Duration `env:"TIMEOUT,expand" envDefault:"10s"`
	MaxRetries int           `env:"MAX_RETRIES,expand" envDefault:"3"`
}

type Lock struct {
	Enabled bool          `env:"ENABLED,expand" envDefault:"true"`
	TTL     time.Duration `env:"TTL,expand" envDefault:"10m"`
}

type RateLimit struct {
	Enabled  bool          `env:"ENABLED,expand" envDefault:"true"`
	Interval time.Duration `env:"INTERVAL,expand" envDefault:"500ms"`
	Burst    int           `env:"BURST,expand" envDefault:"5"`
}

type Delivery struct {
	MaxRetries int           `env:"MAX_RETRIES,expand" envDefault:"2"`
	BaseDelay  time.Duration `env:"BASE_DELAY,expand" envDefault:"1s"`
}

// RecipientCache does not see profile edits made outside of montage. Keep
// its TTL below the schedule interval when enabling it.
type RecipientCache struct {
	Enabled bool          `env:"ENABLED,expand" envDefault:"false"`
	Size    int           `env:"SIZE,expand" envDefault:"1000"`
	TTL     time.Duration `env:"TTL,expand" envDefault:"5m"`
}
