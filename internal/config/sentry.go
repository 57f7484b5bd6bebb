package config

type Sentry struct {
	// DSN enables error reporting when set
	DSN         string  `env:"DSN,expand"`
	Environment string  `env:"ENVIRONMENT,expand" envDefault:"production"`
	SampleRate  float64 `env:"SAMPLE_RATE,expand" envDefault:"1"`
}
