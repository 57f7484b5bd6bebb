package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestParseDefaults(t *testing.T) {
	conf, err := Parse()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 24*time.Hour, conf.Dispatcher.Horizon; e != g {
		t.Errorf("conf.Dispatcher.Horizon: expected '%v', got '%v'", e, g)
	}

	if e, g := "Europe/Paris", conf.Dispatcher.Timezone; e != g {
		t.Errorf("conf.Dispatcher.Timezone: expected '%v', got '%v'", e, g)
	}

	if e, g := "", conf.Dispatcher.Webhook.URL; e != g {
		t.Errorf("conf.Dispatcher.Webhook.URL: expected '%v', got '%v'", e, g)
	}

	if e, g := true, conf.Dispatcher.Lock.Enabled; e != g {
		t.Errorf("conf.Dispatcher.Lock.Enabled: expected '%v', got '%v'", e, g)
	}

	if e, g := 0xE67E22, conf.Dispatcher.Webhook.Color; e != g {
		t.Errorf("conf.Dispatcher.Webhook.Color: expected '%v', got '%v'", e, g)
	}

	if e, g := 10*time.Second, conf.Dispatcher.MarkTimeout; e != g {
		t.Errorf("conf.Dispatcher.MarkTimeout: expected '%v', got '%v'", e, g)
	}

	if e, g := false, conf.Dispatcher.RecipientCache.Enabled; e != g {
		t.Errorf("conf.Dispatcher.RecipientCache.Enabled: expected '%v', got '%v'", e, g)
	}

	if e, g := "data.sqlite", conf.Storage.Database.DSN; e != g {
		t.Errorf("conf.Storage.Database.DSN: expected '%v', got '%v'", e, g)
	}

	if e, g := slog.LevelInfo, conf.Logger.Level; e != g {
		t.Errorf("conf.Logger.Level: expected '%v', got '%v'", e, g)
	}
}

func TestParseEnvironment(t *testing.T) {
	t.Setenv("MONTAGE_DISPATCHER_WEBHOOK_URL", "https://discord.com/api/webhooks/1/token")
	t.Setenv("MONTAGE_DISPATCHER_HORIZON", "48h")
	t.Setenv("MONTAGE_DISPATCHER_LOCK_ENABLED", "false")
	t.Setenv("MONTAGE_HTTP_CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("MONTAGE_LOGGER_LEVEL", "debug")
	t.Setenv("MONTAGE_DISPATCHER_WEBHOOK_COLOR", "3447003")
	t.Setenv("MONTAGE_DISPATCHER_MARK_TIMEOUT", "3s")

	conf, err := Parse()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := "https://discord.com/api/webhooks/1/token", conf.Dispatcher.Webhook.URL; e != g {
		t.Errorf("conf.Dispatcher.Webhook.URL: expected '%v', got '%v'", e, g)
	}

	if e, g := 48*time.Hour, conf.Dispatcher.Horizon; e != g {
		t.Errorf("conf.Dispatcher.Horizon: expected '%v', got '%v'", e, g)
	}

	if e, g := false, conf.Dispatcher.Lock.Enabled; e != g {
		t.Errorf("conf.Dispatcher.Lock.Enabled: expected '%v', got '%v'", e, g)
	}

	if e, g := 2, len(conf.HTTP.CORS.AllowedOrigins); e != g {
		t.Errorf("len(conf.HTTP.CORS.AllowedOrigins): expected '%v', got '%v'", e, g)
	}

	if e, g := 0x3498DB, conf.Dispatcher.Webhook.Color; e != g {
		t.Errorf("conf.Dispatcher.Webhook.Color: expected '%v', got '%v'", e, g)
	}

	if e, g := 3*time.Second, conf.Dispatcher.MarkTimeout; e != g {
		t.Errorf("conf.Dispatcher.MarkTimeout: expected '%v', got '%v'", e, g)
	}

	if e, g := slog.LevelDebug, conf.Logger.Level; e != g {
		t.Errorf("conf.Logger.Level: expected '%v', got '%v'", e, g)
	}
}

func TestParseInvalid(t *testing.T) {
	type testCase struct {
		Name  string
		Key   string
		Value string
	}

	testCases := []testCase{
		{Name: "negative horizon", Key: "MONTAGE_DISPATCHER_HORIZON", Value: "-1h"},
		{Name: "zero horizon", Key: "MONTAGE_DISPATCHER_HORIZON", Value: "0s"},
		{Name: "unknown timezone", Key: "MONTAGE_DISPATCHER_TIMEZONE", Value: "Mars/Olympus_Mons"},
		{Name: "zero burst", Key: "MONTAGE_DISPATCHER_RATE_LIMIT_BURST", Value: "0"},
		{Name: "negative retries", Key: "MONTAGE_DISPATCHER_DELIVERY_MAX_RETRIES", Value: "-1"},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			t.Setenv(tc.Key, tc.Value)

			if _, err := Parse(); err == nil {
				t.Errorf("expected error for %s='%s', got nil", tc.Key, tc.Value)
			}
		})
	}
}
