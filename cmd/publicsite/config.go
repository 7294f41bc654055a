package main

import (
	"fmt"
	"time"
)

const (
	sourceHTTP     = "http"
	sourcePostgres = "postgres"
)

type appConfig struct {
	AppEnv          string        `env:"APP_ENV" envDefault:"development"`
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"publicsite"`
	TranslationsDir string        `env:"TRANSLATIONS_DIR"`
	ConfigSource    string        `env:"CONFIG_SOURCE" envDefault:"http"`
	PrefetchTenants []string      `env:"PREFETCH_TENANTS" envSeparator:","`
	WaitTimeout     time.Duration `env:"PAGE_WAIT_TIMEOUT" envDefault:"10s"`
	PreferenceTTL   time.Duration `env:"PREFERENCE_TTL" envDefault:"8760h"`

	// TenantHostSuffix serves tenants on subdomains of this suffix, e.g. ".menu.example".
	TenantHostSuffix string `env:"TENANT_HOST_SUFFIX"`
}

func (c appConfig) Validate() error {
	switch c.ConfigSource {
	case sourceHTTP, sourcePostgres:
		return nil
	default:
		return fmt.Errorf("CONFIG_SOURCE must be %q or %q, got %q", sourceHTTP, sourcePostgres, c.ConfigSource)
	}
}
