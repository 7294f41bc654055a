package publicconfig

import "time"

// Config holds resolver and fetcher settings loaded from the environment.
type Config struct {
	BaseURL           string        `env:"PUBLIC_CONFIG_BASE_URL" envDefault:"http://localhost:8080/api/public"` // BaseURL of the configuration endpoint, without the trailing tenant path.
	SuccessTTL        time.Duration `env:"PUBLIC_CONFIG_SUCCESS_TTL" envDefault:"5m"`                            // How long a resolved configuration is reused.
	NotFoundTTL       time.Duration `env:"PUBLIC_CONFIG_NOT_FOUND_TTL" envDefault:"5m"`                          // How long a missing tenant is remembered.
	DefaultRetryAfter time.Duration `env:"PUBLIC_CONFIG_DEFAULT_RETRY_AFTER" envDefault:"5m"`                    // Backoff after a 429 without a usable Retry-After header.
	FetchTimeout      time.Duration `env:"PUBLIC_CONFIG_FETCH_TIMEOUT" envDefault:"10s"`                         // Per-request timeout of the HTTP fetcher.
	StoreCapacity     uint64        `env:"PUBLIC_CONFIG_STORE_CAPACITY" envDefault:"0"`                          // Maximum cached tenants, 0 means unbounded.
}
