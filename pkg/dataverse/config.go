package dataverse

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrMissingEnv              = errors.New("missing required environment variable")
	ErrAPIURLRequired          = errors.New("API URL is required")
	ErrTokenURLRequired        = errors.New("token URL is required")
	ErrClientCredentialsNeeded = errors.New("client ID and client secret are required")
	ErrScopeOrResourceRequired = errors.New("either scope or resource is required")
)

// DefaultConnectionTimeout is the request timeout used when the
// configuration does not set one.
const DefaultConnectionTimeout = 5 * time.Second

// Config holds the configuration for the Dataverse client.
type Config struct {
	// APIURL is the Web API endpoint root, e.g.
	// "https://org.api.crm4.dynamics.com/api/data/v9.1".
	APIURL string

	// TokenURL is the OAuth2 token endpoint of the app registration.
	TokenURL string

	// ClientID and ClientSecret of the app registration.
	ClientID     string
	ClientSecret string

	// Scope of the token request. Usually "{org_url}/.default".
	Scope []string

	// Resource to request the token for, an alternative to Scope on older
	// endpoints.
	Resource string

	// CacheToken persists fetched tokens in the token cache. Enabled by
	// default through NewConfigFromEnv.
	CacheToken bool

	// TokenCache overrides the token cache backend. Defaults to an
	// in-process memory cache.
	TokenCache Cache

	// ConnectionTimeout bounds each HTTP request. Zero means
	// DefaultConnectionTimeout.
	ConnectionTimeout time.Duration

	// Logger for client diagnostics. Nil disables logging.
	Logger Logger

	// Debug enables request and response logging through Logger.
	Debug bool

	// UserAgent overrides the User-Agent header.
	UserAgent string

	// RetryMax is the number of retries for failed requests. Zero uses the
	// transport default.
	RetryMax int

	// RetryWaitMin and RetryWaitMax bound the retry backoff.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// Validate checks that the configuration can produce a working client.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return ErrAPIURLRequired
	}

	if c.TokenURL == "" {
		return ErrTokenURLRequired
	}

	if c.ClientID == "" || c.ClientSecret == "" {
		return ErrClientCredentialsNeeded
	}

	if len(c.Scope) == 0 && c.Resource == "" {
		return ErrScopeOrResourceRequired
	}

	return nil
}

// NewConfigFromEnv builds a Config from DYNAMICS_* environment variables.
//
// Required: DYNAMICS_API_URL, DYNAMICS_TOKEN_URL, DYNAMICS_CLIENT_ID,
// DYNAMICS_CLIENT_SECRET, and at least one of DYNAMICS_SCOPE
// (comma-separated) or DYNAMICS_RESOURCE.
//
// Optional: DYNAMICS_CACHE_TOKEN ("0" disables token caching) and
// DYNAMICS_CONNECTION_TIMEOUT (seconds).
func NewConfigFromEnv() (*Config, error) {
	config := &Config{CacheToken: true}

	required := []struct {
		name   string
		target *string
	}{
		{"DYNAMICS_API_URL", &config.APIURL},
		{"DYNAMICS_TOKEN_URL", &config.TokenURL},
		{"DYNAMICS_CLIENT_ID", &config.ClientID},
		{"DYNAMICS_CLIENT_SECRET", &config.ClientSecret},
	}

	for _, env := range required {
		value, ok := os.LookupEnv(env.name)
		if !ok || value == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingEnv, env.name)
		}

		*env.target = value
	}

	if scope := os.Getenv("DYNAMICS_SCOPE"); scope != "" {
		for _, part := range strings.Split(scope, ",") {
			if part = strings.TrimSpace(part); part != "" {
				config.Scope = append(config.Scope, part)
			}
		}
	}

	config.Resource = os.Getenv("DYNAMICS_RESOURCE")

	if len(config.Scope) == 0 && config.Resource == "" {
		return nil, ErrScopeOrResourceRequired
	}

	if os.Getenv("DYNAMICS_CACHE_TOKEN") == "0" {
		config.CacheToken = false
	}

	if timeout := os.Getenv("DYNAMICS_CONNECTION_TIMEOUT"); timeout != "" {
		seconds, err := strconv.Atoi(timeout)
		if err != nil {
			return nil, fmt.Errorf("parsing DYNAMICS_CONNECTION_TIMEOUT: %w", err)
		}

		config.ConnectionTimeout = time.Duration(seconds) * time.Second
	}

	return config, nil
}
