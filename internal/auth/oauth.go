package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dynamics-go/dataverse/pkg/dataverse"
)

// Static errors for err113 compliance.
var (
	ErrTokenURLRequired   = errors.New("token URL is required")
	ErrNoCredentials      = errors.New("no credentials available for token request")
	ErrTokenRequestFailed = errors.New("token request failed")
	ErrEmptyTokenResponse = errors.New("token response contained no access token")
)

// cacheTTLMargin shortens the cached lifetime of a token relative to its
// actual expiry, so a token read from the shared cache always has usable
// life left.
const cacheTTLMargin = 60 * time.Second

const defaultTokenTimeout = 30 * time.Second

// TokenManager provides bearer tokens for Web API requests.
type TokenManager interface {
	// GetToken returns a valid access token, fetching a new one when
	// needed.
	GetToken(ctx context.Context) (string, error)
}

// OAuth2Config configures the client credentials token manager.
type OAuth2Config struct {
	// TokenURL is the OAuth2 token endpoint.
	TokenURL string

	// ClientID and ClientSecret of the app registration.
	ClientID     string
	ClientSecret string

	// Scopes of the token request, joined with spaces on the wire.
	Scopes []string

	// Resource to request the token for, an alternative to Scopes on
	// older endpoints.
	Resource string

	// Timeout bounds each token request. Zero uses a 30 second default.
	Timeout time.Duration
}

// ClientCredentialsManager fetches tokens with the OAuth2 client
// credentials grant. Fetched tokens are reused from an in-process store
// and, when a cache is provided, shared across client instances through
// it.
type ClientCredentialsManager struct {
	config     *OAuth2Config
	store      *TokenStore
	cache      dataverse.Cache
	cacheKey   string
	httpClient *http.Client

	mu sync.Mutex
}

// NewClientCredentialsManager creates a token manager. A nil cache
// disables cross-instance token sharing.
func NewClientCredentialsManager(config *OAuth2Config, cache dataverse.Cache) *ClientCredentialsManager {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTokenTimeout
	}

	if cache == nil {
		cache = dataverse.NewNoOpCache()
	}

	return &ClientCredentialsManager{
		config:     config,
		store:      NewTokenStore(),
		cache:      cache,
		cacheKey:   cacheKey(config),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// cacheKey identifies a token by the credentials that produced it, so
// clients with different credentials never share tokens.
func cacheKey(config *OAuth2Config) string {
	return fmt.Sprintf(
		"client_id=%s|scope=%s|resource=%s",
		config.ClientID,
		strings.Join(config.Scopes, ","),
		config.Resource,
	)
}

// CacheKey returns the key this manager stores its token under.
func (m *ClientCredentialsManager) CacheKey() string {
	return m.cacheKey
}

// GetToken returns a valid access token, reusing the stored or cached
// token when possible.
func (m *ClientCredentialsManager) GetToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	if token := m.cachedToken(ctx); token.Valid() {
		m.store.Set(token)

		return token.AccessToken, nil
	}

	token, err := m.fetchToken(ctx)
	if err != nil {
		return "", err
	}

	m.store.Set(token)
	m.cacheToken(ctx, token)

	return token.AccessToken, nil
}

// RefreshToken discards the current token and fetches a new one.
func (m *ClientCredentialsManager) RefreshToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, err := m.fetchToken(ctx)
	if err != nil {
		return err
	}

	m.store.Set(token)
	m.cacheToken(ctx, token)

	return nil
}

// SetToken injects a token directly, bypassing the token endpoint.
func (m *ClientCredentialsManager) SetToken(accessToken string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store.Set(&Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	})
}

func (m *ClientCredentialsManager) cachedToken(ctx context.Context) *Token {
	entry, err := m.cache.Get(ctx, m.cacheKey)
	if err != nil {
		return nil
	}

	var token Token
	if err := json.Unmarshal(entry.Data, &token); err != nil {
		return nil
	}

	return &token
}

func (m *ClientCredentialsManager) cacheToken(ctx context.Context, token *Token) {
	ttl := time.Duration(token.ExpiresIn)*time.Second - cacheTTLMargin
	if ttl <= 0 {
		return
	}

	data, err := json.Marshal(token)
	if err != nil {
		return
	}

	_ = m.cache.Set(ctx, m.cacheKey, &dataverse.CacheEntry{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	})
}

func (m *ClientCredentialsManager) fetchToken(ctx context.Context) (*Token, error) {
	if m.config.TokenURL == "" {
		return nil, ErrTokenURLRequired
	}

	if m.config.ClientID == "" || m.config.ClientSecret == "" {
		return nil, ErrNoCredentials
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	if len(m.config.Scopes) > 0 {
		form.Set("scope", strings.Join(m.config.Scopes, " "))
	}

	if m.config.Resource != "" {
		form.Set("resource", m.config.Resource)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, m.config.TokenURL, strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(m.config.ClientID, m.config.ClientSecret)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing token request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}

		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			return nil, fmt.Errorf(
				"%w: %s: %s", ErrTokenRequestFailed, errResp.Error, errResp.ErrorDescription,
			)
		}

		return nil, fmt.Errorf("%w: status %d", ErrTokenRequestFailed, resp.StatusCode)
	}

	var token Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}

	if token.AccessToken == "" {
		return nil, ErrEmptyTokenResponse
	}

	if token.ExpiresIn > 0 {
		token.ExpiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}

	return &token, nil
}

// StaticTokenManager serves a fixed token, for tests and pre-issued
// tokens.
type StaticTokenManager struct {
	token string
}

// NewStaticTokenManager creates a token manager serving the given token.
func NewStaticTokenManager(token string) *StaticTokenManager {
	return &StaticTokenManager{token: token}
}

// GetToken returns the fixed token.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	return m.token, nil
}
