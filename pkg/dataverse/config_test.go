package dataverse_test

import (
	"testing"
	"time"

	"github.com/dynamics-go/dataverse/pkg/dataverse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *dataverse.Config {
	return &dataverse.Config{
		APIURL:       "https://org.api.crm4.dynamics.com/api/data/v9.1",
		TokenURL:     "https://login.microsoftonline.com/tenant/oauth2/token",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Scope:        []string{"https://org.crm4.dynamics.com/.default"},
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, validConfig().Validate())
	})

	t.Run("resource instead of scope", func(t *testing.T) {
		t.Parallel()

		config := validConfig()
		config.Scope = nil
		config.Resource = "https://org.crm4.dynamics.com"

		require.NoError(t, config.Validate())
	})

	tests := []struct {
		name     string
		mutate   func(*dataverse.Config)
		expected error
	}{
		{"missing api url", func(c *dataverse.Config) { c.APIURL = "" }, dataverse.ErrAPIURLRequired},
		{"missing token url", func(c *dataverse.Config) { c.TokenURL = "" }, dataverse.ErrTokenURLRequired},
		{"missing client id", func(c *dataverse.Config) { c.ClientID = "" }, dataverse.ErrClientCredentialsNeeded},
		{"missing client secret", func(c *dataverse.Config) { c.ClientSecret = "" }, dataverse.ErrClientCredentialsNeeded},
		{
			"missing scope and resource",
			func(c *dataverse.Config) { c.Scope = nil },
			dataverse.ErrScopeOrResourceRequired,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			config := validConfig()
			tt.mutate(config)
			require.ErrorIs(t, config.Validate(), tt.expected)
		})
	}
}

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("DYNAMICS_API_URL", "https://org.api.crm4.dynamics.com/api/data/v9.1")
	t.Setenv("DYNAMICS_TOKEN_URL", "https://login.microsoftonline.com/tenant/oauth2/token")
	t.Setenv("DYNAMICS_CLIENT_ID", "client-id")
	t.Setenv("DYNAMICS_CLIENT_SECRET", "client-secret")
	t.Setenv("DYNAMICS_SCOPE", "https://org.crm4.dynamics.com/.default")
	t.Setenv("DYNAMICS_RESOURCE", "")
	t.Setenv("DYNAMICS_CACHE_TOKEN", "")
	t.Setenv("DYNAMICS_CONNECTION_TIMEOUT", "")
}

func TestNewConfigFromEnv(t *testing.T) {
	setRequiredEnv(t)

	config, err := dataverse.NewConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://org.api.crm4.dynamics.com/api/data/v9.1", config.APIURL)
	assert.Equal(t, "client-id", config.ClientID)
	assert.Equal(t, []string{"https://org.crm4.dynamics.com/.default"}, config.Scope)
	assert.True(t, config.CacheToken)
	assert.Zero(t, config.ConnectionTimeout)
	require.NoError(t, config.Validate())
}

func TestNewConfigFromEnv_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DYNAMICS_CLIENT_SECRET", "")

	_, err := dataverse.NewConfigFromEnv()
	require.ErrorIs(t, err, dataverse.ErrMissingEnv)
	assert.Contains(t, err.Error(), "DYNAMICS_CLIENT_SECRET")
}

func TestNewConfigFromEnv_ScopeSplitting(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DYNAMICS_SCOPE", "scope one, scope two ,, scope three")

	config, err := dataverse.NewConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"scope one", "scope two", "scope three"}, config.Scope)
}

func TestNewConfigFromEnv_ScopeOrResource(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DYNAMICS_SCOPE", "")

	_, err := dataverse.NewConfigFromEnv()
	require.ErrorIs(t, err, dataverse.ErrScopeOrResourceRequired)

	t.Setenv("DYNAMICS_RESOURCE", "https://org.crm4.dynamics.com")

	config, err := dataverse.NewConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://org.crm4.dynamics.com", config.Resource)
}

func TestNewConfigFromEnv_CacheToken(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DYNAMICS_CACHE_TOKEN", "0")

	config, err := dataverse.NewConfigFromEnv()
	require.NoError(t, err)
	assert.False(t, config.CacheToken)
}

func TestNewConfigFromEnv_ConnectionTimeout(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DYNAMICS_CONNECTION_TIMEOUT", "30")

	config, err := dataverse.NewConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, config.ConnectionTimeout)

	t.Setenv("DYNAMICS_CONNECTION_TIMEOUT", "thirty")

	_, err = dataverse.NewConfigFromEnv()
	require.Error(t, err)
}
