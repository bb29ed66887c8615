package dvclient_test

import (
	"testing"

	"github.com/dynamics-go/dataverse/pkg/dataverse"
	"github.com/dynamics-go/dataverse/pkg/dvclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		client, err := dvclient.New(&dataverse.Config{
			APIURL:       "https://org.api.crm4.dynamics.com/api/data/v9.1",
			TokenURL:     "https://login.microsoftonline.com/tenant/oauth2/token",
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			Scope:        []string{"https://org.crm4.dynamics.com/.default"},
		})
		require.NoError(t, err)
		assert.NotNil(t, client.Query())
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()

		_, err := dvclient.New(&dataverse.Config{})
		require.ErrorIs(t, err, dataverse.ErrAPIURLRequired)
	})
}
