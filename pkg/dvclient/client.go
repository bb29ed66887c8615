// Package dvclient constructs Dataverse Web API clients.
package dvclient

import (
	"github.com/dynamics-go/dataverse/internal/client"
	"github.com/dynamics-go/dataverse/pkg/dataverse"
)

// New creates a Dataverse client from the configuration.
func New(config *dataverse.Config) (dataverse.Client, error) {
	return client.New(config)
}

// NewFromEnv creates a Dataverse client configured from DYNAMICS_*
// environment variables.
func NewFromEnv() (dataverse.Client, error) {
	config, err := dataverse.NewConfigFromEnv()
	if err != nil {
		return nil, err
	}

	return client.New(config)
}
