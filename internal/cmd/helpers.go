package cmd

import (
	"fmt"

	"github.com/summ-dev/summ/internal/client"
	"github.com/summ-dev/summ/internal/config"
)

// newClient loads the configuration and builds a daemon client.
func newClient() (*client.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}
	return client.New(cfg), cfg, nil
}
