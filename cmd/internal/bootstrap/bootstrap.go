// Package bootstrap builds the container for the Lambda entry points.
package bootstrap

import (
	"context"
	"log"

	"ecnelisfly/infrastructure/config"
	"ecnelisfly/infrastructure/di"
)

// MustContainer loads configuration and wires the container, exiting on failure
func MustContainer() *di.Container {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	container, err := di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	return container
}
