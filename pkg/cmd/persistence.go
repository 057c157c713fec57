// Package cmd provides shared construction helpers for the service binaries.
package cmd

import (
	"strings"

	"github.com/reviewdrip/reviewdrip/pkg/persistence"
	"github.com/reviewdrip/reviewdrip/pkg/persistence/file"
)

var supportedPersistenceProviders = []string{"file", "postgresql", "mongodb"}

func NewPersistence(databaseURL string) persistence.Persistence {
	provider := parsePersistenceProvider(databaseURL)

	switch provider {
	// case "postgresql":
	// 	return postgres.NewPersistence(databaseURL)
	// case "mongodb":
	// 	return mongodb.NewPersistence(databaseURL)
	default:
		return file.NewPersistence(databaseURL)
	}
}

func parsePersistenceProvider(databaseURL string) string {
	parts := strings.Split(databaseURL, "://")

	provider := parts[0]
	for _, supported := range supportedPersistenceProviders {
		if provider == supported {
			return provider
		}
	}

	return "file"
}
