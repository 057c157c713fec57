package cmd

import (
	"fmt"

	"github.com/reviewdrip/reviewdrip/pkg/sessions"
)

// NewSessionStore picks the funnel session store. An empty URL means the
// in-process store, anything else is treated as a Redis URL.
func NewSessionStore(redisURL string) (sessions.Store, error) {
	if redisURL == "" {
		return sessions.NewMemoryStore(), nil
	}

	store, err := sessions.NewRedisStore(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis session store: %w", err)
	}

	return store, nil
}
