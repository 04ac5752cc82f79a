package client

import (
	"fmt"
	"os"
	"os/user"

	domain "github.com/oshokin/p1-alert/internal/domain/alert"
)

// detectActor gathers host and user information for the service's audit log.
func detectActor() (*domain.Actor, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	return &domain.Actor{
		Hostname: hostname,
		Username: currentUser.Username,
	}, nil
}
