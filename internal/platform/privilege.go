package platform

import (
	"errors"
	"os"
)

// rootUID is the effective user ID of the superuser.
const rootUID = 0

// ErrPermissionDenied is returned when the process is not running as root.
var ErrPermissionDenied = errors.New("permission denied: run p1-alert as root")

// RequireRoot fails with ErrPermissionDenied unless the effective user is root.
func RequireRoot() error {
	return requireRoot(os.Geteuid)
}

func requireRoot(geteuid func() int) error {
	if geteuid() != rootUID {
		return ErrPermissionDenied
	}

	return nil
}
