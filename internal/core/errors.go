package core

import "errors"

var (
	ErrMissingEntryPoint    = errors.New("figure entry point not found")
	ErrPortUnavailable      = errors.New("server port unavailable")
	ErrRenderTargetNotFound = errors.New("render target element not found")
	ErrNavigationTimeout    = errors.New("navigation to preview timed out")
	ErrSerialization        = errors.New("figure options are not serializable")
)

// IsTransient reports whether err comes from the environment (server or
// browser readiness) rather than from the figure or its configuration.
func IsTransient(err error) bool {
	return errors.Is(err, ErrNavigationTimeout) || errors.Is(err, ErrPortUnavailable)
}
