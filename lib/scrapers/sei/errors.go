package sei

import (
	"fmt"
	"strings"
)

// TransportError wraps a network-level failure (connection, timeout, 4xx/5xx
// after transport retries). Callers may retry a whole run on it; the scraper
// itself never retries a category.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AuthenticationError means the portal rejected the credentials or the
// account is locked. Fatal, never retried.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// UnitNotFoundError means the configured unit does not exist among the units
// available to the authenticated user. A configuration problem, fatal.
type UnitNotFoundError struct {
	Unit      string
	Available []string
}

func (e *UnitNotFoundError) Error() string {
	return fmt.Sprintf(
		"unit %q not found, available units: %s",
		e.Unit, strings.Join(e.Available, ", "),
	)
}

// LayoutChangedError means an expected structural marker is gone from the
// portal's markup, so the page (and the whole category) is unreadable.
type LayoutChangedError struct {
	Marker string
}

func (e *LayoutChangedError) Error() string {
	return fmt.Sprintf("portal layout changed: marker %q not found", e.Marker)
}
