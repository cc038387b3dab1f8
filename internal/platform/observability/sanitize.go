package observability

import (
	"strings"
	"unicode"
)

// Length caps for request log fields. Route patterns are the longest value we
// log; anything past these sizes is either malformed input or an attempt to
// smuggle content into the log stream.
const (
	maxRouteLen  = 180
	maxMethodLen = 10
	maxActorLen  = 64
	maxFieldLen  = 256
)

// sanitizeString drops control characters (newlines included, so one request
// produces one log line) and truncates to the given cap.
func sanitizeString(value string, limit int) string {
	if limit <= 0 {
		limit = maxFieldLen
	}
	value = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
	if len(value) > limit {
		value = value[:limit]
	}
	return value
}

// SanitizeRoute caps route patterns; an empty pattern logs as "/".
func SanitizeRoute(route string) string {
	if route == "" {
		return "/"
	}
	return sanitizeString(route, maxRouteLen)
}

// SanitizeMethod caps HTTP method names. Anything longer than a standard verb
// is not a method worth logging verbatim.
func SanitizeMethod(method string) string {
	return sanitizeString(method, maxMethodLen)
}

// SanitizeActor caps the acting staff email recorded on request logs.
func SanitizeActor(actor string) string {
	return sanitizeString(actor, maxActorLen)
}
