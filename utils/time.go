// Package utils holds the logger and clock helpers shared across the generator.
package utils

import (
	"time"
)

// UTCNow returns the current time in UTC
func UTCNow() time.Time {
	return time.Now().UTC()
}

// UnixNow returns the current Unix time in seconds, as reported by the status server
func UnixNow() int64 {
	return UTCNow().Unix()
}
