// Package env reads ad-hoc process environment overrides that sit
// outside the structured terminal configuration, such as the log output
// format toggle.
package env

import "os"

// Get returns the named environment variable, or the fallback when it is
// unset or blank.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
