// Package env reads process environment variables with fallbacks.
package env

import "os"

// Get returns the value of key, or def when the variable is unset or empty.
func Get(key, def string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	return v
}
