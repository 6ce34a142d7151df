// Package utils provides small helpers shared across the relay: secret
// masking for logs and API responses, and environment lookups with defaults.
package utils

import "os"

// MaskKey renders an API key safe for logs and client responses. Short keys
// are fully masked; longer keys keep the first and last four characters so a
// user can recognize which key is stored without the secret leaking.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// GetEnvWithDefault retrieves an environment variable or returns a default
// value if not set.
func GetEnvWithDefault(name, defaultValue string) string {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue
	}
	return value
}
