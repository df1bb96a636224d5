package respond

import (
	"regexp"
)

var (
	// Credentials embedded in connection strings (DSN).
	dsnPasswordPattern = regexp.MustCompile(`://([^:/@]+):([^@]+)@`)

	// Generic bearer tokens in error text.
	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._-]+`)
)

// SanitizeError returns the error message with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = dsnPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	msg = bearerPattern.ReplaceAllString(msg, "Bearer ****")
	return msg
}
