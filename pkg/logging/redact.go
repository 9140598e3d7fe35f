package logging

import (
	"net/http"
	"regexp"
)

// Redacted replaces secret material in log output.
const Redacted = "[REDACTED]"

// sensitiveHeaders are request headers whose values must never be logged.
var sensitiveHeaders = []string{"Authorization", "X-Api-Authorization"}

var clientSecretPattern = regexp.MustCompile(`(client_secret=)[^&\s"]*`)

// RedactHeaders returns a copy of the given headers with credential-bearing
// values masked. The original header map is not modified.
func RedactHeaders(h http.Header) http.Header {
	clone := h.Clone()
	for _, name := range sensitiveHeaders {
		if clone.Get(name) != "" {
			clone.Set(name, Redacted)
		}
	}
	return clone
}

// RedactBody masks client_secret values in form-encoded or logged bodies.
func RedactBody(body string) string {
	return clientSecretPattern.ReplaceAllString(body, "${1}"+Redacted)
}
