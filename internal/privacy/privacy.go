// Package privacy masks personal data before it leaves the process.
package privacy

import "regexp"

const (
	EmailPlaceholder = "[EMAIL_REDACTED]"
	PhonePlaceholder = "[PHONE_REDACTED]"
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	// +39 02 123 4567, (555) 123-4567, 333.123.4567 and similar
	phonePattern = regexp.MustCompile(`(?:\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
)

// RedactPII replaces e-mail addresses and phone numbers with placeholders.
func RedactPII(text string) string {
	redacted := emailPattern.ReplaceAllString(text, EmailPlaceholder)
	return phonePattern.ReplaceAllString(redacted, PhonePlaceholder)
}
