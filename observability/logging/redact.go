package logging

import (
	"log/slog"
	"sort"
	"strings"
)

// RedactedValue replaces sensitive field values in log output.
const RedactedValue = "[REDACTED]"

// Keys that may appear verbatim in log lines. Everything else carrying a
// value is masked; account keys, aliases and raw call payloads must never
// reach the sink.
var redactionAllowlist = map[string]struct{}{
	"component": {},
	"env":       {},
	"message":   {},
	"network":   {},
	"outcome":   {},
	"selector":  {},
	"service":   {},
	"severity":  {},
	"status":    {},
	"timestamp": {},
	"token":     {},
}

// IsAllowlisted reports whether key is exempt from masking.
func IsAllowlisted(key string) bool {
	_, ok := redactionAllowlist[strings.ToLower(strings.TrimSpace(key))]
	return ok
}

// RedactionAllowlist returns the exempt keys in sorted order. Tests pin the
// list so new fields are masked unless deliberately exempted.
func RedactionAllowlist() []string {
	keys := make([]string, 0, len(redactionAllowlist))
	for key := range redactionAllowlist {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// MaskValue masks value unless it is blank; blank values stay as they are
// so optional fields do not turn into placeholder noise.
func MaskValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return value
	}
	return RedactedValue
}

// MaskField builds a slog attribute, masking the value for keys outside the
// allowlist. The caller's key casing is kept.
func MaskField(key, value string) slog.Attr {
	if strings.TrimSpace(value) == "" || IsAllowlisted(key) {
		return slog.String(key, value)
	}
	return slog.String(key, RedactedValue)
}
