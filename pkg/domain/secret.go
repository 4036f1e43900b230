package domain

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
)

const redacted = "[REDACTED]"

// secret is embedded by every type whose value must not leak through
// fmt, encoding/json or log/slog.
type secret struct {
	value string
}

func (s secret) String() string {
	return redacted
}

func (s secret) GoString() string {
	return redacted
}

func (s secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(redacted)
}

func (s secret) LogValue() slog.Value {
	return slog.StringValue(redacted)
}

// Expose returns the raw value.
func (s secret) Expose() string {
	return s.value
}

func (s secret) equal(other secret) bool {
	return subtle.ConstantTimeCompare([]byte(s.value), []byte(other.value)) == 1
}
