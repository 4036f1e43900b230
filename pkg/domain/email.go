package domain

import (
	"encoding/json"
	"strings"
)

// MinEmailLength is the shortest address accepted; "t@t.com" is too short.
const MinEmailLength = 8

// Email is a normalized email address. It is the key of every per-user store.
type Email struct {
	value string
}

// ParseEmail trims and lower-cases raw and checks that it has exactly one "@"
// with a non-empty local part and a dotted domain.
func ParseEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if len(normalized) < MinEmailLength {
		return Email{}, ErrInvalidEmail
	}
	if strings.Count(normalized, "@") != 1 {
		return Email{}, ErrInvalidEmail
	}

	local, host, _ := strings.Cut(normalized, "@")
	if local == "" || !strings.Contains(host, ".") {
		return Email{}, ErrInvalidEmail
	}
	if strings.HasPrefix(host, ".") || strings.HasSuffix(host, ".") {
		return Email{}, ErrInvalidEmail
	}
	if strings.ContainsAny(normalized, " \t\r\n") {
		return Email{}, ErrInvalidEmail
	}

	return Email{value: normalized}, nil
}

// MustParseEmail is ParseEmail for constants and tests. It panics on invalid input.
func MustParseEmail(raw string) Email {
	e, err := ParseEmail(raw)
	if err != nil {
		panic(err)
	}
	return e
}

func (e Email) String() string {
	return e.value
}

// IsZero reports whether e was never parsed.
func (e Email) IsZero() bool {
	return e.value == ""
}

func (e Email) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.value)
}

func (e *Email) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseEmail(raw)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
