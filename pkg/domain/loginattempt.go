package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// LoginAttemptID correlates a password-verified login with its pending 2FA challenge.
type LoginAttemptID struct {
	value string
}

// ParseLoginAttemptID accepts any syntactically valid UUID and stores its canonical form.
func ParseLoginAttemptID(raw string) (LoginAttemptID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return LoginAttemptID{}, ErrInvalidLoginAttemptID
	}
	return LoginAttemptID{value: id.String()}, nil
}

// NewLoginAttemptID returns a fresh random (v4) attempt id.
func NewLoginAttemptID() LoginAttemptID {
	return LoginAttemptID{value: uuid.NewString()}
}

func (id LoginAttemptID) String() string {
	return id.value
}

func (id LoginAttemptID) IsZero() bool {
	return id.value == ""
}

func (id LoginAttemptID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

func (id *LoginAttemptID) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseLoginAttemptID(raw)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
