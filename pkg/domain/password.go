package domain

import "unicode/utf8"

const MinPasswordLength = 8

// Password is a candidate plaintext password. It is only ever held long enough
// to be hashed or verified.
type Password struct {
	secret
}

// ParsePassword accepts any string of at least MinPasswordLength characters.
func ParsePassword(raw string) (Password, error) {
	if utf8.RuneCountInString(raw) < MinPasswordLength {
		return Password{}, ErrInvalidPassword
	}
	return Password{secret{value: raw}}, nil
}

// Equal compares two passwords in constant time.
func (p Password) Equal(other Password) bool {
	return p.equal(other.secret)
}
