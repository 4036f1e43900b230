package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	TwoFACodeLength = 6
	minTwoFACode    = 100000
	maxTwoFACode    = 999999
)

// TwoFACode is the one-time numeric code mailed to the user.
type TwoFACode struct {
	secret
}

// ParseTwoFACode accepts exactly six ASCII digits in the range 100000-999999.
func ParseTwoFACode(raw string) (TwoFACode, error) {
	if len(raw) != TwoFACodeLength {
		return TwoFACode{}, ErrInvalidTwoFACode
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return TwoFACode{}, ErrInvalidTwoFACode
		}
	}
	if raw[0] == '0' {
		return TwoFACode{}, ErrInvalidTwoFACode
	}
	return TwoFACode{secret{value: raw}}, nil
}

// NewTwoFACode draws a uniformly random code from crypto/rand.
func NewTwoFACode() (TwoFACode, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(maxTwoFACode-minTwoFACode+1))
	if err != nil {
		return TwoFACode{}, fmt.Errorf("failed to generate 2FA code: %w", err)
	}
	return TwoFACode{secret{value: fmt.Sprintf("%06d", n.Int64()+minTwoFACode)}}, nil
}

// Equal compares two codes in constant time.
func (c TwoFACode) Equal(other TwoFACode) bool {
	return c.equal(other.secret)
}
