package domain

// SessionToken is a signed session token as presented by a client.
type SessionToken struct {
	secret
}

func NewSessionToken(raw string) SessionToken {
	return SessionToken{secret{value: raw}}
}

func (t SessionToken) IsZero() bool {
	return t.value == ""
}
