package domain

// User is created at signup and never changes afterwards. PasswordHash is
// whatever the configured password hasher produced.
type User struct {
	email        Email
	passwordHash string
	requires2FA  bool
}

func NewUser(email Email, passwordHash string, requires2FA bool) User {
	return User{
		email:        email,
		passwordHash: passwordHash,
		requires2FA:  requires2FA,
	}
}

func (u User) Email() Email {
	return u.email
}

func (u User) PasswordHash() string {
	return u.passwordHash
}

func (u User) Requires2FA() bool {
	return u.requires2FA
}
