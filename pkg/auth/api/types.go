package api

// Required fields are pointers so that an absent key can be told apart
// from an empty value.

type SignupRequest struct {
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	Requires2FA *bool   `json:"requires2FA"`
}

type LoginRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type VerifyTwoFARequest struct {
	Email          *string `json:"email"`
	LoginAttemptID *string `json:"loginAttemptId"`
	TwoFACode      *string `json:"2FACode"`
}

type VerifyTokenRequest struct {
	Token *string `json:"token"`
}

// MessageResponse is the body of signup and plain success responses
type MessageResponse struct {
	Message string `json:"message"`
}

// TwoFactorAuthResponse is returned with 206 when the login needs a code
type TwoFactorAuthResponse struct {
	Message        string `json:"message"`
	LoginAttemptID string `json:"loginAttemptId"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
