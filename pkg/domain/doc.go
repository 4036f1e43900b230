// Package domain holds the validated value types shared by the auth service:
// Email, Password, LoginAttemptID, TwoFACode, SessionToken and the User aggregate.
//
// Every type is constructed through a Parse or New function and is immutable
// afterwards. Secret-carrying types (Password, TwoFACode, SessionToken) never
// print their value through fmt, encoding/json or log/slog; call Expose to get
// the raw string.
package domain
