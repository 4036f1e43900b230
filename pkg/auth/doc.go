// Package auth implements the signup, login, 2FA verification, logout and
// token verification flows.
//
// AuthService owns no state. It composes a user store, a 2FA code store, an
// email client and a token service, all injected at construction, so every
// backend combination behaves the same.
//
// # Login
//
// A login first validates the email and password. Users without 2FA receive a
// session token straight away. Users with 2FA get a fresh login attempt id
// while a six-digit code is stored and mailed to them; the session is issued
// only after VerifyTwoFA presents the matching attempt id and code.
// Starting a new login replaces any pending code for that email.
//
//	service := auth.NewAuthService(users, codes, tokens, emailClient, hasher)
//
//	result, err := service.Login(ctx, auth.LoginRequest{Email: email, Password: pw})
//	if err != nil {
//		// errors.MapErrorCodeToHTTPStatus(errors.GetCode(err))
//	}
//	if result.RequiresTwoFA {
//		session, err := service.VerifyTwoFA(ctx, auth.VerifyTwoFARequest{
//			Email:          email,
//			LoginAttemptID: result.LoginAttemptID.String(),
//			TwoFACode:      codeFromEmail,
//		})
//	}
//
// # Errors
//
// Every error returned is an *errors.Error. Malformed email or password on
// login collapses into ErrInvalidCredentials whichever field was wrong, and a
// wrong password is reported the same way as an unknown user.
package auth
