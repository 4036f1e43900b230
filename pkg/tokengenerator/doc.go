// Package tokengenerator issues and validates the HS256 session tokens
// handed to clients in the "jwt" cookie.
//
// JwtTokenGenerator is stateless apart from its signing secret. TokenService
// adds the revocation check against a bannedtoken.BannedTokenStore and the
// atomic validate-and-revoke used by logout.
package tokengenerator
