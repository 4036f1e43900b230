// Package twofa stores pending email 2FA challenges.
//
// Each email has at most one live challenge: a login attempt id plus the
// six-digit code that was mailed out. Adding a challenge replaces whatever was
// pending for that email, which is how a fresh login invalidates an older,
// unanswered one. ConsumeCode checks both values and deletes the challenge in
// one step so a code can be used once.
//
// Backends:
//   - InMemoryTwoFACodeStore: map guarded by a RWMutex
//   - FileTwoFACodeStore: JSON file in a data directory
//   - RedisTwoFACodeStore: one key per email with a TTL
package twofa
