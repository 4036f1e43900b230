// Package notification delivers outbound email.
//
// EmailClient is the only contract the rest of the service depends on.
// SMTPEmailClient sends through an SMTP relay using go-mail; MockEmailClient
// records messages in memory for tests and local development.
package notification
