// Package mailer is the outbound notification sink. The passcode issuer
// treats delivery as best-effort: a send failure is logged by the caller and
// never rolls back issuance.
package mailer

import "context"

// Mailer delivers a plain-text message to a destination address.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
