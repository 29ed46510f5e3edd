package model

import "time"

// Passcode is a short-lived single-use verification code bound to a username.
// A passcode is either unused or used; used is terminal. At most one unused
// passcode exists per username at any instant: issuing a new one retires the
// previous one first. Rows are never deleted, keeping an audit trail.
type Passcode struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Code      string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the passcode's validity window has passed at t.
func (p *Passcode) Expired(t time.Time) bool {
	return !p.ExpiresAt.After(t)
}
