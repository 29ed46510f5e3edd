package repository

import (
	"context"

	"vaultapi/internal/model"
)

// PasscodeRepository defines data access for one-time passcodes. Rows are
// never deleted; state only moves from unused to used.
type PasscodeRepository interface {
	// Create inserts a new passcode row and returns the stored row.
	Create(ctx context.Context, p *model.Passcode) (*model.Passcode, error)

	// FindUnused returns the most recent unused passcode for the username,
	// or sql.ErrNoRows if none exists.
	FindUnused(ctx context.Context, username string) (*model.Passcode, error)

	// MarkUsed transitions the passcode to used only if it is still unused.
	// It reports whether this call performed the transition, so a concurrent
	// verify that lost the race observes false.
	MarkUsed(ctx context.Context, id string) (bool, error)

	// RetireUnused marks every unused passcode for the username as used.
	// Returns the number of rows retired.
	RetireUnused(ctx context.Context, username string) (int64, error)
}
