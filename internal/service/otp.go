package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"

	"vaultapi/internal/common"
	"vaultapi/internal/mailer"
	"vaultapi/internal/model"
	"vaultapi/internal/repository"
)

// passcodeTTL is the validity window of an issued passcode.
const passcodeTTL = 5 * time.Minute

// OtpService issues and verifies short-lived single-use passcodes bound to a
// username. A passcode moves from unused to used exactly once, either on a
// successful verification or when a newer issuance supersedes it.
type OtpService interface {
	// Issue retires any unused passcode for the username, creates a fresh
	// 6-digit code valid for five minutes, and dispatches it to
	// deliveryAddress. Delivery is best-effort: a send failure is logged and
	// the passcode stays issued.
	Issue(ctx context.Context, username, deliveryAddress string) error

	// Verify reports whether code matches the username's current unused
	// passcode and it has not expired. On success the passcode is atomically
	// marked used; a second verification of the same code returns false.
	// An absent active passcode is not an error, just false.
	Verify(ctx context.Context, username, code string) (bool, error)
}

type otpService struct {
	repo  repository.PasscodeRepository
	mail  mailer.Mailer
	locks usernameLocks
}

// NewOtpService constructs a new OtpService.
func NewOtpService(repo repository.PasscodeRepository, mail mailer.Mailer) OtpService {
	return &otpService{repo: repo, mail: mail}
}

func (s *otpService) Issue(ctx context.Context, username, deliveryAddress string) error {
	if username == "" || deliveryAddress == "" {
		return fmt.Errorf("%w: username and delivery address are required", common.ErrInvalidInput)
	}

	// Serialize retire-then-create per username so two concurrent issues
	// cannot leave two simultaneously-unused passcodes.
	unlock := s.locks.lock(username)
	defer unlock()

	if _, err := s.repo.RetireUnused(ctx, username); err != nil {
		return fmt.Errorf("retire previous passcodes: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	now := time.Now().UTC()
	p := &model.Passcode{
		ID:        uuid.New().String(),
		Username:  username,
		Code:      code,
		ExpiresAt: now.Add(passcodeTTL),
		Used:      false,
		CreatedAt: now,
	}
	if _, err := s.repo.Create(ctx, p); err != nil {
		return fmt.Errorf("create passcode: %w", err)
	}

	body := fmt.Sprintf("Your verification code: %s\nThis code expires in %d minutes.", code, int(passcodeTTL.Minutes()))
	if err := s.mail.Send(ctx, deliveryAddress, "Your verification code", body); err != nil {
		// The passcode is considered issued even if delivery fails.
		log.Printf("passcode delivery failed for %s: %v", username, err)
	}
	return nil
}

func (s *otpService) Verify(ctx context.Context, username, code string) (bool, error) {
	if username == "" || code == "" {
		return false, nil
	}

	p, err := s.repo.FindUnused(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("find passcode: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(p.Code), []byte(code)) != 1 {
		return false, nil
	}
	if p.Expired(time.Now().UTC()) {
		return false, nil
	}

	// Conditional transition at the storage layer: of two concurrent
	// verifications, exactly one observes the unused row.
	ok, err := s.repo.MarkUsed(ctx, p.ID)
	if err != nil {
		return false, fmt.Errorf("mark passcode used: %w", err)
	}
	return ok, nil
}

// generateCode draws a uniformly random zero-padded 6-digit numeric string.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// usernameLocks hands out one mutex per username. Entries are never removed;
// the map is bounded by the number of distinct usernames requesting codes.
type usernameLocks struct {
	m sync.Map
}

func (l *usernameLocks) lock(username string) func() {
	v, _ := l.m.LoadOrStore(username, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
