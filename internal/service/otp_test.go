package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vaultapi/internal/common"
	mailerMocks "vaultapi/internal/mailer/mocks"
	"vaultapi/internal/model"
	repoMocks "vaultapi/internal/repository/mocks"
)

var sixDigits = regexp.MustCompile(`^\d{6}$`)

func TestOtpService_Issue(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		username   string
		address    string
		setupMocks func(mRepo *repoMocks.MockPasscodeRepository, mMail *mailerMocks.MockMailer)
		wantErr    error
	}{
		{
			name:     "happy path",
			username: "bob",
			address:  "bob@example.com",
			setupMocks: func(mRepo *repoMocks.MockPasscodeRepository, mMail *mailerMocks.MockMailer) {
				mRepo.On("RetireUnused", ctx, "bob").Return(int64(0), nil)
				mRepo.On("Create", ctx, mock.MatchedBy(func(p *model.Passcode) bool {
					return p.Username == "bob" &&
						sixDigits.MatchString(p.Code) &&
						!p.Used &&
						p.ExpiresAt.Equal(p.CreatedAt.Add(5*time.Minute))
				})).Return(&model.Passcode{ID: "pc-1"}, nil)
				mMail.On("Send", ctx, "bob@example.com", "Your verification code", mock.MatchedBy(func(body string) bool {
					return regexp.MustCompile(`\d{6}`).MatchString(body)
				})).Return(nil)
			},
		},
		{
			name:     "supersedes any previous unused passcode",
			username: "bob",
			address:  "bob@example.com",
			setupMocks: func(mRepo *repoMocks.MockPasscodeRepository, mMail *mailerMocks.MockMailer) {
				mRepo.On("RetireUnused", ctx, "bob").Return(int64(1), nil)
				mRepo.On("Create", ctx, mock.Anything).Return(&model.Passcode{ID: "pc-2"}, nil)
				mMail.On("Send", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
			},
		},
		{
			name:     "delivery failure does not fail issuance",
			username: "bob",
			address:  "bob@example.com",
			setupMocks: func(mRepo *repoMocks.MockPasscodeRepository, mMail *mailerMocks.MockMailer) {
				mRepo.On("RetireUnused", ctx, "bob").Return(int64(0), nil)
				mRepo.On("Create", ctx, mock.Anything).Return(&model.Passcode{ID: "pc-3"}, nil)
				mMail.On("Send", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(errors.New("smtp down"))
			},
		},
		{
			name:       "validation - missing address",
			username:   "bob",
			address:    "",
			setupMocks: func(mRepo *repoMocks.MockPasscodeRepository, mMail *mailerMocks.MockMailer) {},
			wantErr:    common.ErrInvalidInput,
		},
		{
			name:     "retire error aborts issuance",
			username: "bob",
			address:  "bob@example.com",
			setupMocks: func(mRepo *repoMocks.MockPasscodeRepository, mMail *mailerMocks.MockMailer) {
				mRepo.On("RetireUnused", ctx, "bob").Return(int64(0), errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
		{
			name:     "create error aborts issuance",
			username: "bob",
			address:  "bob@example.com",
			setupMocks: func(mRepo *repoMocks.MockPasscodeRepository, mMail *mailerMocks.MockMailer) {
				mRepo.On("RetireUnused", ctx, "bob").Return(int64(0), nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockPasscodeRepository)
			mMail := new(mailerMocks.MockMailer)
			svc := NewOtpService(mRepo, mMail)

			tt.setupMocks(mRepo, mMail)

			err := svc.Issue(ctx, tt.username, tt.address)

			if errors.Is(tt.wantErr, common.ErrInvalidInput) {
				assert.ErrorIs(t, err, tt.wantErr)
			} else if tt.wantErr != nil {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			mRepo.AssertExpectations(t)
			mMail.AssertExpectations(t)
		})
	}
}

func TestOtpService_Verify(t *testing.T) {
	ctx := context.Background()

	active := func() *model.Passcode {
		now := time.Now().UTC()
		return &model.Passcode{
			ID:        "pc-1",
			Username:  "bob",
			Code:      "123456",
			ExpiresAt: now.Add(5 * time.Minute),
			CreatedAt: now,
		}
	}

	tests := []struct {
		name       string
		username   string
		code       string
		setupMocks func(mRepo *repoMocks.MockPasscodeRepository)
		want       bool
		wantErr    bool
	}{
		{
			name:     "happy path",
			username: "bob",
			code:     "123456",
			setupMocks: func(mRepo *repoMocks.MockPasscodeRepository) {
				mRepo.On("FindUnused", ctx, "bob").Return(active(), nil)
				mRepo.On("MarkUsed", ctx, "pc-1").Return(true, nil)
			},
			want: true,
		},
		{
			name:     "lost race - another verification already consumed it",
			username: "bob",
			code:     "123456",
			setupMocks: func(mRepo *repoMocks.MockPasscodeRepository) {
				mRepo.On("FindUnused", ctx, "bob").Return(active(), nil)
				mRepo.On("MarkUsed", ctx, "pc-1").Return(false, nil)
			},
			want: false,
		},
		{
			name:     "wrong code",
			username: "bob",
			code:     "000000",
			setupMocks: func(mRepo *repoMocks.MockPasscodeRepository) {
				mRepo.On("FindUnused", ctx, "bob").Return(active(), nil)
			},
			want: false,
		},
		{
			name:     "expired passcode",
			username: "bob",
			code:     "123456",
			setupMocks: func(mRepo *repoMocks.MockPasscodeRepository) {
				p := active()
				p.ExpiresAt = time.Now().UTC().Add(-time.Second)
				mRepo.On("FindUnused", ctx, "bob").Return(p, nil)
			},
			want: false,
		},
		{
			name:     "no active passcode",
			username: "bob",
			code:     "123456",
			setupMocks: func(mRepo *repoMocks.MockPasscodeRepository) {
				mRepo.On("FindUnused", ctx, "bob").Return(nil, sql.ErrNoRows)
			},
			want: false,
		},
		{
			name:       "empty code",
			username:   "bob",
			code:       "",
			setupMocks: func(mRepo *repoMocks.MockPasscodeRepository) {},
			want:       false,
		},
		{
			name:     "repository error",
			username: "bob",
			code:     "123456",
			setupMocks: func(mRepo *repoMocks.MockPasscodeRepository) {
				mRepo.On("FindUnused", ctx, "bob").Return(nil, errors.New("db fail"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockPasscodeRepository)
			svc := NewOtpService(mRepo, new(mailerMocks.MockMailer))

			tt.setupMocks(mRepo)

			got, err := svc.Verify(ctx, tt.username, tt.code)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			mRepo.AssertExpectations(t)
		})
	}
}

// Concurrent issues for the same username must run their retire-then-create
// sections one at a time.
func TestOtpService_Issue_Serialized(t *testing.T) {
	ctx := context.Background()

	var mu sync.Mutex
	inCritical := 0
	maxInCritical := 0

	enter := func() {
		mu.Lock()
		inCritical++
		if inCritical > maxInCritical {
			maxInCritical = inCritical
		}
		mu.Unlock()
	}
	leave := func() {
		mu.Lock()
		inCritical--
		mu.Unlock()
	}

	mRepo := new(repoMocks.MockPasscodeRepository)
	mRepo.On("RetireUnused", ctx, "bob").
		Run(func(mock.Arguments) {
			enter()
			time.Sleep(time.Millisecond)
		}).
		Return(int64(0), nil)
	mRepo.On("Create", ctx, mock.Anything).
		Run(func(mock.Arguments) { leave() }).
		Return(&model.Passcode{}, nil)

	mMail := new(mailerMocks.MockMailer)
	mMail.On("Send", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewOtpService(mRepo, mMail)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, svc.Issue(ctx, "bob", "bob@example.com"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInCritical)
}

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		assert.Regexp(t, sixDigits, code)
		seen[code] = true
	}
	// 50 draws from a million values collide with negligible probability.
	assert.Greater(t, len(seen), 1)
}
