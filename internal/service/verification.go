package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitwise74/portal-api/internal/metrics"
	"bitwise74/portal-api/internal/store"

	"go.uber.org/zap"
)

type VerifyOutcome int

const (
	Verified VerifyOutcome = iota
	// VerifiedWelcomeFailed means the account is verified but the welcome
	// mail couldn't be delivered
	VerifiedWelcomeFailed
)

func (o VerifyOutcome) String() string {
	if o == VerifiedWelcomeFailed {
		return "verified_welcome_failed"
	}

	return "verified"
}

type Verifier struct {
	repo     store.Repository
	mailer   Mailer
	attempts AttemptLimiter

	now func() time.Time
}

// NewVerifier creates a verifier. attempts may be nil to disable the guess
// limit
func NewVerifier(repo store.Repository, mailer Mailer, attempts AttemptLimiter) *Verifier {
	return &Verifier{
		repo:     repo,
		mailer:   mailer,
		attempts: attempts,
		now:      time.Now,
	}
}

// Verify checks code against the one stored for accountID. On a match the
// account is marked verified, its code cleared and its email subscribed in a
// single transaction. The welcome mail is sent after the commit and its
// failure never undoes the verification.
func (v *Verifier) Verify(ctx context.Context, accountID, code string) (out VerifyOutcome, err error) {
	defer func() {
		label := outcome(err)
		if err == nil {
			label = out.String()
		}
		metrics.Verifications.WithLabelValues(label).Inc()
	}()

	if accountID == "" || code == "" {
		return 0, newError(ErrValidation, "Missing user ID or verification code")
	}

	// The attempt is counted before the code is looked at, a guess that
	// loses the race for the last slot is refused without reaching the store
	if v.attempts != nil {
		ok, err := v.attempts.Take(ctx, accountID)
		if err != nil {
			return 0, fmt.Errorf("failed to count verification attempt, %w", err)
		}

		if !ok {
			zap.L().Debug("Verification locked for account", zap.String("accountID", accountID))
			return 0, newError(ErrTooManyAttempts, "Too many invalid verification attempts, please try again later")
		}
	}

	var email *string

	err = v.repo.Transaction(ctx, func(tx store.Repository) error {
		acc, err := tx.Accounts().FindByID(ctx, accountID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return newError(ErrNotFound, "User not found")
			}

			return fmt.Errorf("failed to get account, %w", err)
		}

		if acc.VerificationCode == nil || *acc.VerificationCode != code {
			return newError(ErrCodeMismatch, "Invalid verification code")
		}

		now := v.now()
		acc.VerifiedAt = &now
		acc.VerificationCode = nil

		if err := tx.Accounts().Update(ctx, acc); err != nil {
			return fmt.Errorf("failed to mark account verified, %w", err)
		}

		if acc.Email == nil {
			return nil
		}

		email = acc.Email

		_, err = tx.Subscribers().FindByEmail(ctx, *acc.Email)
		if err == nil {
			return nil
		}

		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("failed to look up subscriber, %w", err)
		}

		if err := tx.Subscribers().Create(ctx, *acc.Email); err != nil {
			return fmt.Errorf("failed to create subscriber, %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	if v.attempts != nil {
		if err := v.attempts.Reset(ctx, accountID); err != nil {
			zap.L().Error("Failed to reset verification attempts", zap.Error(err), zap.String("accountID", accountID))
		}
	}

	if email == nil {
		return Verified, nil
	}

	if err := v.mailer.SendRegistrationEmail(*email); err != nil {
		zap.L().Warn("Failed to send welcome email", zap.Error(err), zap.String("accountID", accountID))
		return VerifiedWelcomeFailed, nil
	}

	return Verified, nil
}
