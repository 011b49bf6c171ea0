package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitwise74/portal-api/internal/metrics"
	"bitwise74/portal-api/internal/model"
	"bitwise74/portal-api/internal/store"
	"bitwise74/portal-api/pkg/security"
	"bitwise74/portal-api/pkg/validators"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

type RegisterStatus string

const (
	StatusCodeSent   RegisterStatus = "Verification code sent successfully"
	StatusRegistered RegisterStatus = "User registered successfully"
)

type RegisterResult struct {
	Status    RegisterStatus
	AccountID string
	Kind      validators.IdentifierKind
}

// Registrar reconciles a signup request with whatever account already exists
// for the identifier
type Registrar struct {
	repo   store.Repository
	hasher security.PasswordHasher
	codes  security.CodeGenerator
	mailer Mailer

	newID func() (string, error)
	now   func() time.Time
}

func NewRegistrar(repo store.Repository, hasher security.PasswordHasher, codes security.CodeGenerator, mailer Mailer) *Registrar {
	return &Registrar{
		repo:   repo,
		hasher: hasher,
		codes:  codes,
		mailer: mailer,
		newID:  func() (string, error) { return gonanoid.Generate(idCharset, 16) },
		now:    time.Now,
	}
}

// Register creates an account for a never seen identifier, refreshes an
// unverified one or rejects a verified one. Email identifiers get a fresh
// verification code, mailed once the account and code are committed. If the
// mail can't be delivered the code is cleared again and an internal error is
// returned, signing up again issues a new one.
func (r *Registrar) Register(ctx context.Context, name, identifier, password string) (res *RegisterResult, err error) {
	defer func() { metrics.Registrations.WithLabelValues(outcome(err)).Inc() }()

	if name == "" || identifier == "" || password == "" {
		return nil, newError(ErrValidation, "Missing name, email, or password")
	}

	kind, err := validators.IdentifierValidator(identifier)
	if err != nil {
		return nil, newError(ErrValidation, "Invalid email or phone number format")
	}

	if err := validators.PasswordValidator(password); err != nil {
		return nil, newError(ErrValidation, err.Error())
	}

	hash, err := r.hasher.GenerateFromPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password, %w", err)
	}

	var (
		acc  *model.Account
		code *string
	)

	err = r.repo.Transaction(ctx, func(tx store.Repository) error {
		accounts := tx.Accounts()

		existing, err := lookup(ctx, accounts, kind, identifier)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("failed to look up account, %w", err)
		}

		// Phone accounts are verified at creation, so only rows left
		// unverified by an older flow reach the refresh path below
		if existing != nil && existing.Verified() {
			return newError(ErrConflict, "User is already registered")
		}

		if kind == validators.Email {
			c, err := r.codes.Generate()
			if err != nil {
				return fmt.Errorf("failed to generate verification code, %w", err)
			}
			code = &c
		}

		now := r.now()

		if existing == nil {
			id, err := r.newID()
			if err != nil {
				return fmt.Errorf("failed to generate account ID, %w", err)
			}

			acc = &model.Account{
				ID:               id,
				Name:             name,
				PasswordHash:     hash,
				Role:             model.RoleUser,
				VerificationCode: code,
			}

			if kind == validators.Email {
				acc.Email = &identifier
			} else {
				acc.Phone = &identifier
				acc.VerifiedAt = &now
			}

			if err := accounts.Create(ctx, acc); err != nil {
				if errors.Is(err, store.ErrDuplicate) {
					return newError(ErrConflict, "User is already registered")
				}

				return fmt.Errorf("failed to create account, %w", err)
			}
		} else {
			acc = existing
			acc.Name = name
			acc.PasswordHash = hash
			acc.VerificationCode = code

			if kind == validators.Email {
				acc.VerifiedAt = nil
			} else if acc.VerifiedAt == nil {
				acc.VerifiedAt = &now
			}

			if err := accounts.Update(ctx, acc); err != nil {
				return fmt.Errorf("failed to update account, %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	res = &RegisterResult{
		Status:    StatusRegistered,
		AccountID: acc.ID,
		Kind:      kind,
	}

	if kind == validators.Email {
		if err := r.mailer.SendVerificationEmail(identifier, *code); err != nil {
			// The request may already be cancelled, the cleanup still has to land
			cerr := r.repo.Accounts().ClearCode(context.WithoutCancel(ctx), acc.ID, *code)
			if cerr != nil {
				zap.L().Error("Failed to clear undelivered verification code", zap.Error(cerr), zap.String("accountID", acc.ID))
			}

			return nil, fmt.Errorf("failed to send verification email, %w", err)
		}

		res.Status = StatusCodeSent
	}

	zap.L().Debug("Account registered",
		zap.String("accountID", res.AccountID),
		zap.Stringer("kind", res.Kind))

	return res, nil
}

func lookup(ctx context.Context, accounts store.AccountStore, kind validators.IdentifierKind, identifier string) (*model.Account, error) {
	if kind == validators.Email {
		return accounts.FindByEmail(ctx, identifier)
	}

	return accounts.FindByPhone(ctx, identifier)
}

// outcome turns an error into a metrics label
func outcome(err error) string {
	var se *Error
	if err == nil {
		return "ok"
	}

	if !errors.As(err, &se) {
		return "internal"
	}

	switch se.Kind {
	case ErrValidation:
		return "validation"
	case ErrConflict:
		return "conflict"
	case ErrNotFound:
		return "not_found"
	case ErrCodeMismatch:
		return "mismatch"
	case ErrTooManyAttempts:
		return "locked"
	case ErrUnauthorized:
		return "unauthorized"
	case ErrUnverified:
		return "unverified"
	}

	return "internal"
}
