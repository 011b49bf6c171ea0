// Package security contains everything related to the security of user data
package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher produces salted one-way hashes. Only the encoded hash is ever
// stored
type PasswordHasher interface {
	GenerateFromPassword(p string) (string, error)
	VerifyPasswd(p, encoded string) (bool, error)
}

// NewHasher returns the hasher configured by name. bcrypt is the default
func NewHasher(kind string, bcryptCost int) (PasswordHasher, error) {
	switch kind {
	case "", "bcrypt":
		return NewBcrypt(bcryptCost), nil
	case "argon2id":
		return NewArgon(), nil
	}

	return nil, fmt.Errorf("unknown password hash %q", kind)
}

type BcryptHash struct {
	Cost int
}

// NewBcrypt falls back to cost 10 when cost is out of bcrypt's range
func NewBcrypt(cost int) *BcryptHash {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = 10
	}

	return &BcryptHash{Cost: cost}
}

func (b *BcryptHash) GenerateFromPassword(p string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(p), b.Cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

func (b *BcryptHash) VerifyPasswd(p, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(p))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}
