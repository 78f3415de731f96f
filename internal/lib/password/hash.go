// Package password хеширует и сверяет пароли учётных записей.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinLength минимальная длина пароля учётной записи.
const MinLength = 8

// ErrTooShort возвращается для паролей короче MinLength.
var ErrTooShort = errors.New("password is too short")

// ErrMismatch возвращается, если пароль не совпал с хешем.
var ErrMismatch = errors.New("password mismatch")

// GetHash возвращает bcrypt-хеш пароля.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	if len(password) < MinLength {
		return "", fmt.Errorf("%s: %w", op, ErrTooShort)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// CompareHash сверяет пароль с хешем. Несовпадение даёт ErrMismatch.
func CompareHash(hash, password string) error {
	const op = "password.CompareHash"
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return fmt.Errorf("%s: %w", op, ErrMismatch)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
