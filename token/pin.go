package token

import "errors"

// PIN length bounds enforced before any hardware call.
const (
	MinPINLength = 4
	MaxPINLength = 16
)

// Common PIN validation errors. The messages never echo PIN material.
var (
	ErrPINTooShort     = errors.New("PIN is too short")
	ErrPINTooLong      = errors.New("PIN is too long")
	ErrPINInvalidChars = errors.New("PIN must contain only letters and digits")
)

// ValidatePIN checks PIN shape without touching the token: length 4-16 and
// ASCII alphanumeric characters only. The PIN itself is never copied into
// an error or log record.
func ValidatePIN(pin []byte) error {
	if len(pin) < MinPINLength {
		return ErrPINTooShort
	}
	if len(pin) > MaxPINLength {
		return ErrPINTooLong
	}
	for _, c := range pin {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		default:
			return ErrPINInvalidChars
		}
	}
	return nil
}

// WipePIN zeroes a PIN buffer. Callers defer this on every path that read
// a PIN so it cannot outlive the operation that used it.
func WipePIN(pin []byte) {
	for i := range pin {
		pin[i] = 0
	}
}
