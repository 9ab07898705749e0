package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every domain failure unwraps to exactly one of these so the
// transport layer can pick a status code with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("access forbidden")
	ErrNotFound     = errors.New("not found")
)

// Error is a domain failure carrying a message that is safe to return to the
// caller verbatim.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NewValidationError builds an ErrValidation failure with a caller-facing message.
func NewValidationError(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrUserNotFound       = &Error{Kind: ErrNotFound, Message: "User tidak ditemukan."}
	ErrUsernameTaken      = &Error{Kind: ErrConflict, Message: "Username sudah digunakan. Silakan pilih username lain."}
	ErrInvalidCredentials = &Error{Kind: ErrUnauthorized, Message: "Username atau password salah."}
	ErrMissingToken       = &Error{Kind: ErrUnauthorized, Message: "Token tidak valid. Silakan login terlebih dahulu."}
	ErrExpiredToken       = &Error{Kind: ErrUnauthorized, Message: "Token tidak valid atau sudah kadaluarsa."}
	ErrAdminOnly          = &Error{Kind: ErrForbidden, Message: "Akses ditolak. Hanya admin yang diizinkan."}
	ErrOrderForbidden     = &Error{Kind: ErrForbidden, Message: "Anda tidak memiliki akses ke pesanan ini."}
	ErrOrderNotFound      = &Error{Kind: ErrNotFound, Message: "Pesanan tidak ditemukan."}
	ErrServiceNotFound    = &Error{Kind: ErrNotFound, Message: "Layanan tidak ditemukan."}
	ErrNothingToUpdate    = &Error{Kind: ErrValidation, Message: "Tidak ada data yang diubah."}
	ErrOrderChanged       = &Error{Kind: ErrConflict, Message: "Pesanan baru saja diubah. Silakan muat ulang dan coba lagi."}
)
