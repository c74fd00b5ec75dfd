package auth

import "github.com/inkwell-api/inkwell/internal/apierr"

var (
	// ErrInvalidCredentials is returned for an unknown email, a wrong password or a disabled account.
	ErrInvalidCredentials = apierr.New(apierr.ErrUnauthenticated, "Invalid email or password.")
	// ErrInvalidToken is returned when a bearer or refresh token can not be verified.
	ErrInvalidToken = apierr.New(apierr.ErrUnauthenticated, "Token is invalid or expired.")
	// ErrInvalidOldPassword is returned when the provided old password does not match the current one.
	ErrInvalidOldPassword = apierr.New(apierr.ErrValidation, "Old password is incorrect.")
	// ErrInvalidResetLink is returned when the uid of a reset link does not decode to a user.
	ErrInvalidResetLink = apierr.New(apierr.ErrValidation, "Invalid reset link.")
	// ErrExpiredResetLink is returned when the reset token is forged, expired or already used.
	ErrExpiredResetLink = apierr.New(apierr.ErrValidation, "Invalid or expired reset link.")
	// ErrPasswordTooShort is returned for passwords shorter than MinPasswordLen.
	ErrPasswordTooShort = apierr.New(apierr.ErrValidation, "Ensure password has at least 8 characters.")
)
