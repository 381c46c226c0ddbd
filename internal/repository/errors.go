package repository

import "errors"

var (
	// Common errors
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrHasAssociatedRecords = errors.New("has associated records")
	ErrInvalidTimezone      = errors.New("invalid timezone")
	ErrDuplicateEntry       = errors.New("duplicate entry")

	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrPhoneExists  = errors.New("phone number already registered")

	// Contest errors
	ErrContestNotFound      = errors.New("contest not found")
	ErrWinnerAlreadyChosen  = errors.New("winner already selected")
	ErrNoEntries            = errors.New("contest has no entries")
	ErrMissingOfficialRules = errors.New("contest is missing official rules")

	// OTP errors
	ErrOTPNotFound = errors.New("no active code for phone")
	ErrOTPExpired  = errors.New("code expired")
	ErrOTPUsed     = errors.New("code already used")

	// Token errors
	ErrTokenInvalid  = errors.New("token invalid")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenNotFound = errors.New("token not found")
)
