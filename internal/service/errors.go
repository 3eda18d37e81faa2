package service

import "errors"

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrSliderNotFound   = errors.New("slider not found")
	ErrSettingsMissing  = errors.New("settings row missing")

	// ErrDuplicateReview is a conflict: the user already reviewed the property.
	ErrDuplicateReview = errors.New("review already exists")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPhoneTaken         = errors.New("phone already registered")

	ErrInvalidResetToken = errors.New("invalid password reset token")
	ErrResetTokenExpired = errors.New("password reset token expired")

	ErrOAuthDisabled = errors.New("google sign-in is not configured")
	ErrOAuthFailed   = errors.New("google sign-in failed")
)
