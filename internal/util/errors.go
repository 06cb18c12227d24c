package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrCourseNotFound      = errors.New("course not found")
	ErrCourseInactive      = errors.New("course is not active")
	ErrNotEnrolled         = errors.New("not enrolled in course")
	ErrInvalidProgress     = errors.New("progress value out of range")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrQuizLocked          = errors.New("quiz locked until course is completed")
	ErrInvalidQuizState    = errors.New("invalid quiz state")
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotEligible         = errors.New("not eligible for certificate")
	ErrCertificateIssuance = errors.New("certificate issuance failed")
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrAlreadyReviewed     = errors.New("feedback already submitted for course")
)
