package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidProgress    = errors.New("progress must be an integer between 0 and 100")
	ErrInvalidSkill       = errors.New("skill proficiency must be between 0 and 100")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
