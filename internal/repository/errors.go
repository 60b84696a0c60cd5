package repository

import "errors"

var (
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrUserNotFound      = errors.New("user not found")
	ErrPageNotFound      = errors.New("page not found")
	ErrPostNotFound      = errors.New("post not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateSlug     = errors.New("slug already in use")
)
