package util

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailRegistered  = errors.New("email already registered")
	ErrTaskNotFound     = errors.New("task not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidTaskType  = errors.New("invalid task type")
	ErrInvalidContent   = errors.New("invalid task content")
	ErrInvalidTaskID    = errors.New("invalid task ID")
	ErrEmptyImport      = errors.New("no valid tasks found in the file")
)
