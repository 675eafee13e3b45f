package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrHRPrivilegeNeeded  = errors.New("hr privilege required")
	ErrLoginDisabled      = errors.New("login not enabled for this account")
)
