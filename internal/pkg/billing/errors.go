package billing

import "errors"

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrUserNotFound     = errors.New("user not found")
	ErrUnknownPrice     = errors.New("invalid price id")
	ErrNoCustomer       = errors.New("user has no billing customer")
)
