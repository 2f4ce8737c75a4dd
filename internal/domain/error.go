package domain

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user already exists")
	ErrEmailExists          = errors.New("email already registered")
	ErrIncorrectCredentials = errors.New("incorrect credentials")
	ErrOrderExists          = errors.New("order already exists")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrRewardExists         = errors.New("contact already rewarded")
)
