package service

import "errors"

var (
	ErrReceiverNotFound   = errors.New("receiver not found")
	ErrForbidden          = errors.New("receiver belongs to another user")
	ErrComplimentNotFound = errors.New("compliment not found")
	ErrNoCompliments      = errors.New("receiver has no compliments")
	ErrUserNotFound       = errors.New("user not found")
	ErrOAuthExchange      = errors.New("oauth sign-in failed")
)
