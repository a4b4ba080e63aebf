package model

import "errors"

var (
	ErrTokenInvalid  = errors.New("identity token invalid")
	ErrTokenExpired  = errors.New("identity token expired")
	ErrTokenMismatch = errors.New("identity token type mismatch")
)
